package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donateraid/storefront-api/internal/domain"
)

type fakeGamesAPI struct {
	games     []domain.Game
	listCalls int
	getCalls  int
}

func (f *fakeGamesAPI) ListGames(ctx context.Context, query string) ([]domain.Game, error) {
	f.listCalls++
	return f.games, nil
}

func (f *fakeGamesAPI) GetGame(ctx context.Context, gameID int) (*domain.Game, error) {
	f.getCalls++
	for i := range f.games {
		if f.games[i].ID == gameID {
			return &f.games[i], nil
		}
	}
	return nil, domain.ErrGameNotFound
}

func testAPI() *fakeGamesAPI {
	return &fakeGamesAPI{games: []domain.Game{
		{ID: 1, Name: "Genshin Impact"},
		{ID: 2, Name: "Brawl Stars"},
		{ID: 3, Name: "STALKER 2"},
	}}
}

func TestList_SearchIsCaseInsensitive(t *testing.T) {
	svc := NewService(testAPI(), 16, time.Minute)
	ctx := context.Background()

	games, err := svc.List(ctx, "genshin")
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, 1, games[0].ID)

	games, err = svc.List(ctx, "stalker")
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, 3, games[0].ID)

	games, err = svc.List(ctx, "xyzzy")
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestList_FetchesOnceForRepeatedQueries(t *testing.T) {
	api := testAPI()
	svc := NewService(api, 16, time.Minute)
	ctx := context.Background()

	for _, q := range []string{"", "g", "ge", "gen"} {
		_, err := svc.List(ctx, q)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, api.listCalls)
}

func TestGet_CachesByID(t *testing.T) {
	api := testAPI()
	svc := NewService(api, 16, time.Minute)
	ctx := context.Background()

	game, err := svc.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Brawl Stars", game.Name)

	_, err = svc.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, api.getCalls)
}

func TestGet_MissIsNotCached(t *testing.T) {
	api := testAPI()
	svc := NewService(api, 16, time.Minute)
	ctx := context.Background()

	_, err := svc.Get(ctx, 99)
	require.ErrorIs(t, err, domain.ErrGameNotFound)
	_, err = svc.Get(ctx, 99)
	require.ErrorIs(t, err, domain.ErrGameNotFound)
	assert.Equal(t, 2, api.getCalls)
}

func TestInvalidate_DropsCachedEntry(t *testing.T) {
	api := testAPI()
	svc := NewService(api, 16, time.Minute)
	ctx := context.Background()

	_, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	_, err = svc.List(ctx, "")
	require.NoError(t, err)

	svc.Invalidate(1)

	_, err = svc.Get(ctx, 1)
	require.NoError(t, err)
	_, err = svc.List(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, 2, api.getCalls)
	assert.Equal(t, 2, api.listCalls)
}
