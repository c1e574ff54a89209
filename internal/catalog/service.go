// Package catalog serves the public game catalog. The platform is the source
// of truth; a small in-memory LRU keeps hot entries off the wire.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/donateraid/storefront-api/internal/domain"
)

const listCacheKey = "__all__"

// GamesAPI is the slice of the platform client the catalog needs.
type GamesAPI interface {
	ListGames(ctx context.Context, query string) ([]domain.Game, error)
	GetGame(ctx context.Context, gameID int) (*domain.Game, error)
}

type Service struct {
	api    GamesAPI
	games  *expirable.LRU[int, *domain.Game]
	lists  *expirable.LRU[string, []domain.Game]
	folder cases.Caser
}

func NewService(api GamesAPI, size int, ttl time.Duration) *Service {
	if size <= 0 {
		size = 256
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		api:    api,
		games:  expirable.NewLRU[int, *domain.Game](size, nil, ttl),
		lists:  expirable.NewLRU[string, []domain.Game](4, nil, ttl),
		folder: cases.Fold(),
	}
}

// List returns the catalog, filtered by a case-insensitive substring query.
// The unfiltered list is fetched once and searched locally, so typing in the
// search box does not hammer the platform.
func (s *Service) List(ctx context.Context, query string) ([]domain.Game, error) {
	games, ok := s.lists.Get(listCacheKey)
	if !ok {
		fetched, err := s.api.ListGames(ctx, "")
		if err != nil {
			return nil, fmt.Errorf("fetch catalog: %w", err)
		}
		games = fetched
		s.lists.Add(listCacheKey, games)
	}

	if query == "" {
		return games, nil
	}

	// Case folding handles lookalike casing across alphabets, which plain
	// ToLower gets wrong for some locales
	needle := s.folder.String(query)
	var matched []domain.Game
	for _, game := range games {
		if strings.Contains(s.folder.String(game.Name), needle) {
			matched = append(matched, game)
		}
	}
	return matched, nil
}

// Get returns one game with its products, subcategories and input fields.
func (s *Service) Get(ctx context.Context, gameID int) (*domain.Game, error) {
	if game, ok := s.games.Get(gameID); ok {
		return game, nil
	}

	game, err := s.api.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	s.games.Add(gameID, game)
	return game, nil
}

// Invalidate drops a game from the cache. Called after an admin save so the
// storefront reflects the edit immediately.
func (s *Service) Invalidate(gameID int) {
	s.games.Remove(gameID)
	s.lists.Purge()
}
