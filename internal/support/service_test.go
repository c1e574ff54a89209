package support

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donateraid/storefront-api/internal/domain"
	"github.com/donateraid/storefront-api/internal/testing/leaktest"
)

type fakeAPI struct {
	mu       sync.Mutex
	messages []domain.SupportMessage
	histCount int
	lastTok  string
	lastID   string
}

func (f *fakeAPI) SupportHistory(ctx context.Context, token, guestID string) ([]domain.SupportMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.histCount++
	f.lastTok = token
	f.lastID = guestID
	out := make([]domain.SupportMessage, len(f.messages))
	copy(out, f.messages)
	return out, nil
}

func (f *fakeAPI) SendSupportMessage(ctx context.Context, token, guestID, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, domain.SupportMessage{
		ID:      len(f.messages) + 1,
		Message: message,
	})
	return nil
}

func (f *fakeAPI) historyCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.histCount
}

func TestHistory_FirstReadFetchesAndStartsWatcher(t *testing.T) {
	api := &fakeAPI{messages: []domain.SupportMessage{{ID: 1, Message: "hi"}}}
	svc := NewService(api, time.Hour)
	defer svc.Stop()

	session := &domain.Session{ID: "sess", GuestID: "guest-1"}
	messages, err := svc.History(context.Background(), session)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "guest-1", api.lastID)

	// Second read is served from the snapshot, no upstream call
	before := api.historyCalls()
	_, err = svc.History(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, before, api.historyCalls())
}

func TestSend_RefreshesSnapshot(t *testing.T) {
	api := &fakeAPI{}
	svc := NewService(api, time.Hour)
	defer svc.Stop()

	session := &domain.Session{ID: "sess", AccessToken: "tok"}
	ctx := context.Background()

	_, err := svc.History(ctx, session)
	require.NoError(t, err)

	require.NoError(t, svc.Send(ctx, session, "help me"))

	messages, err := svc.History(ctx, session)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "help me", messages[0].Message)
}

func TestHistory_PollerPicksUpAdminReplies(t *testing.T) {
	api := &fakeAPI{}
	svc := NewService(api, 10*time.Millisecond)
	defer svc.Stop()

	session := &domain.Session{ID: "sess", GuestID: "guest-1"}
	ctx := context.Background()

	_, err := svc.History(ctx, session)
	require.NoError(t, err)

	// An admin reply lands upstream without this client doing anything
	api.mu.Lock()
	api.messages = append(api.messages, domain.SupportMessage{ID: 1, Message: "how can I help?", IsAdmin: true})
	api.mu.Unlock()

	require.Eventually(t, func() bool {
		messages, err := svc.History(ctx, session)
		return err == nil && len(messages) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestWatchers_SessionsAreIsolated(t *testing.T) {
	api := &fakeAPI{}
	svc := NewService(api, time.Hour)
	defer svc.Stop()
	ctx := context.Background()

	_, err := svc.History(ctx, &domain.Session{ID: "a", GuestID: "guest-a"})
	require.NoError(t, err)
	_, err = svc.History(ctx, &domain.Session{ID: "b", GuestID: "guest-b"})
	require.NoError(t, err)

	svc.mu.Lock()
	assert.Len(t, svc.watchers, 2)
	svc.mu.Unlock()
}

func TestStop_ReleasesWatcherGoroutines(t *testing.T) {
	checker := leaktest.NewGoroutineChecker(t)

	api := &fakeAPI{}
	svc := NewService(api, 5*time.Millisecond)
	ctx := context.Background()

	_, err := svc.History(ctx, &domain.Session{ID: "a", GuestID: "guest-a"})
	require.NoError(t, err)
	_, err = svc.History(ctx, &domain.Session{ID: "b", GuestID: "guest-b"})
	require.NoError(t, err)

	svc.Stop()
	checker.Check(1)
}
