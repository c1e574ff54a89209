// Package support proxies the platform's support chat. Each active session
// gets a background poller that keeps a local snapshot of the thread, so the
// browser polls this service instead of the platform directly.
package support

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/donateraid/storefront-api/internal/domain"
	"github.com/donateraid/storefront-api/internal/logger"
	"github.com/donateraid/storefront-api/internal/poller"
)

// idleMultiplier decides when a watcher for a session nobody reads anymore
// shuts itself down.
const idleMultiplier = 6

// API is the slice of the platform client the chat needs.
type API interface {
	SupportHistory(ctx context.Context, token, guestID string) ([]domain.SupportMessage, error)
	SendSupportMessage(ctx context.Context, token, guestID, message string) error
}

type Service struct {
	api      API
	interval time.Duration

	mu       sync.Mutex
	watchers map[string]*watcher
}

type watcher struct {
	cancel context.CancelFunc

	mu       sync.RWMutex
	messages []domain.SupportMessage
	lastRead time.Time
}

func NewService(api API, interval time.Duration) *Service {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Service{
		api:      api,
		interval: interval,
		watchers: make(map[string]*watcher),
	}
}

// History returns the session's chat thread. The first call fetches
// synchronously and starts a background poller; later calls are served from
// the poller's snapshot.
func (s *Service) History(ctx context.Context, session *domain.Session) ([]domain.SupportMessage, error) {
	w, started := s.watcherFor(session)
	if started {
		messages, err := s.api.SupportHistory(ctx, session.AccessToken, session.GuestID)
		if err != nil {
			return nil, fmt.Errorf("support history: %w", err)
		}
		w.store(messages)
		return messages, nil
	}
	return w.snapshot(), nil
}

// Send posts a message and refreshes the snapshot so the sender sees their
// own message on the next read.
func (s *Service) Send(ctx context.Context, session *domain.Session, message string) error {
	if err := s.api.SendSupportMessage(ctx, session.AccessToken, session.GuestID, message); err != nil {
		return fmt.Errorf("send support message: %w", err)
	}

	if messages, err := s.api.SupportHistory(ctx, session.AccessToken, session.GuestID); err == nil {
		if w, ok := s.lookup(session.ID); ok {
			w.store(messages)
		}
	}
	return nil
}

// Stop cancels every active watcher.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, w := range s.watchers {
		w.cancel()
		delete(s.watchers, id)
	}
}

func (s *Service) lookup(sessionID string) (*watcher, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.watchers[sessionID]
	return w, ok
}

// watcherFor returns the session's watcher, creating and starting it when the
// session shows up for the first time. The second return reports creation.
func (s *Service) watcherFor(session *domain.Session) (*watcher, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w, ok := s.watchers[session.ID]; ok {
		w.touch()
		return w, false
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &watcher{cancel: cancel, lastRead: time.Now()}
	s.watchers[session.ID] = w

	token, guestID, sessionID := session.AccessToken, session.GuestID, session.ID
	p := poller.New("support-chat", s.interval,
		func(ctx context.Context) ([]domain.SupportMessage, error) {
			if w.idleFor(s.interval * idleMultiplier) {
				s.evict(sessionID)
				return nil, nil
			}
			return s.api.SupportHistory(ctx, token, guestID)
		},
		w.store,
	)
	go p.Run(ctx)

	logger.FromContext(ctx).Debug("support watcher started", "session_id", sessionID)
	return w, true
}

func (s *Service) evict(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.watchers[sessionID]; ok {
		w.cancel()
		delete(s.watchers, sessionID)
	}
}

func (w *watcher) store(messages []domain.SupportMessage) {
	w.mu.Lock()
	w.messages = messages
	w.mu.Unlock()
}

func (w *watcher) snapshot() []domain.SupportMessage {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.messages
}

func (w *watcher) touch() {
	w.mu.Lock()
	w.lastRead = time.Now()
	w.mu.Unlock()
}

func (w *watcher) idleFor(d time.Duration) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return time.Since(w.lastRead) > d
}
