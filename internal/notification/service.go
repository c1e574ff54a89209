// Package notification serves the unread-counter badge. Counts are cached
// per token for one poll interval, so however often browsers poll, the
// platform sees at most one request per interval per user.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/donateraid/storefront-api/internal/domain"
)

// API is the slice of the platform client the badge needs.
type API interface {
	UnreadNotificationCount(ctx context.Context, token string) (int, error)
}

type Service struct {
	api    API
	counts *expirable.LRU[string, int]
}

func NewService(api API, interval time.Duration) *Service {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Service{
		api:    api,
		counts: expirable.NewLRU[string, int](1024, nil, interval),
	}
}

// UnreadCount returns the badge counter for an authenticated session. Guests
// have no notifications and always read zero.
func (s *Service) UnreadCount(ctx context.Context, session *domain.Session) (int, error) {
	if !session.Authenticated() {
		return 0, nil
	}

	if count, ok := s.counts.Get(session.AccessToken); ok {
		return count, nil
	}

	count, err := s.api.UnreadNotificationCount(ctx, session.AccessToken)
	if err != nil {
		return 0, fmt.Errorf("unread count: %w", err)
	}
	s.counts.Add(session.AccessToken, count)
	return count, nil
}
