package cart

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/donateraid/storefront-api/internal/domain"
	"github.com/donateraid/storefront-api/internal/logger"
	"github.com/donateraid/storefront-api/internal/repository"
)

// Service owns the cart of each session: reads go through the cache with a
// stampede guard, writes go to the repository first and then invalidate the
// cache. A missing or corrupt stored cart is never an error for the caller;
// the session simply starts over with an empty cart.
type Service struct {
	repo  repository.Cart
	cache Cache
	sfg   singleflight.Group
}

func NewService(repo repository.Cart, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Get returns the session's cart, an empty cart if none is stored.
func (s *Service) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		if s.cache != nil {
			cart, err := s.cache.Get(ctx, sessionID)
			if err == nil {
				return cart, nil
			}
			if !errors.Is(err, ErrCacheMiss) {
				logger.FromContext(ctx).Warn("cart cache read failed", "error", err)
			}
		}

		cart, err := s.repo.Load(ctx, sessionID)
		if errors.Is(err, domain.ErrCartNotFound) || errors.Is(err, domain.ErrCartCorrupt) {
			return &domain.Cart{UpdatedAt: time.Now().UTC()}, nil
		}
		if err != nil {
			return nil, err
		}

		s.fillCache(ctx, sessionID, cart)
		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}

// AddItem merges one item into the session's cart and returns the updated
// cart. Adding the same (product, inputs) pair twice raises quantity instead
// of duplicating the line.
func (s *Service) AddItem(ctx context.Context, sessionID string, item domain.CartLineItem) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) {
		c.AddItem(item)
	})
}

// AddItems merges a batch of items in order, so colliding items within the
// batch merge with each other.
func (s *Service) AddItems(ctx context.Context, sessionID string, items []domain.CartLineItem) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) {
		c.AddItems(items)
	})
}

// RemoveItem deletes the line at index. An out-of-range index leaves the cart
// unchanged.
func (s *Service) RemoveItem(ctx context.Context, sessionID string, index int) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) {
		c.RemoveItem(index)
	})
}

// UpdateQuantity sets the quantity of the line at index; zero or less removes
// the line.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID string, index, quantity int) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) {
		c.UpdateQuantity(index, quantity)
	})
}

// Clear empties the session's cart.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.invalidateCache(sessionID)
	return nil
}

func (s *Service) mutate(ctx context.Context, sessionID string, fn func(*domain.Cart)) (*domain.Cart, error) {
	cart, err := s.repo.Load(ctx, sessionID)
	if errors.Is(err, domain.ErrCartNotFound) || errors.Is(err, domain.ErrCartCorrupt) {
		cart = &domain.Cart{}
	} else if err != nil {
		return nil, err
	}

	fn(cart)
	cart.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}

	s.invalidateCache(sessionID)
	return cart, nil
}

func (s *Service) fillCache(ctx context.Context, sessionID string, cart *domain.Cart) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, sessionID, cart); err != nil {
		logger.FromContext(ctx).Warn("cart cache write failed", "error", err)
	}
}

func (s *Service) invalidateCache(sessionID string) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		logger.FromContext(ctx).Warn("cart cache invalidate failed", "error", err)
	}
}
