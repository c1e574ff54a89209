package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/donateraid/storefront-api/internal/domain"
)

// FakeRepository is a stateful in-memory implementation of repository.Cart for
// testing. It round-trips carts through JSON the way the Postgres
// implementation does, so serialization bugs surface in unit tests too.
type FakeRepository struct {
	blobs map[string][]byte
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{blobs: make(map[string][]byte)}
}

func (f *FakeRepository) Load(ctx context.Context, sessionID string) (*domain.Cart, error) {
	blob, ok := f.blobs[sessionID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	var cart domain.Cart
	if err := json.Unmarshal(blob, &cart); err != nil {
		delete(f.blobs, sessionID)
		return nil, fmt.Errorf("%w: %v", domain.ErrCartCorrupt, err)
	}
	return &cart, nil
}

func (f *FakeRepository) Save(ctx context.Context, sessionID string, cart *domain.Cart) error {
	blob, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	f.blobs[sessionID] = blob
	return nil
}

func (f *FakeRepository) Delete(ctx context.Context, sessionID string) error {
	delete(f.blobs, sessionID)
	return nil
}

// Corrupt replaces the stored blob with JSON of the wrong shape. Test helper.
func (f *FakeRepository) Corrupt(sessionID string) {
	f.blobs[sessionID] = []byte(`{"items": 42}`)
}

// FakeCache is an in-memory Cache that counts invalidations.
type FakeCache struct {
	entries     map[string]*domain.Cart
	Invalidated int
}

func NewFakeCache() *FakeCache {
	return &FakeCache{entries: make(map[string]*domain.Cart)}
}

func (f *FakeCache) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, ok := f.entries[sessionID]
	if !ok {
		return nil, ErrCacheMiss
	}
	return cart, nil
}

func (f *FakeCache) Set(ctx context.Context, sessionID string, cart *domain.Cart) error {
	f.entries[sessionID] = cart
	return nil
}

func (f *FakeCache) Delete(ctx context.Context, sessionID string) error {
	delete(f.entries, sessionID)
	f.Invalidated++
	return nil
}
