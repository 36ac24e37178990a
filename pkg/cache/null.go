package cache

import "context"

// NullStore is a no-op store that never keeps anything.
// Every read is a miss.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() Store {
	return NullStore{}
}

// Read always returns ErrCacheMiss.
func (NullStore) Read(ctx context.Context, kind Kind, v any) error {
	mustKnow(kind)
	return ErrCacheMiss
}

// Write does nothing.
func (NullStore) Write(ctx context.Context, kind Kind, v any) error {
	mustKnow(kind)
	return nil
}

// Clear does nothing.
func (NullStore) Clear(ctx context.Context) error {
	return nil
}

// Ensure NullStore implements Store.
var _ Store = NullStore{}
