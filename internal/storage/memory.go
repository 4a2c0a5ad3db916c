package storage

import (
	"context"
	"strconv"
	"sync"

	"contestScope/internal/model"
)

// MemoryRegistry is an in-memory ComponentRegistry for tests and the
// developer CLI.
type MemoryRegistry struct {
	mu     sync.RWMutex
	nextID uint64
	byKey  map[string]model.ComponentRecord
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{byKey: make(map[string]model.ComponentRecord)}
}

func registryKey(chainID uint64, address string) string {
	return model.NormalizeAddress(address) + "@" + strconv.FormatUint(chainID, 10)
}

// PutComponent stores a record, assigning an id when it has none.
func (r *MemoryRegistry) PutComponent(_ context.Context, record model.ComponentRecord) (model.ComponentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == 0 {
		r.nextID++
		record.ID = r.nextID
	}
	record.Address = model.NormalizeAddress(record.Address)
	record.Organizer = model.NormalizeAddress(record.Organizer)
	r.byKey[registryKey(record.ChainID, record.Address)] = record
	return record, nil
}

// GetComponent looks a record up by chain and address.
func (r *MemoryRegistry) GetComponent(_ context.Context, chainID uint64, address string) (model.ComponentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.byKey[registryKey(chainID, address)]
	if !ok {
		return model.ComponentRecord{}, ErrComponentNotFound
	}
	return record, nil
}

// ListComponents returns every record owned by an organizer.
func (r *MemoryRegistry) ListComponents(_ context.Context, organizer string) ([]model.ComponentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	want := model.NormalizeAddress(organizer)
	out := make([]model.ComponentRecord, 0)
	for _, record := range r.byKey {
		if record.Organizer == want {
			out = append(out, record)
		}
	}
	return out, nil
}
