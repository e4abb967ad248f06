package repositories

import (
	"context"
	"sync"

	domainerrors "token-research.backend/internal/domain/errors"
	"token-research.backend/internal/domain/repositories"
)

// MemorySlotRepository is an in-memory implementation of repositories.SlotStore.
// Nothing survives the process; it backs the "memory" storage backend and tests.
type MemorySlotRepository struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewMemorySlotRepository creates an empty in-memory slot store
func NewMemorySlotRepository() *MemorySlotRepository {
	return &MemorySlotRepository{slots: make(map[string]string)}
}

func (r *MemorySlotRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.slots[key]
	if !ok {
		return "", domainerrors.ErrSlotAbsent
	}
	return v, nil
}

func (r *MemorySlotRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.slots[key] = value
	return nil
}

func (r *MemorySlotRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.slots, key)
	return nil
}

// Len returns the number of stored slots
func (r *MemorySlotRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots)
}

var (
	_ repositories.SlotStore = (*MemorySlotRepository)(nil)
	_ repositories.SlotStore = (*SlotRepository)(nil)
)
