package repositories

import "context"

// SlotStore is a durable key-value store holding serialized slots.
// Get returns domainerrors.ErrSlotAbsent (possibly wrapped) when the key is missing.
type SlotStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
