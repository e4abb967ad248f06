package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	domainerrors "token-research.backend/internal/domain/errors"
)

// SlotStore stores serialized slots as plain Redis strings without expiry
type SlotStore struct{}

var (
	setSlotValue = Set
	getSlotValue = Get
	delSlotValue = Del
)

// NewSlotStore creates a slot store on top of the package client
func NewSlotStore() *SlotStore {
	return &SlotStore{}
}

// Get reads a slot. A missing key maps to ErrSlotAbsent.
func (s *SlotStore) Get(ctx context.Context, key string) (string, error) {
	v, err := getSlotValue(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domainerrors.ErrSlotAbsent
		}
		return "", fmt.Errorf("redis get %q: %w", key, err)
	}
	return v, nil
}

// Set writes a slot
func (s *SlotStore) Set(ctx context.Context, key, value string) error {
	if err := setSlotValue(ctx, key, value, 0); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Delete removes a slot
func (s *SlotStore) Delete(ctx context.Context, key string) error {
	if err := delSlotValue(ctx, key); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}
