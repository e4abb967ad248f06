package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	domainerrors "token-research.backend/internal/domain/errors"
	"token-research.backend/internal/infrastructure/models"
)

// SlotRepository implements repositories.SlotStore on a SQL table through GORM.
// The same code serves the SQLite and PostgreSQL dialectors.
type SlotRepository struct {
	db *gorm.DB
}

// NewSlotRepository creates a new slot repository
func NewSlotRepository(db *gorm.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// Migrate creates the slots table if it does not exist
func (r *SlotRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&models.Slot{})
}

// Get reads the serialized value stored under key
func (r *SlotRepository) Get(ctx context.Context, key string) (string, error) {
	var m models.Slot
	if err := r.db.WithContext(ctx).Where("slot_key = ?", key).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domainerrors.ErrSlotAbsent
		}
		return "", fmt.Errorf("get slot %q: %w", key, err)
	}
	return m.Value, nil
}

// Set upserts the serialized value stored under key
func (r *SlotRepository) Set(ctx context.Context, key, value string) error {
	m := models.Slot{SlotKey: key, Value: value, UpdatedAt: time.Now()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return fmt.Errorf("set slot %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *SlotRepository) Delete(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where("slot_key = ?", key).Delete(&models.Slot{}).Error; err != nil {
		return fmt.Errorf("delete slot %q: %w", key, err)
	}
	return nil
}
