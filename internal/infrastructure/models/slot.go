package models

import "time"

// Slot is one serialized unit of durable state
type Slot struct {
	SlotKey   string `gorm:"type:varchar(128);primaryKey"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (Slot) TableName() string {
	return "slots"
}
