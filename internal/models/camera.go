package models

import (
	"time"

	"github.com/google/uuid"
)

// Camera represents a recording source registered in the index
type Camera struct {
	ID        uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Name      string    `json:"name" gorm:"type:text;not null;uniqueIndex;column:name" validate:"required"`
	CreatedAt time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// NewCamera creates a new Camera with generated UUID and timestamp
func NewCamera(name string) *Camera {
	return &Camera{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}
