package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is created for every user at sign-up, one per user.
type Cart struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
