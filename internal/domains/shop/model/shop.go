package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrShopNotFound = errors.New("shop not found")

// Shop is the storefront an order is fulfilled from.
type Shop struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Address   string    `json:"address" db:"address"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
