package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Book is a catalog entry. Price is the authoritative current unit price
// order lines are validated against; Stock is the available quantity the
// reservation engine decrements and restores.
type Book struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Title       string          `json:"title" db:"title"`
	Author      string          `json:"author" db:"author"`
	Publisher   string          `json:"publisher" db:"publisher"`
	Description *string         `json:"description,omitempty" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Stock       int             `json:"stock" db:"stock"`
	IsActive    bool            `json:"is_active" db:"is_active"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// CreateBookRequest is the payload for creating a catalog entry.
type CreateBookRequest struct {
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	Publisher   string          `json:"publisher"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

func (req CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.Author, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.Publisher, validation.Length(0, 255)),
		validation.Field(&req.Price, validation.By(nonNegativeDecimal)),
		validation.Field(&req.Stock, validation.Min(0)),
	)
}

// UpdateBookRequest is the payload for updating a catalog entry. Price and
// stock updates here are administrative; order reservations go through the
// conditional stock writes instead.
type UpdateBookRequest struct {
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	Publisher   string          `json:"publisher"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	IsActive    bool            `json:"is_active"`
}

func (req UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.Author, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.Publisher, validation.Length(0, 255)),
		validation.Field(&req.Price, validation.By(nonNegativeDecimal)),
		validation.Field(&req.Stock, validation.Min(0)),
	)
}

func nonNegativeDecimal(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return ErrInvalidPrice
	}
	if d.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}
