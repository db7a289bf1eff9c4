package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrBookNotFound = errors.New("book not found")
	ErrInvalidPrice = errors.New("price must be >= 0")
)

// InsufficientStockError is returned when a conditional stock decrement
// affects no row because the available stock is below the requested quantity.
type InsufficientStockError struct {
	BookID    uuid.UUID
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for book %s: requested %d, available %d",
		e.BookID, e.Requested, e.Available)
}

func NewInsufficientStockError(bookID uuid.UUID, requested, available int) *InsufficientStockError {
	return &InsufficientStockError{
		BookID:    bookID,
		Requested: requested,
		Available: available,
	}
}
