package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrOrderHasNoItems = errors.New("order has no items")
)

// BadPriceError is returned when a requested unit price does not match the
// current catalog price for the book.
type BadPriceError struct {
	BookID    uuid.UUID
	Requested decimal.Decimal
	Current   decimal.Decimal
}

func (e *BadPriceError) Error() string {
	return fmt.Sprintf("bad price for book %s: requested %s, current %s",
		e.BookID, e.Requested, e.Current)
}

func NewBadPriceError(bookID uuid.UUID, requested, current decimal.Decimal) *BadPriceError {
	return &BadPriceError{
		BookID:    bookID,
		Requested: requested,
		Current:   current,
	}
}
