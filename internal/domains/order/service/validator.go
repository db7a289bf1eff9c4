package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	bookmodel "bookstore-backoffice/internal/domains/book/model"
	bookrepo "bookstore-backoffice/internal/domains/book/repository"
	"bookstore-backoffice/internal/domains/order/model"
)

// Validator checks aggregated lines against the catalog inside the lifecycle
// transaction, so stock released earlier in the same transaction is visible.
type Validator struct {
	bookRepo bookrepo.RepositoryInterface
}

func NewValidator(bookRepo bookrepo.RepositoryInterface) *Validator {
	return &Validator{bookRepo: bookRepo}
}

// ValidateLines verifies each line in order: the book exists, stock covers
// the quantity, and the requested unit price matches the catalog price.
// The first failing line aborts validation.
func (v *Validator) ValidateLines(ctx context.Context, tx pgx.Tx, lines []model.OrderLine) error {
	if len(lines) == 0 {
		return model.ErrOrderHasNoItems
	}

	for _, line := range lines {
		book, err := v.bookRepo.GetByIDWithTx(ctx, tx, line.BookID)
		if err != nil {
			return err
		}

		if book.Stock < line.Quantity {
			return bookmodel.NewInsufficientStockError(line.BookID, line.Quantity, book.Stock)
		}

		if !line.UnitPrice.Equal(book.Price) {
			return model.NewBadPriceError(line.BookID, line.UnitPrice, book.Price)
		}
	}

	return nil
}
