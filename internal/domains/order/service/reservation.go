package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	bookrepo "bookstore-backoffice/internal/domains/book/repository"
	"bookstore-backoffice/internal/domains/order/model"
)

// ReservationManager applies stock movements for order lines. Each decrement
// is a conditional write, so a concurrent order racing for the same book
// cannot drive stock negative; the losing transaction rolls back whole.
type ReservationManager struct {
	bookRepo bookrepo.RepositoryInterface
}

func NewReservationManager(bookRepo bookrepo.RepositoryInterface) *ReservationManager {
	return &ReservationManager{bookRepo: bookRepo}
}

// Reserve decrements stock for every line. On the first failure the caller
// rolls back the transaction, which undoes the decrements already applied.
func (m *ReservationManager) Reserve(ctx context.Context, tx pgx.Tx, lines []model.OrderLine) error {
	for _, line := range lines {
		if err := m.bookRepo.ReserveStockWithTx(ctx, tx, line.BookID, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// Release returns the stock held by every line.
func (m *ReservationManager) Release(ctx context.Context, tx pgx.Tx, lines []model.OrderLine) error {
	for _, line := range lines {
		if err := m.bookRepo.ReleaseStockWithTx(ctx, tx, line.BookID, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}
