package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"bookstore-backoffice/internal/domains/book/model"
)

// RepositoryInterface is the catalog store. The reservation engine depends on
// the conditional stock writes; the WithTx variants run inside the order
// lifecycle transaction so reads see stock already released in that
// transaction.
type RepositoryInterface interface {
	Create(ctx context.Context, book *model.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	GetByIDWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Book, error)
	List(ctx context.Context, page, limit int) ([]model.Book, int, error)
	Update(ctx context.Context, book *model.Book) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ReserveStockWithTx decrements stock by quantity in a single conditional
	// write. Returns model.ErrBookNotFound if the book is gone and
	// *model.InsufficientStockError if stock < quantity.
	ReserveStockWithTx(ctx context.Context, tx pgx.Tx, bookID uuid.UUID, quantity int) error

	// ReleaseStockWithTx increments stock by quantity. Returns
	// model.ErrBookNotFound if the book is gone.
	ReleaseStockWithTx(ctx context.Context, tx pgx.Tx, bookID uuid.UUID, quantity int) error
}
