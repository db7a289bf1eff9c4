package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"bookstore-backoffice/internal/domains/order/model"
)

// RepositoryInterface is the order store. Every lifecycle mutation runs
// inside a transaction opened with BeginTx so that order rows, line rows and
// stock adjustments commit or roll back together.
type RepositoryInterface interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CommitTx(ctx context.Context, tx pgx.Tx) error
	RollbackTx(ctx context.Context, tx pgx.Tx) error

	CreateWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error
	UpdateWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error
	DeleteWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	MarkDeletedWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	GetByIDWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Order, int, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, page, limit int) ([]model.Order, int, error)
	ListByShop(ctx context.Context, shopID uuid.UUID, page, limit int) ([]model.Order, int, error)
	ListAll(ctx context.Context, page, limit int) ([]model.Order, int, error)
}
