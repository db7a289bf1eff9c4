package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookstore-backoffice/internal/domains/shop/model"
)

type RepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Shop, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) RepositoryInterface {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Shop, error) {
	query := `
		SELECT id, name, address, is_active, created_at, updated_at
		FROM shops
		WHERE id = $1
	`

	var shop model.Shop
	err := r.db.QueryRow(ctx, query, id).Scan(
		&shop.ID,
		&shop.Name,
		&shop.Address,
		&shop.IsActive,
		&shop.CreatedAt,
		&shop.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrShopNotFound
		}
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}

	return &shop, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM shops WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check shop existence: %w", err)
	}

	return exists, nil
}
