package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookstore-backoffice/internal/domains/book/model"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) RepositoryInterface {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (id, title, author, publisher, description, price, stock, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.Publisher,
		book.Description,
		book.Price,
		book.Stock,
		book.IsActive,
		book.CreatedAt,
		book.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	query := `
		SELECT id, title, author, publisher, description, price, stock, is_active, created_at, updated_at
		FROM books
		WHERE id = $1
	`

	return r.scanBook(r.db.QueryRow(ctx, query, id))
}

func (r *PostgresRepository) GetByIDWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Book, error) {
	query := `
		SELECT id, title, author, publisher, description, price, stock, is_active, created_at, updated_at
		FROM books
		WHERE id = $1
	`

	return r.scanBook(tx.QueryRow(ctx, query, id))
}

func (r *PostgresRepository) scanBook(row pgx.Row) (*model.Book, error) {
	var book model.Book
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Publisher,
		&book.Description,
		&book.Price,
		&book.Stock,
		&book.IsActive,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return &book, nil
}

func (r *PostgresRepository) List(ctx context.Context, page, limit int) ([]model.Book, int, error) {
	offset := (page - 1) * limit

	countQuery := `SELECT COUNT(*) FROM books WHERE is_active = true`

	var total int
	if err := r.db.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	query := `
		SELECT id, title, author, publisher, description, price, stock, is_active, created_at, updated_at
		FROM books
		WHERE is_active = true
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0)
	for rows.Next() {
		var book model.Book
		err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.Publisher,
			&book.Description,
			&book.Price,
			&book.Stock,
			&book.IsActive,
			&book.CreatedAt,
			&book.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate books: %w", err)
	}

	return books, total, nil
}

func (r *PostgresRepository) Update(ctx context.Context, book *model.Book) error {
	query := `
		UPDATE books
		SET title = $2, author = $3, publisher = $4, description = $5,
		    price = $6, stock = $7, is_active = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.Publisher,
		book.Description,
		book.Price,
		book.Stock,
		book.IsActive,
		book.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM books WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	return nil
}

// ReserveStockWithTx performs the conditional decrement. The WHERE clause is
// the concurrency guard: two competing reservations serialize on the row lock
// and the loser sees the already-decremented stock.
func (r *PostgresRepository) ReserveStockWithTx(ctx context.Context, tx pgx.Tx, bookID uuid.UUID, quantity int) error {
	query := `
		UPDATE books
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
	`

	result, err := tx.Exec(ctx, query, bookID, quantity)
	if err != nil {
		return fmt.Errorf("failed to reserve stock: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Zero rows means either the book is gone or stock is short.
		// Re-read inside the transaction to tell the two apart.
		var available int
		err := tx.QueryRow(ctx, `SELECT stock FROM books WHERE id = $1`, bookID).Scan(&available)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrBookNotFound
			}
			return fmt.Errorf("failed to check stock: %w", err)
		}
		return model.NewInsufficientStockError(bookID, quantity, available)
	}

	return nil
}

func (r *PostgresRepository) ReleaseStockWithTx(ctx context.Context, tx pgx.Tx, bookID uuid.UUID, quantity int) error {
	query := `
		UPDATE books
		SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := tx.Exec(ctx, query, bookID, quantity)
	if err != nil {
		return fmt.Errorf("failed to release stock: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	return nil
}
