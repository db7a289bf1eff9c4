package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookstore-backoffice/internal/domains/order/model"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) RepositoryInterface {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

func (r *PostgresRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, user_id, client_id, shop_id, total_price, total_books, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := tx.Exec(ctx, query,
		order.ID,
		order.UserID,
		order.ClientID,
		order.ShopID,
		order.TotalPrice,
		order.TotalBooks,
		order.IsDeleted,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	if err := r.insertLines(ctx, tx, order.ID, order.Lines); err != nil {
		return err
	}

	return nil
}

// UpdateWithTx overwrites the order header and replaces all lines.
func (r *PostgresRepository) UpdateWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		UPDATE orders
		SET total_price = $2, total_books = $3, updated_at = $4
		WHERE id = $1 AND is_deleted = false
	`

	result, err := tx.Exec(ctx, query,
		order.ID,
		order.TotalPrice,
		order.TotalBooks,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_lines WHERE order_id = $1`, order.ID); err != nil {
		return fmt.Errorf("failed to delete order lines: %w", err)
	}

	if err := r.insertLines(ctx, tx, order.ID, order.Lines); err != nil {
		return err
	}

	return nil
}

func (r *PostgresRepository) insertLines(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, lines []model.OrderLine) error {
	query := `
		INSERT INTO order_lines (order_id, book_id, quantity, unit_price, total)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, line := range lines {
		_, err := tx.Exec(ctx, query, orderID, line.BookID, line.Quantity, line.UnitPrice, line.Total)
		if err != nil {
			return fmt.Errorf("failed to insert order line: %w", err)
		}
	}

	return nil
}

func (r *PostgresRepository) DeleteWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM order_lines WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete order lines: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	return nil
}

// MarkDeletedWithTx flips the logical-delete flag. Lines are kept so the
// cancelled order stays readable by id.
func (r *PostgresRepository) MarkDeletedWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	query := `
		UPDATE orders
		SET is_deleted = true, updated_at = NOW()
		WHERE id = $1 AND is_deleted = false
	`

	result, err := tx.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark order deleted: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	return nil
}

const orderColumns = `id, user_id, client_id, shop_id, total_price, total_books, is_deleted, created_at, updated_at`

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	lines, err := r.loadLines(ctx, r.db, order.ID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines

	return order, nil
}

func (r *PostgresRepository) GetByIDWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`

	order, err := scanOrder(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	lines, err := r.loadLines(ctx, tx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines

	return order, nil
}

// querier covers both the pool and an open transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *PostgresRepository) loadLines(ctx context.Context, q querier, orderID uuid.UUID) ([]model.OrderLine, error) {
	query := `
		SELECT book_id, quantity, unit_price, total
		FROM order_lines
		WHERE order_id = $1
		ORDER BY book_id
	`

	rows, err := q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order lines: %w", err)
	}
	defer rows.Close()

	lines := make([]model.OrderLine, 0)
	for rows.Next() {
		var line model.OrderLine
		if err := rows.Scan(&line.BookID, &line.Quantity, &line.UnitPrice, &line.Total); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order lines: %w", err)
	}

	return lines, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var order model.Order
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.ClientID,
		&order.ShopID,
		&order.TotalPrice,
		&order.TotalBooks,
		&order.IsDeleted,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Order, int, error) {
	return r.list(ctx, `user_id = $1`, []any{userID}, page, limit)
}

func (r *PostgresRepository) ListByClient(ctx context.Context, clientID uuid.UUID, page, limit int) ([]model.Order, int, error) {
	return r.list(ctx, `client_id = $1`, []any{clientID}, page, limit)
}

func (r *PostgresRepository) ListByShop(ctx context.Context, shopID uuid.UUID, page, limit int) ([]model.Order, int, error) {
	return r.list(ctx, `shop_id = $1`, []any{shopID}, page, limit)
}

func (r *PostgresRepository) ListAll(ctx context.Context, page, limit int) ([]model.Order, int, error) {
	return r.list(ctx, `true`, nil, page, limit)
}

// list pages over non-deleted orders matching the filter. Cancelled orders
// stay readable by id but never appear in listings.
func (r *PostgresRepository) list(ctx context.Context, filter string, args []any, page, limit int) ([]model.Order, int, error) {
	offset := (page - 1) * limit

	countQuery := `SELECT COUNT(*) FROM orders WHERE is_deleted = false AND ` + filter

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE is_deleted = false AND ` + filter + `
		ORDER BY created_at DESC
		LIMIT $` + fmt.Sprint(len(args)+1) + ` OFFSET $` + fmt.Sprint(len(args)+2)

	listArgs := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.Query(ctx, query, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		var order model.Order
		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.ClientID,
			&order.ShopID,
			&order.TotalPrice,
			&order.TotalBooks,
			&order.IsDeleted,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate orders: %w", err)
	}

	for i := range orders {
		lines, err := r.loadLines(ctx, r.db, orders[i].ID)
		if err != nil {
			return nil, 0, err
		}
		orders[i].Lines = lines
	}

	return orders, total, nil
}
