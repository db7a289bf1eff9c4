package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the back-office purchase aggregate. Lines are unique by book,
// TotalPrice is the sum of line totals and TotalBooks the number of distinct
// lines. IsDeleted hides the order from listings; its reservation stays in
// place until a hard delete.
type Order struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	UserID     uuid.UUID       `json:"user_id" db:"user_id"`
	ClientID   uuid.UUID       `json:"client_id" db:"client_id"`
	ShopID     uuid.UUID       `json:"shop_id" db:"shop_id"`
	Lines      []OrderLine     `json:"lines"`
	TotalPrice decimal.Decimal `json:"total_price" db:"total_price"`
	TotalBooks int             `json:"total_books" db:"total_books"`
	IsDeleted  bool            `json:"is_deleted" db:"is_deleted"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// OrderLine is one book position on an order. UnitPrice is the catalog price
// captured at validation time; Total is Quantity x UnitPrice.
type OrderLine struct {
	BookID    uuid.UUID       `json:"book_id" db:"book_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
	Total     decimal.Decimal `json:"total" db:"total"`
}
