package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLineRequest is one requested position. UnitPrice is the price the
// caller expects to pay and must match the catalog price exactly.
type OrderLineRequest struct {
	BookID    uuid.UUID       `json:"book_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (req OrderLineRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.BookID, validation.Required, validation.By(nonNilUUID)),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&req.UnitPrice, validation.By(nonNegativeDecimal)),
	)
}

// CreateOrderRequest is the payload for placing an order. Duplicate lines for
// the same book are merged before validation. An empty line list is reported
// by the lifecycle service, not here, so the error carries order semantics.
type CreateOrderRequest struct {
	UserID   uuid.UUID          `json:"user_id"`
	ClientID uuid.UUID          `json:"client_id"`
	ShopID   uuid.UUID          `json:"shop_id"`
	Lines    []OrderLineRequest `json:"lines"`
}

func (req CreateOrderRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.UserID, validation.By(nonNilUUID)),
		validation.Field(&req.ClientID, validation.By(nonNilUUID)),
		validation.Field(&req.ShopID, validation.By(nonNilUUID)),
	)
}

// UpdateOrderRequest replaces an order's lines wholesale. The party ids are
// revalidated for existence but the order keeps its original parties.
type UpdateOrderRequest struct {
	UserID   uuid.UUID          `json:"user_id"`
	ClientID uuid.UUID          `json:"client_id"`
	ShopID   uuid.UUID          `json:"shop_id"`
	Lines    []OrderLineRequest `json:"lines"`
}

func (req UpdateOrderRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.UserID, validation.By(nonNilUUID)),
		validation.Field(&req.ClientID, validation.By(nonNilUUID)),
		validation.Field(&req.ShopID, validation.By(nonNilUUID)),
	)
}

func nonNilUUID(value interface{}) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return validation.NewError("validation_required", "must be a valid UUID")
	}
	return nil
}

func nonNegativeDecimal(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok || d.IsNegative() {
		return validation.NewError("validation_price", "must be >= 0")
	}
	return nil
}
