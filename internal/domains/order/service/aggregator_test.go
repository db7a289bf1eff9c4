package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-backoffice/internal/domains/order/model"
)

func TestAggregateLines_MergesDuplicates(t *testing.T) {
	bookA := uuid.New()
	bookB := uuid.New()

	lines := AggregateLines([]model.OrderLineRequest{
		{BookID: bookA, Quantity: 2, UnitPrice: decimal.RequireFromString("10.50")},
		{BookID: bookB, Quantity: 1, UnitPrice: decimal.RequireFromString("3.00")},
		{BookID: bookA, Quantity: 3, UnitPrice: decimal.RequireFromString("10.50")},
	})

	require.Len(t, lines, 2)

	assert.Equal(t, bookA, lines[0].BookID)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.True(t, lines[0].Total.Equal(decimal.RequireFromString("52.50")))

	assert.Equal(t, bookB, lines[1].BookID)
	assert.Equal(t, 1, lines[1].Quantity)
	assert.True(t, lines[1].Total.Equal(decimal.RequireFromString("3.00")))
}

func TestAggregateLines_KeepsFirstSeenOrder(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	reqs := make([]model.OrderLineRequest, 0, len(ids))
	for _, id := range ids {
		reqs = append(reqs, model.OrderLineRequest{
			BookID: id, Quantity: 1, UnitPrice: decimal.NewFromInt(1),
		})
	}

	lines := AggregateLines(reqs)

	require.Len(t, lines, 3)
	for i, id := range ids {
		assert.Equal(t, id, lines[i].BookID)
	}
}

func TestAggregateLines_Empty(t *testing.T) {
	assert.Empty(t, AggregateLines(nil))
}

func TestComputeTotals(t *testing.T) {
	lines := AggregateLines([]model.OrderLineRequest{
		{BookID: uuid.New(), Quantity: 2, UnitPrice: decimal.RequireFromString("19.99")},
		{BookID: uuid.New(), Quantity: 4, UnitPrice: decimal.RequireFromString("0.25")},
	})

	total, count := ComputeTotals(lines)

	assert.True(t, total.Equal(decimal.RequireFromString("40.98")), "got %s", total)
	assert.Equal(t, 2, count)
}

func TestComputeTotals_CountsDistinctBooksNotQuantity(t *testing.T) {
	lines := AggregateLines([]model.OrderLineRequest{
		{BookID: uuid.New(), Quantity: 100, UnitPrice: decimal.NewFromInt(1)},
	})

	_, count := ComputeTotals(lines)

	assert.Equal(t, 1, count)
}
