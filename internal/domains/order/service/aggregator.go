package service

import (
	"github.com/shopspring/decimal"

	"bookstore-backoffice/internal/domains/order/model"
)

// AggregateLines merges request lines that name the same book, summing their
// quantities. First-seen order is preserved and the first occurrence's unit
// price wins; a mismatch with the catalog price is caught during validation.
func AggregateLines(reqs []model.OrderLineRequest) []model.OrderLine {
	index := make(map[string]int, len(reqs))
	lines := make([]model.OrderLine, 0, len(reqs))

	for _, req := range reqs {
		key := req.BookID.String()
		if i, ok := index[key]; ok {
			lines[i].Quantity += req.Quantity
			continue
		}
		index[key] = len(lines)
		lines = append(lines, model.OrderLine{
			BookID:    req.BookID,
			Quantity:  req.Quantity,
			UnitPrice: req.UnitPrice,
		})
	}

	for i := range lines {
		lines[i].Total = lines[i].UnitPrice.Mul(decimal.NewFromInt(int64(lines[i].Quantity)))
	}

	return lines
}

// ComputeTotals returns the order total and the number of distinct books.
func ComputeTotals(lines []model.OrderLine) (decimal.Decimal, int) {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Total)
	}
	return total, len(lines)
}
