package cart

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Line is one basket entry. Price is the unit price snapshotted when the
// product was first added; later catalog price changes do not touch it.
type Line struct {
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Document is the session-persisted basket, keyed by product id. JSON object
// keys are the decimal string form of the id.
type Document map[int64]Line

// Item pairs a product id with its line for iteration.
type Item struct {
	ProductID int64
	Line      Line
}

// Items returns a snapshot of the basket in ascending product-id order so
// repeated reads render identically.
func (d Document) Items() []Item {
	ids := make([]int64, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, Item{ProductID: id, Line: d[id]})
	}
	return items
}

// Total recomputes the basket total from scratch on every call.
func (d Document) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range d {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Quantity returns the stored quantity for a product, 0 when absent.
func (d Document) Quantity(productID int64) int {
	return d[productID].Quantity
}

// Len returns the number of distinct lines.
func (d Document) Len() int {
	return len(d)
}
