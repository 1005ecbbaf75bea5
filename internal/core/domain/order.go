package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	OrderNo    int64
	OrderDate  time.Time
	CustomerID int64
	Address    string
	Amount     decimal.Decimal // derived from the order lines on every read
}

func (o Order) Validate() error {
	if o.OrderNo <= 0 {
		return Invalid("order number must be positive")
	}
	if o.OrderDate.IsZero() {
		return Invalid("order date is required")
	}
	if o.CustomerID <= 0 {
		return Invalid("customer id must be positive")
	}
	if strings.TrimSpace(o.Address) == "" {
		return Invalid("address is required")
	}
	return nil
}

type OrderLine struct {
	OrderNo  int64
	ItemNo   int64
	ItemName string
	Quantity int
}

func (l OrderLine) Validate() error {
	if l.OrderNo <= 0 {
		return Invalid("order number must be positive")
	}
	if l.ItemNo <= 0 {
		return Invalid("item number must be positive")
	}
	if l.Quantity <= 0 {
		return Invalid("quantity must be positive")
	}
	return nil
}

// PricedLine is an order line joined with the item's current unit price.
type PricedLine struct {
	ItemNo    int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// OrderTotal sums price × quantity over the lines and rounds half-to-even to
// cents once, on the final sum. An empty slice totals zero.
func OrderTotal(lines []PricedLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total.RoundBank(2)
}
