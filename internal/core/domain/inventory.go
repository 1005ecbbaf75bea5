package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type InventoryItem struct {
	ItemNo   int64
	Name     string
	Category string
	Price    decimal.Decimal
	Quantity int // quantity on hand, owned by the stock ledger
}

func (i InventoryItem) Validate() error {
	if i.ItemNo <= 0 {
		return Invalid("item number must be positive")
	}
	if strings.TrimSpace(i.Name) == "" {
		return Invalid("item name is required")
	}
	if err := ValidatePrice(i.Price); err != nil {
		return err
	}
	if i.Quantity < 0 {
		return Invalid("quantity must not be negative")
	}
	return nil
}

// ValidatePrice accepts non-negative amounts with at most two fractional digits.
func ValidatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return Invalid("price must not be negative")
	}
	if !p.Equal(p.Round(2)) {
		return Invalid("price must have at most 2 fractional digits")
	}
	return nil
}

// SupplyReceipt records stock received from a supplier.
type SupplyReceipt struct {
	Serial       int64
	ItemNo       int64
	ItemName     string
	SupplierID   int64
	Quantity     int
	PurchaseDate time.Time
}

func (r SupplyReceipt) Validate() error {
	if r.ItemNo <= 0 {
		return Invalid("item number must be positive")
	}
	if r.SupplierID <= 0 {
		return Invalid("supplier id must be positive")
	}
	if r.Quantity <= 0 {
		return Invalid("quantity must be positive")
	}
	if r.PurchaseDate.IsZero() {
		return Invalid("purchase date is required")
	}
	return nil
}
