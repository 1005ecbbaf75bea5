package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/rl1809/quickmart/internal/core/domain"
)

// Seed loads a small demo data set. Stock arrives through supply receipts so
// the seeded quantities agree with the receipt and order history. A database
// that already has inventory is left alone.
func Seed(ctx context.Context, db *DB) error {
	n, err := count(ctx, db.SQL, `SELECT COUNT(*) FROM inventory`)
	if err != nil {
		return fmt.Errorf("count inventory: %w", err)
	}
	if n > 0 {
		log.Info().Int("items", n).Msg("inventory not empty, skipping seed")
		return nil
	}

	store := NewSQLStore(db)
	dir := NewGormDirectory(db)
	day := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	for _, c := range []domain.Customer{
		{CustomerID: 1, Name: "Alice Nguyen", Phone: "0901234567"},
		{CustomerID: 2, Name: "Bao Tran", Phone: "0912345678"},
	} {
		if err := dir.CreateCustomer(ctx, c); err != nil {
			return err
		}
	}
	if err := dir.CreateSupplier(ctx, domain.Supplier{
		SupplierID: 1, Name: "Fresh Farms", ContactNo: "0287654321", Address: "12 Market St",
	}); err != nil {
		return err
	}
	if err := dir.CreateEmployee(ctx, domain.Employee{
		EmployeeID: 1, Name: "Chi Le", Salary: decimal.RequireFromString("1200.00"), Contact: "0938765432",
	}); err != nil {
		return err
	}

	items := []domain.InventoryItem{
		{ItemNo: 1, Name: "Rice 5kg", Category: "Grocery", Price: decimal.RequireFromString("10.00")},
		{ItemNo: 2, Name: "Olive Oil 1L", Category: "Grocery", Price: decimal.RequireFromString("5.50")},
		{ItemNo: 3, Name: "Green Tea", Category: "Beverage", Price: decimal.RequireFromString("3.25")},
	}
	for _, item := range items {
		if err := store.CreateItem(ctx, item); err != nil {
			return err
		}
		receipt := domain.SupplyReceipt{ItemNo: item.ItemNo, SupplierID: 1, Quantity: 100, PurchaseDate: day}
		if err := store.ReceiveSupply(ctx, &receipt); err != nil {
			return err
		}
	}

	if err := store.CreateOrder(ctx, domain.Order{
		OrderNo: 1, OrderDate: day, CustomerID: 1, Address: "34 River Rd",
	}); err != nil {
		return err
	}
	for _, line := range []domain.OrderLine{
		{OrderNo: 1, ItemNo: 1, Quantity: 2},
		{OrderNo: 1, ItemNo: 2, Quantity: 1},
	} {
		if err := store.PlaceOrderLine(ctx, line); err != nil {
			return err
		}
	}
	if err := store.RecordPayment(ctx, &domain.Payment{
		PaymentNo: 1, OrderNo: 1, Method: domain.PaymentCreditCard, PaymentDate: day,
	}); err != nil {
		return err
	}

	log.Info().Int("items", len(items)).Msg("seeded demo data")
	return nil
}
