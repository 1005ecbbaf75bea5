package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/quickmart/internal/core/domain"
)

var testDay = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

func getSQLiteDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, Options{Driver: DialectSQLite, DSN: filepath.Join(t.TempDir(), "quickmart.db")})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func getMySQLDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		t.Skip("MySQL not available: MYSQL_DSN not set")
	}

	ctx := context.Background()
	db, err := Open(ctx, Options{Driver: DialectMySQL, DSN: dsn})
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, table := range []string{
		"ordered_item", "payment", "supplied_items", "orders", "inventory",
		"feedback_main", "feedback_customer", "delivery_status", "delivery_main",
		"employee_roles", "employees", "suppliers", "customers",
	} {
		if _, err := db.SQL.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			t.Fatalf("clean %s: %v", table, err)
		}
	}
	return db
}

// fixture creates a customer, a supplier, an item with the given price and
// stock, and an empty order 1 for that customer.
func fixture(t *testing.T, db *DB, price string, stock int) *SQLStore {
	t.Helper()
	ctx := context.Background()
	store := NewSQLStore(db)
	dir := NewGormDirectory(db)

	if err := dir.CreateCustomer(ctx, domain.Customer{CustomerID: 1, Name: "Test Customer", Phone: "0123456789"}); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	if err := dir.CreateSupplier(ctx, domain.Supplier{SupplierID: 1, Name: "Test Supplier"}); err != nil {
		t.Fatalf("create supplier: %v", err)
	}
	if err := store.CreateItem(ctx, domain.InventoryItem{
		ItemNo: 1, Name: "Widget", Category: "Tools", Price: decimal.RequireFromString(price),
	}); err != nil {
		t.Fatalf("create item: %v", err)
	}
	if stock > 0 {
		receipt := domain.SupplyReceipt{ItemNo: 1, SupplierID: 1, Quantity: stock, PurchaseDate: testDay}
		if err := store.ReceiveSupply(ctx, &receipt); err != nil {
			t.Fatalf("receive supply: %v", err)
		}
	}
	if err := store.CreateOrder(ctx, domain.Order{OrderNo: 1, OrderDate: testDay, CustomerID: 1, Address: "1 Main St"}); err != nil {
		t.Fatalf("create order: %v", err)
	}
	return store
}

func stockOf(t *testing.T, store *SQLStore, itemNo int64) int {
	t.Helper()
	item, err := store.GetItem(context.Background(), itemNo)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	return item.Quantity
}

func lineCount(t *testing.T, db *DB) int {
	t.Helper()
	n, err := count(context.Background(), db.SQL, `SELECT COUNT(*) FROM ordered_item`)
	if err != nil {
		t.Fatalf("count lines: %v", err)
	}
	return n
}

func TestReceiveSupply_IncrementsStock(t *testing.T) {
	db := getSQLiteDB(t)
	store := fixture(t, db, "2.50", 0)
	ctx := context.Background()

	receipt := domain.SupplyReceipt{ItemNo: 1, SupplierID: 1, Quantity: 7, PurchaseDate: testDay}
	if err := store.ReceiveSupply(ctx, &receipt); err != nil {
		t.Fatalf("ReceiveSupply failed: %v", err)
	}
	if receipt.Serial == 0 {
		t.Error("expected serial to be assigned")
	}
	if got := stockOf(t, store, 1); got != 7 {
		t.Errorf("expected stock 7, got %d", got)
	}

	got, err := store.GetReceipt(ctx, receipt.Serial)
	if err != nil {
		t.Fatalf("GetReceipt failed: %v", err)
	}
	if got.ItemName != "Widget" || got.Quantity != 7 || !got.PurchaseDate.Equal(testDay) {
		t.Errorf("unexpected receipt: %+v", got)
	}
}

func TestReceiveSupply_UnknownItemOrSupplier(t *testing.T) {
	db := getSQLiteDB(t)
	store := fixture(t, db, "2.50", 0)
	ctx := context.Background()

	err := store.ReceiveSupply(ctx, &domain.SupplyReceipt{ItemNo: 99, SupplierID: 1, Quantity: 1, PurchaseDate: testDay})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown item, got %v", err)
	}

	err = store.ReceiveSupply(ctx, &domain.SupplyReceipt{ItemNo: 1, SupplierID: 99, Quantity: 1, PurchaseDate: testDay})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown supplier, got %v", err)
	}

	receipts, _ := store.ListReceipts(ctx)
	if len(receipts) != 0 {
		t.Errorf("expected no receipts, got %d", len(receipts))
	}
}

func TestPlaceOrderLine_Success(t *testing.T) {
	db := getSQLiteDB(t)
	store := fixture(t, db, "2.50", 10)

	if err := store.PlaceOrderLine(context.Background(), domain.OrderLine{OrderNo: 1, ItemNo: 1, Quantity: 4}); err != nil {
		t.Fatalf("PlaceOrderLine failed: %v", err)
	}
	if got := stockOf(t, store, 1); got != 6 {
		t.Errorf("expected stock 6, got %d", got)
	}
	if got := lineCount(t, db); got != 1 {
		t.Errorf("expected 1 line, got %d", got)
	}
}

func TestPlaceOrderLine_InsufficientStockWritesNothing(t *testing.T) {
	db := getSQLiteDB(t)
	store := fixture(t, db, "2.50", 3)

	err := store.PlaceOrderLine(context.Background(), domain.OrderLine{OrderNo: 1, ItemNo: 1, Quantity: 5})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	var ise *domain.InsufficientStockError
	if !errors.As(err, &ise) || ise.Available != 3 || ise.Requested != 5 {
		t.Errorf("expected available 3 requested 5, got %+v", ise)
	}
	if got := stockOf(t, store, 1); got != 3 {
		t.Errorf("expected stock unchanged at 3, got %d", got)
	}
	if got := lineCount(t, db); got != 0 {
		t.Errorf("expected no lines, got %d", got)
	}
}

func TestPlaceOrderLine_DuplicateIsConflict(t *testing.T) {
	db := getSQLiteDB(t)
	store := fixture(t, db, "2.50", 10)
	ctx := context.Background()

	if err := store.PlaceOrderLine(ctx, domain.OrderLine{OrderNo: 1, ItemNo: 1, Quantity: 2}); err != nil {
		t.Fatalf("first placement failed: %v", err)
	}

	// conflict wins even when the repeat would also exceed stock
	err := store.PlaceOrderLine(ctx, domain.OrderLine{OrderNo: 1, ItemNo: 1, Quantity: 50})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if got := stockOf(t, store, 1); got != 8 {
		t.Errorf("expected stock 8, got %d", got)
	}
	lines, _ := store.OrderLines(ctx, 1)
	if len(lines) != 1 || lines[0].Quantity != 2 {
		t.Errorf("expected the first line only, got %+v", lines)
	}
}

func TestPlaceOrderLine_UnknownOrderOrItem(t *testing.T) {
	db := getSQLiteDB(t)
	store := fixture(t, db, "2.50", 10)
	ctx := context.Background()

	if err := store.PlaceOrderLine(ctx, domain.OrderLine{OrderNo: 42, ItemNo: 1, Quantity: 1}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown order, got %v", err)
	}
	if err := store.PlaceOrderLine(ctx, domain.OrderLine{OrderNo: 1, ItemNo: 42, Quantity: 1}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown item, got %v", err)
	}
	if got := lineCount(t, db); got != 0 {
		t.Errorf("expected no lines, got %d", got)
	}
}

func testConcurrentPlacements(t *testing.T, db *DB) {
	ctx := context.Background()
	store := fixture(t, db, "1.00", 5)
	if err := store.CreateOrder(ctx, domain.Order{OrderNo: 2, OrderDate: testDay, CustomerID: 1, Address: "2 Main St"}); err != nil {
		t.Fatalf("create order: %v", err)
	}

	var successCount, insufficientCount atomic.Int32
	var wg sync.WaitGroup

	for _, orderNo := range []int64{1, 2} {
		wg.Add(1)
		go func(orderNo int64) {
			defer wg.Done()
			err := store.PlaceOrderLine(ctx, domain.OrderLine{OrderNo: orderNo, ItemNo: 1, Quantity: 3})
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				insufficientCount.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(orderNo)
	}

	wg.Wait()

	if successCount.Load() != 1 || insufficientCount.Load() != 1 {
		t.Errorf("expected 1 success and 1 insufficient, got %d and %d", successCount.Load(), insufficientCount.Load())
	}
	if got := stockOf(t, store, 1); got != 2 {
		t.Errorf("expected stock 2, got %d", got)
	}
}

func TestPlaceOrderLine_ConcurrentNoOversell(t *testing.T) {
	testConcurrentPlacements(t, getSQLiteDB(t))
}

func TestPlaceOrderLine_ConcurrentNoOversell_MySQL(t *testing.T) {
	testConcurrentPlacements(t, getMySQLDB(t))
}

func TestPlaceOrderLine_ManyConcurrent(t *testing.T) {
	db := getSQLiteDB(t)
	ctx := context.Background()
	store := fixture(t, db, "1.00", 20)

	totalRequests := 50
	for i := 2; i <= totalRequests; i++ {
		if err := store.CreateOrder(ctx, domain.Order{OrderNo: int64(i), OrderDate: testDay, CustomerID: 1, Address: "x"}); err != nil {
			t.Fatalf("create order %d: %v", i, err)
		}
	}

	var successCount atomic.Int32
	var wg sync.WaitGroup
	for i := 1; i <= totalRequests; i++ {
		wg.Add(1)
		go func(orderNo int64) {
			defer wg.Done()
			if err := store.PlaceOrderLine(ctx, domain.OrderLine{OrderNo: orderNo, ItemNo: 1, Quantity: 1}); err == nil {
				successCount.Add(1)
			} else if !errors.Is(err, domain.ErrInsufficientStock) {
				t.Errorf("unexpected error: %v", err)
			}
		}(int64(i))
	}
	wg.Wait()

	if successCount.Load() != 20 {
		t.Errorf("expected 20 successes, got %d", successCount.Load())
	}
	if got := stockOf(t, store, 1); got != 0 {
		t.Errorf("expected stock 0, got %d", got)
	}
}

func TestStockConservation(t *testing.T) {
	db := getSQLiteDB(t)
	store := fixture(t, db, "1.00", 10)
	ctx := context.Background()

	second := domain.SupplyReceipt{ItemNo: 1, SupplierID: 1, Quantity: 5, PurchaseDate: testDay}
	if err := store.ReceiveSupply(ctx, &second); err != nil {
		t.Fatalf("ReceiveSupply failed: %v", err)
	}
	if err := store.PlaceOrderLine(ctx, domain.OrderLine{OrderNo: 1, ItemNo: 1, Quantity: 6}); err != nil {
		t.Fatalf("PlaceOrderLine failed: %v", err)
	}
	if err := store.ChangeOrderLine(ctx, domain.OrderLine{OrderNo: 1, ItemNo: 1, Quantity: 4}); err != nil {
		t.Fatalf("ChangeOrderLine failed: %v", err)
	}
	if err := store.AmendSupply(ctx, second.Serial, 8); err != nil {
		t.Fatalf("AmendSupply failed: %v", err)
	}

	supplied, _ := count(ctx, db.SQL, `SELECT COALESCE(SUM(quantity), 0) FROM supplied_items WHERE item_no = 1`)
	ordered, _ := count(ctx, db.SQL, `SELECT COALESCE(SUM(quantity), 0) FROM ordered_item WHERE item_no = 1`)
	if got := stockOf(t, store, 1); got != supplied-ordered {
		t.Errorf("expected stock %d (supplied %d - ordered %d), got %d", supplied-ordered, supplied, ordered, got)
	}
	if supplied != 18 || ordered != 4 {
		t.Errorf("expected supplied 18 ordered 4, got %d and %d", supplied, ordered)
	}
}

func TestChangeOrderLine(t *testing.T) {
	db := getSQLiteDB(t)
	store := fixture(t, db, "1.00", 10)
	ctx := context.Background()

	if err := store.PlaceOrderLine(ctx, domain.OrderLine{OrderNo: 1, ItemNo: 1, Quantity: 4}); err != nil {
		t.Fatalf("PlaceOrderLine failed: %v", err)
	}

	err := store.ChangeOrderLine(ctx, domain.OrderLine{OrderNo: 1, ItemNo: 1, Quantity: 11})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if got := stockOf(t, store, 1); got != 6 {
		t.Errorf("expected stock 6 after rejected change, got %d", got)
	}

	if err := store.ChangeOrderLine(ctx, domain.OrderLine{OrderNo: 1, ItemNo: 1, Quantity: 10}); err != nil {
		t.Fatalf("ChangeOrderLine failed: %v", err)
	}
	if got := stockOf(t, store, 1); got != 0 {
		t.Errorf("expected stock 0, got %d", got)
	}

	err = store.ChangeOrderLine(ctx, domain.OrderLine{OrderNo: 1, ItemNo: 2, Quantity: 1})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveOrderLine_ReturnsStock(t *testing.T) {
	db := getSQLiteDB(t)
	store := fixture(t, db, "1.00", 10)
	ctx := context.Background()

	if err := store.PlaceOrderLine(ctx, domain.OrderLine{OrderNo: 1, ItemNo: 1, Quantity: 4}); err != nil {
		t.Fatalf("PlaceOrderLine failed: %v", err)
	}
	if err := store.RemoveOrderLine(ctx, 1, 1); err != nil {
		t.Fatalf("RemoveOrderLine failed: %v", err)
	}
	if got := stockOf(t, store, 1); got != 10 {
		t.Errorf("expected stock 10, got %d", got)
	}
	if err := store.RemoveOrderLine(ctx, 1, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestVoidSupply(t *testing.T) {
	db := getSQLiteDB(t)
	store := fixture(t, db, "1.00", 0)
	ctx := context.Background()

	receipt := domain.SupplyReceipt{ItemNo: 1, SupplierID: 1, Quantity: 5, PurchaseDate: testDay}
	if err := store.ReceiveSupply(ctx, &receipt); err != nil {
		t.Fatalf("ReceiveSupply failed: %v", err)
	}
	if err := store.PlaceOrderLine(ctx, domain.OrderLine{OrderNo: 1, ItemNo: 1, Quantity: 3}); err != nil {
		t.Fatalf("PlaceOrderLine failed: %v", err)
	}

	// 3 of the 5 received units are already sold
	if err := store.VoidSupply(ctx, receipt.Serial); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if _, err := store.GetReceipt(ctx, receipt.Serial); err != nil {
		t.Errorf("expected receipt to survive, got %v", err)
	}

	if err := store.RemoveOrderLine(ctx, 1, 1); err != nil {
		t.Fatalf("RemoveOrderLine failed: %v", err)
	}
	if err := store.VoidSupply(ctx, receipt.Serial); err != nil {
		t.Fatalf("VoidSupply failed: %v", err)
	}
	if got := stockOf(t, store, 1); got != 0 {
		t.Errorf("expected stock 0, got %d", got)
	}
	if _, err := store.GetReceipt(ctx, receipt.Serial); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAmendSupply_CannotDriveStockNegative(t *testing.T) {
	db := getSQLiteDB(t)
	store := fixture(t, db, "1.00", 0)
	ctx := context.Background()

	receipt := domain.SupplyReceipt{ItemNo: 1, SupplierID: 1, Quantity: 5, PurchaseDate: testDay}
	if err := store.ReceiveSupply(ctx, &receipt); err != nil {
		t.Fatalf("ReceiveSupply failed: %v", err)
	}
	if err := store.PlaceOrderLine(ctx, domain.OrderLine{OrderNo: 1, ItemNo: 1, Quantity: 4}); err != nil {
		t.Fatalf("PlaceOrderLine failed: %v", err)
	}

	if err := store.AmendSupply(ctx, receipt.Serial, 2); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if err := store.AmendSupply(ctx, receipt.Serial, 4); err != nil {
		t.Fatalf("AmendSupply failed: %v", err)
	}
	if got := stockOf(t, store, 1); got != 0 {
		t.Errorf("expected stock 0, got %d", got)
	}
	if err := store.AmendSupply(ctx, 999, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
