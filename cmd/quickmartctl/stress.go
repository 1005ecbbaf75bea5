package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rl1809/quickmart/internal/adapter/storage"
	"github.com/rl1809/quickmart/internal/core/domain"
	"github.com/rl1809/quickmart/internal/core/service"
)

var (
	stressStock    int
	stressRequests int
	stressDSN      string
)

// stressCmd races single-unit placements against a small stock on a scratch
// SQLite database and checks nothing was oversold.
var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Race concurrent order placements against limited stock",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		dsn := stressDSN
		if dsn == "" {
			dir, err := os.MkdirTemp("", "quickmart-stress")
			if err != nil {
				return err
			}
			defer os.RemoveAll(dir)
			dsn = filepath.Join(dir, "stress.db")
		}

		db, err := storage.Open(ctx, storage.Options{Driver: storage.DialectSQLite, DSN: dsn})
		if err != nil {
			return err
		}
		defer db.Close()
		if err := storage.Migrate(ctx, db); err != nil {
			return err
		}

		store := storage.NewSQLStore(db)
		ledger := service.NewStockLedger(store, service.DefaultTxTimeout)
		if err := prepareStress(ctx, db, store, ledger); err != nil {
			return err
		}

		var successCount, soldOutCount, failCount atomic.Int32
		var wg sync.WaitGroup
		start := time.Now()

		for i := 1; i <= stressRequests; i++ {
			wg.Add(1)
			go func(orderNo int64) {
				defer wg.Done()

				_, err := ledger.PlaceOrderLine(ctx, orderNo, 1, 1)
				switch {
				case err == nil:
					successCount.Add(1)
				case errors.Is(err, domain.ErrInsufficientStock):
					soldOutCount.Add(1)
				default:
					failCount.Add(1)
				}
			}(int64(i))
		}

		wg.Wait()
		elapsed := time.Since(start)

		item, err := store.GetItem(ctx, 1)
		if err != nil {
			return err
		}

		fmt.Println("========== STRESS TEST RESULTS ==========")
		fmt.Printf("Initial Stock:    %d\n", stressStock)
		fmt.Printf("Total Requests:   %d\n", stressRequests)
		fmt.Printf("Successful:       %d\n", successCount.Load())
		fmt.Printf("Sold Out:         %d\n", soldOutCount.Load())
		fmt.Printf("Other Failures:   %d\n", failCount.Load())
		fmt.Printf("Final Stock:      %d\n", item.Quantity)
		fmt.Printf("Duration:         %v\n", elapsed)
		fmt.Println("==========================================")

		want := min(stressStock, stressRequests)
		if int(successCount.Load()) != want || item.Quantity != stressStock-want || failCount.Load() != 0 {
			return fmt.Errorf("expected %d placements and final stock %d", want, stressStock-want)
		}
		fmt.Println("PASS: no oversell")
		return nil
	},
}

func prepareStress(ctx context.Context, db *storage.DB, store *storage.SQLStore, ledger *service.StockLedger) error {
	dir := storage.NewGormDirectory(db)
	if err := dir.CreateCustomer(ctx, domain.Customer{CustomerID: 1, Name: "Stress", Phone: "0000000000"}); err != nil {
		return err
	}
	if err := dir.CreateSupplier(ctx, domain.Supplier{SupplierID: 1, Name: "Stress Supply"}); err != nil {
		return err
	}
	if err := store.CreateItem(ctx, domain.InventoryItem{ItemNo: 1, Name: "Contested Item", Price: decimal.NewFromInt(1)}); err != nil {
		return err
	}
	if _, err := ledger.ReceiveSupply(ctx, domain.SupplyReceipt{
		ItemNo: 1, SupplierID: 1, Quantity: stressStock, PurchaseDate: time.Now().UTC(),
	}); err != nil {
		return err
	}
	for i := 1; i <= stressRequests; i++ {
		if err := store.CreateOrder(ctx, domain.Order{
			OrderNo: int64(i), OrderDate: time.Now().UTC(), CustomerID: 1, Address: "stress",
		}); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	stressCmd.Flags().IntVar(&stressStock, "stock", 20, "initial stock of the contested item")
	stressCmd.Flags().IntVar(&stressRequests, "requests", 50, "concurrent single-unit placements")
	stressCmd.Flags().StringVar(&stressDSN, "dsn", "", "SQLite file to use (defaults to a temporary file)")
	rootCmd.AddCommand(stressCmd)
}
