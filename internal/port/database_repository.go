package port

import (
	"context"

	"github.com/rl1809/quickmart/internal/core/domain"
)

// StockRepository applies ledger movements. Every method runs in a single
// transaction: the stock adjustment and the record that caused it are
// committed together or not at all.
type StockRepository interface {
	// ReceiveSupply increments stock and inserts the receipt, filling in its serial
	ReceiveSupply(ctx context.Context, receipt *domain.SupplyReceipt) error

	// AmendSupply changes a receipt quantity and applies the delta to stock
	AmendSupply(ctx context.Context, serial int64, quantity int) error

	// VoidSupply deletes a receipt and takes its quantity back out of stock
	VoidSupply(ctx context.Context, serial int64) error

	// PlaceOrderLine inserts the line with a bounded decrement of stock
	PlaceOrderLine(ctx context.Context, line domain.OrderLine) error

	// ChangeOrderLine sets a new line quantity and applies the delta to stock
	ChangeOrderLine(ctx context.Context, line domain.OrderLine) error

	// RemoveOrderLine deletes the line and returns its quantity to stock
	RemoveOrderLine(ctx context.Context, orderNo, itemNo int64) error
}

// ValuationRepository reads priced order lines and stores payment snapshots.
type ValuationRepository interface {
	// PricedLines returns the order's lines joined with current item prices
	PricedLines(ctx context.Context, orderNo int64) ([]domain.PricedLine, error)

	// RecordPayment values the order and inserts the payment in one transaction
	RecordPayment(ctx context.Context, payment *domain.Payment) error

	// UpdatePayment re-values the payment's order and overwrites method, date and amount
	UpdatePayment(ctx context.Context, payment *domain.Payment) error
}

// CatalogRepository covers the plain reads and writes around the ledger.
type CatalogRepository interface {
	CreateItem(ctx context.Context, item domain.InventoryItem) error
	GetItem(ctx context.Context, itemNo int64) (*domain.InventoryItem, error)
	ListItems(ctx context.Context) ([]domain.InventoryItem, error)
	UpdateItemDetails(ctx context.Context, item domain.InventoryItem) error
	DeleteItem(ctx context.Context, itemNo int64) error

	CreateOrder(ctx context.Context, order domain.Order) error
	GetOrder(ctx context.Context, orderNo int64) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	UpdateOrder(ctx context.Context, order domain.Order) error
	DeleteOrder(ctx context.Context, orderNo int64) error

	ListOrderLines(ctx context.Context) ([]domain.OrderLine, error)
	OrderLines(ctx context.Context, orderNo int64) ([]domain.OrderLine, error)

	GetReceipt(ctx context.Context, serial int64) (*domain.SupplyReceipt, error)
	ListReceipts(ctx context.Context) ([]domain.SupplyReceipt, error)

	GetPayment(ctx context.Context, paymentNo int64) (*domain.Payment, error)
	ListPayments(ctx context.Context) ([]domain.Payment, error)
	DeletePayment(ctx context.Context, paymentNo int64) error
}
