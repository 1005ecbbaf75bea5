package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rl1809/quickmart/internal/core/domain"
	"github.com/rl1809/quickmart/internal/port"
)

// Catalog serves inventory details, orders and the read side of the ledger.
type Catalog struct {
	repo port.CatalogRepository
}

func NewCatalog(repo port.CatalogRepository) *Catalog {
	return &Catalog{repo: repo}
}

func (c *Catalog) CreateItem(ctx context.Context, item domain.InventoryItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if err := c.repo.CreateItem(ctx, item); err != nil {
		return fmt.Errorf("create item %d: %w", item.ItemNo, err)
	}
	return nil
}

func (c *Catalog) GetItem(ctx context.Context, itemNo int64) (*domain.InventoryItem, error) {
	item, err := c.repo.GetItem(ctx, itemNo)
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", itemNo, err)
	}
	return item, nil
}

func (c *Catalog) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	return c.repo.ListItems(ctx)
}

// UpdateItemDetails changes name, category and price. Quantity is left to the ledger.
func (c *Catalog) UpdateItemDetails(ctx context.Context, itemNo int64, name, category string, price decimal.Decimal) error {
	if itemNo <= 0 {
		return domain.Invalid("item number must be positive")
	}
	if strings.TrimSpace(name) == "" {
		return domain.Invalid("item name is required")
	}
	if err := domain.ValidatePrice(price); err != nil {
		return err
	}
	item := domain.InventoryItem{ItemNo: itemNo, Name: name, Category: category, Price: price}
	if err := c.repo.UpdateItemDetails(ctx, item); err != nil {
		return fmt.Errorf("update item %d: %w", itemNo, err)
	}
	return nil
}

func (c *Catalog) DeleteItem(ctx context.Context, itemNo int64) error {
	if err := c.repo.DeleteItem(ctx, itemNo); err != nil {
		return fmt.Errorf("delete item %d: %w", itemNo, err)
	}
	return nil
}

func (c *Catalog) CreateOrder(ctx context.Context, order domain.Order) error {
	if err := order.Validate(); err != nil {
		return err
	}
	if err := c.repo.CreateOrder(ctx, order); err != nil {
		return fmt.Errorf("create order %d: %w", order.OrderNo, err)
	}
	return nil
}

func (c *Catalog) GetOrder(ctx context.Context, orderNo int64) (*domain.Order, error) {
	o, err := c.repo.GetOrder(ctx, orderNo)
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", orderNo, err)
	}
	return o, nil
}

func (c *Catalog) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return c.repo.ListOrders(ctx)
}

func (c *Catalog) UpdateOrder(ctx context.Context, order domain.Order) error {
	if err := order.Validate(); err != nil {
		return err
	}
	if err := c.repo.UpdateOrder(ctx, order); err != nil {
		return fmt.Errorf("update order %d: %w", order.OrderNo, err)
	}
	return nil
}

func (c *Catalog) DeleteOrder(ctx context.Context, orderNo int64) error {
	if err := c.repo.DeleteOrder(ctx, orderNo); err != nil {
		return fmt.Errorf("delete order %d: %w", orderNo, err)
	}
	return nil
}

func (c *Catalog) ListOrderLines(ctx context.Context) ([]domain.OrderLine, error) {
	return c.repo.ListOrderLines(ctx)
}

func (c *Catalog) OrderLines(ctx context.Context, orderNo int64) ([]domain.OrderLine, error) {
	lines, err := c.repo.OrderLines(ctx, orderNo)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.NotFound("no ordered items for order %d", orderNo)
	}
	return lines, nil
}

func (c *Catalog) GetReceipt(ctx context.Context, serial int64) (*domain.SupplyReceipt, error) {
	r, err := c.repo.GetReceipt(ctx, serial)
	if err != nil {
		return nil, fmt.Errorf("get receipt %d: %w", serial, err)
	}
	return r, nil
}

func (c *Catalog) ListReceipts(ctx context.Context) ([]domain.SupplyReceipt, error) {
	return c.repo.ListReceipts(ctx)
}

func (c *Catalog) GetPayment(ctx context.Context, paymentNo int64) (*domain.Payment, error) {
	p, err := c.repo.GetPayment(ctx, paymentNo)
	if err != nil {
		return nil, fmt.Errorf("get payment %d: %w", paymentNo, err)
	}
	return p, nil
}

func (c *Catalog) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	return c.repo.ListPayments(ctx)
}

func (c *Catalog) DeletePayment(ctx context.Context, paymentNo int64) error {
	if err := c.repo.DeletePayment(ctx, paymentNo); err != nil {
		return fmt.Errorf("delete payment %d: %w", paymentNo, err)
	}
	return nil
}
