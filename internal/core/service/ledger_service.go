package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rl1809/quickmart/internal/core/domain"
	"github.com/rl1809/quickmart/internal/port"
)

const DefaultTxTimeout = 5 * time.Second

// StockLedger owns every change to inventory quantity-on-hand.
type StockLedger struct {
	stock     port.StockRepository
	txTimeout time.Duration
}

func NewStockLedger(stock port.StockRepository, txTimeout time.Duration) *StockLedger {
	if txTimeout <= 0 {
		txTimeout = DefaultTxTimeout
	}
	return &StockLedger{stock: stock, txTimeout: txTimeout}
}

func (s *StockLedger) ReceiveSupply(ctx context.Context, receipt domain.SupplyReceipt) (domain.SupplyReceipt, error) {
	if err := receipt.Validate(); err != nil {
		return domain.SupplyReceipt{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	if err := s.stock.ReceiveSupply(ctx, &receipt); err != nil {
		return domain.SupplyReceipt{}, fmt.Errorf("receive supply for item %d: %w", receipt.ItemNo, err)
	}
	return receipt, nil
}

func (s *StockLedger) AmendSupply(ctx context.Context, serial int64, quantity int) error {
	if serial <= 0 {
		return domain.Invalid("serial must be positive")
	}
	if quantity <= 0 {
		return domain.Invalid("quantity must be positive")
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	if err := s.stock.AmendSupply(ctx, serial, quantity); err != nil {
		return fmt.Errorf("amend supply %d: %w", serial, err)
	}
	return nil
}

func (s *StockLedger) VoidSupply(ctx context.Context, serial int64) error {
	if serial <= 0 {
		return domain.Invalid("serial must be positive")
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	if err := s.stock.VoidSupply(ctx, serial); err != nil {
		return fmt.Errorf("void supply %d: %w", serial, err)
	}
	return nil
}

// PlaceOrderLine reserves quantity units of the item for the order. It fails
// with an *domain.InsufficientStockError when fewer units are on hand.
func (s *StockLedger) PlaceOrderLine(ctx context.Context, orderNo, itemNo int64, quantity int) (domain.OrderLine, error) {
	line := domain.OrderLine{OrderNo: orderNo, ItemNo: itemNo, Quantity: quantity}
	if err := line.Validate(); err != nil {
		return domain.OrderLine{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	if err := s.stock.PlaceOrderLine(ctx, line); err != nil {
		return domain.OrderLine{}, fmt.Errorf("place order line %d/%d: %w", orderNo, itemNo, err)
	}
	return line, nil
}

func (s *StockLedger) ChangeOrderLine(ctx context.Context, orderNo, itemNo int64, quantity int) (domain.OrderLine, error) {
	line := domain.OrderLine{OrderNo: orderNo, ItemNo: itemNo, Quantity: quantity}
	if err := line.Validate(); err != nil {
		return domain.OrderLine{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	if err := s.stock.ChangeOrderLine(ctx, line); err != nil {
		return domain.OrderLine{}, fmt.Errorf("change order line %d/%d: %w", orderNo, itemNo, err)
	}
	return line, nil
}

func (s *StockLedger) RemoveOrderLine(ctx context.Context, orderNo, itemNo int64) error {
	if orderNo <= 0 || itemNo <= 0 {
		return domain.Invalid("order and item numbers must be positive")
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	if err := s.stock.RemoveOrderLine(ctx, orderNo, itemNo); err != nil {
		return fmt.Errorf("remove order line %d/%d: %w", orderNo, itemNo, err)
	}
	return nil
}
