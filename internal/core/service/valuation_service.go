package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/quickmart/internal/core/domain"
	"github.com/rl1809/quickmart/internal/port"
)

// OrderValuation derives order totals and takes payment amount snapshots.
type OrderValuation struct {
	repo      port.ValuationRepository
	txTimeout time.Duration
}

func NewOrderValuation(repo port.ValuationRepository, txTimeout time.Duration) *OrderValuation {
	if txTimeout <= 0 {
		txTimeout = DefaultTxTimeout
	}
	return &OrderValuation{repo: repo, txTimeout: txTimeout}
}

// ComputeOrderTotal returns zero for an order without lines. It does not tell
// a missing order from an empty one; callers that care look the order up first.
func (v *OrderValuation) ComputeOrderTotal(ctx context.Context, orderNo int64) (decimal.Decimal, error) {
	if orderNo <= 0 {
		return decimal.Zero, domain.Invalid("order number must be positive")
	}

	ctx, cancel := context.WithTimeout(ctx, v.txTimeout)
	defer cancel()

	lines, err := v.repo.PricedLines(ctx, orderNo)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price order %d: %w", orderNo, err)
	}
	return domain.OrderTotal(lines), nil
}

func (v *OrderValuation) RecordPayment(ctx context.Context, paymentNo, orderNo int64, method string, date time.Time) (domain.Payment, error) {
	if paymentNo <= 0 {
		return domain.Payment{}, domain.Invalid("payment number must be positive")
	}
	if orderNo <= 0 {
		return domain.Payment{}, domain.Invalid("order number must be positive")
	}
	m, err := domain.ParsePaymentMethod(method)
	if err != nil {
		return domain.Payment{}, err
	}
	if date.IsZero() {
		return domain.Payment{}, domain.Invalid("payment date is required")
	}

	ctx, cancel := context.WithTimeout(ctx, v.txTimeout)
	defer cancel()

	p := domain.Payment{PaymentNo: paymentNo, OrderNo: orderNo, Method: m, PaymentDate: date}
	if err := v.repo.RecordPayment(ctx, &p); err != nil {
		return domain.Payment{}, fmt.Errorf("record payment %d: %w", paymentNo, err)
	}
	return p, nil
}

// UpdatePayment never moves a payment to another order; the amount is
// re-derived from the order it was recorded against.
func (v *OrderValuation) UpdatePayment(ctx context.Context, paymentNo int64, method string, date time.Time) (domain.Payment, error) {
	if paymentNo <= 0 {
		return domain.Payment{}, domain.Invalid("payment number must be positive")
	}
	m, err := domain.ParsePaymentMethod(method)
	if err != nil {
		return domain.Payment{}, err
	}
	if date.IsZero() {
		return domain.Payment{}, domain.Invalid("payment date is required")
	}

	ctx, cancel := context.WithTimeout(ctx, v.txTimeout)
	defer cancel()

	p := domain.Payment{PaymentNo: paymentNo, Method: m, PaymentDate: date}
	if err := v.repo.UpdatePayment(ctx, &p); err != nil {
		return domain.Payment{}, fmt.Errorf("update payment %d: %w", paymentNo, err)
	}
	return p, nil
}
