package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/quickmart/internal/core/domain"
)

// pricedLines joins on ordered_item.quantity for every caller; there is no
// second spelling of the valuation query.
func pricedLines(ctx context.Context, q querier, orderNo int64) ([]domain.PricedLine, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT oi.item_no, oi.quantity, i.price
		FROM ordered_item oi
		JOIN inventory i ON i.item_no = oi.item_no
		WHERE oi.order_no = ?
		ORDER BY oi.item_no`, orderNo,
	)
	if err != nil {
		return nil, fmt.Errorf("query priced lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.PricedLine
	for rows.Next() {
		var l domain.PricedLine
		if err := rows.Scan(&l.ItemNo, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan priced line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (s *SQLStore) PricedLines(ctx context.Context, orderNo int64) ([]domain.PricedLine, error) {
	lines, err := pricedLines(ctx, s.db, orderNo)
	return lines, classify(err)
}

// snapshotAmount values an order inside the payment transaction. An order
// that is missing or has nothing on it cannot be paid for.
func snapshotAmount(ctx context.Context, tx *sql.Tx, p *domain.Payment) error {
	ok, err := exists(ctx, tx, `SELECT 1 FROM orders WHERE order_no = ?`, p.OrderNo)
	if err != nil {
		return fmt.Errorf("query order: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: order %d not found", domain.ErrInvalidOrder, p.OrderNo)
	}

	lines, err := pricedLines(ctx, tx, p.OrderNo)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return fmt.Errorf("%w: order %d has no items", domain.ErrInvalidOrder, p.OrderNo)
	}
	p.Amount = domain.OrderTotal(lines)
	return nil
}

func (s *SQLStore) RecordPayment(ctx context.Context, p *domain.Payment) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := snapshotAmount(ctx, tx, p); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO payment (payment_no, order_no, method, amount, payment_date)
			VALUES (?, ?, ?, ?, ?)`,
			p.PaymentNo, p.OrderNo, string(p.Method), p.Amount.StringFixed(2), p.PaymentDate,
		)
		if err != nil {
			if isDuplicate(err) {
				return domain.Conflict("payment %d already exists", p.PaymentNo)
			}
			return fmt.Errorf("insert payment: %w", err)
		}
		return nil
	})
}

func (s *SQLStore) UpdatePayment(ctx context.Context, p *domain.Payment) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`SELECT order_no FROM payment WHERE payment_no = ?`+s.forUpdate(), p.PaymentNo,
		).Scan(&p.OrderNo)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound("payment %d", p.PaymentNo)
		}
		if err != nil {
			return fmt.Errorf("query payment: %w", err)
		}

		if err := snapshotAmount(ctx, tx, p); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE payment
			SET method = ?, amount = ?, payment_date = ?
			WHERE payment_no = ?`,
			string(p.Method), p.Amount.StringFixed(2), p.PaymentDate, p.PaymentNo,
		); err != nil {
			return fmt.Errorf("update payment: %w", err)
		}
		return nil
	})
}
