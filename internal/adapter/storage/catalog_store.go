package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/quickmart/internal/core/domain"
)

func (s *SQLStore) CreateItem(ctx context.Context, item domain.InventoryItem) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inventory (item_no, name, category, price, quantity)
		VALUES (?, ?, ?, ?, ?)`,
		item.ItemNo, item.Name, item.Category, item.Price.StringFixed(2), item.Quantity,
	)
	if err != nil {
		if isDuplicate(err) {
			return domain.Conflict("inventory item %d already exists", item.ItemNo)
		}
		return classify(fmt.Errorf("insert inventory item: %w", err))
	}
	return nil
}

func (s *SQLStore) GetItem(ctx context.Context, itemNo int64) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := s.db.QueryRowContext(ctx, `
		SELECT item_no, name, category, price, quantity
		FROM inventory WHERE item_no = ?`, itemNo,
	).Scan(&item.ItemNo, &item.Name, &item.Category, &item.Price, &item.Quantity)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("inventory item %d", itemNo)
	}
	if err != nil {
		return nil, classify(fmt.Errorf("query inventory item: %w", err))
	}
	return &item, nil
}

func (s *SQLStore) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_no, name, category, price, quantity
		FROM inventory ORDER BY item_no`)
	if err != nil {
		return nil, classify(fmt.Errorf("query inventory: %w", err))
	}
	defer rows.Close()

	items := []domain.InventoryItem{}
	for rows.Next() {
		var item domain.InventoryItem
		if err := rows.Scan(&item.ItemNo, &item.Name, &item.Category, &item.Price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *SQLStore) UpdateItemDetails(ctx context.Context, item domain.InventoryItem) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE inventory
		SET name = ?, category = ?, price = ?
		WHERE item_no = ?`,
		item.Name, item.Category, item.Price.StringFixed(2), item.ItemNo,
	)
	if err != nil {
		return classify(fmt.Errorf("update inventory item: %w", err))
	}
	return affectedOne(result, domain.NotFound("inventory item %d", item.ItemNo))
}

func (s *SQLStore) DeleteItem(ctx context.Context, itemNo int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		refs, err := count(ctx, tx, `
			SELECT (SELECT COUNT(*) FROM ordered_item WHERE item_no = ?)
			     + (SELECT COUNT(*) FROM supplied_items WHERE item_no = ?)`,
			itemNo, itemNo,
		)
		if err != nil {
			return fmt.Errorf("count item references: %w", err)
		}
		if refs > 0 {
			return domain.Conflict("inventory item %d is referenced by %d order or supply records", itemNo, refs)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM inventory WHERE item_no = ?`, itemNo)
		if err != nil {
			return fmt.Errorf("delete inventory item: %w", err)
		}
		return affectedOne(result, domain.NotFound("inventory item %d", itemNo))
	})
}

func requireCustomer(ctx context.Context, q querier, customerID int64) error {
	ok, err := exists(ctx, q, `SELECT 1 FROM customers WHERE customer_id = ?`, customerID)
	if err != nil {
		return fmt.Errorf("query customer: %w", err)
	}
	if !ok {
		return domain.NotFound("customer %d", customerID)
	}
	return nil
}

func (s *SQLStore) CreateOrder(ctx context.Context, o domain.Order) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireCustomer(ctx, tx, o.CustomerID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO orders (order_no, order_date, customer_id, address)
			VALUES (?, ?, ?, ?)`,
			o.OrderNo, o.OrderDate, o.CustomerID, o.Address,
		)
		if err != nil {
			if isDuplicate(err) {
				return domain.Conflict("order %d already exists", o.OrderNo)
			}
			return fmt.Errorf("insert order: %w", err)
		}
		return nil
	})
}

// GetOrder reads the order and its lines in one transaction so the derived
// amount matches a single point in time.
func (s *SQLStore) GetOrder(ctx context.Context, orderNo int64) (*domain.Order, error) {
	var o domain.Order
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			SELECT order_no, order_date, customer_id, address
			FROM orders WHERE order_no = ?`, orderNo,
		).Scan(&o.OrderNo, &o.OrderDate, &o.CustomerID, &o.Address)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound("order %d", orderNo)
		}
		if err != nil {
			return fmt.Errorf("query order: %w", err)
		}

		lines, err := pricedLines(ctx, tx, orderNo)
		if err != nil {
			return err
		}
		o.Amount = domain.OrderTotal(lines)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *SQLStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	orders := []domain.Order{}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT order_no, order_date, customer_id, address
			FROM orders ORDER BY order_no`)
		if err != nil {
			return fmt.Errorf("query orders: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var o domain.Order
			if err := rows.Scan(&o.OrderNo, &o.OrderDate, &o.CustomerID, &o.Address); err != nil {
				return fmt.Errorf("scan order: %w", err)
			}
			orders = append(orders, o)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		rows.Close()

		lineRows, err := tx.QueryContext(ctx, `
			SELECT oi.order_no, oi.item_no, oi.quantity, i.price
			FROM ordered_item oi
			JOIN inventory i ON i.item_no = oi.item_no`)
		if err != nil {
			return fmt.Errorf("query priced lines: %w", err)
		}
		defer lineRows.Close()

		byOrder := make(map[int64][]domain.PricedLine)
		for lineRows.Next() {
			var orderNo int64
			var l domain.PricedLine
			if err := lineRows.Scan(&orderNo, &l.ItemNo, &l.Quantity, &l.UnitPrice); err != nil {
				return fmt.Errorf("scan priced line: %w", err)
			}
			byOrder[orderNo] = append(byOrder[orderNo], l)
		}
		if err := lineRows.Err(); err != nil {
			return err
		}

		for i := range orders {
			orders[i].Amount = domain.OrderTotal(byOrder[orders[i].OrderNo])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *SQLStore) UpdateOrder(ctx context.Context, o domain.Order) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireCustomer(ctx, tx, o.CustomerID); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `
			UPDATE orders
			SET order_date = ?, customer_id = ?, address = ?
			WHERE order_no = ?`,
			o.OrderDate, o.CustomerID, o.Address, o.OrderNo,
		)
		if err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		return affectedOne(result, domain.NotFound("order %d", o.OrderNo))
	})
}

func (s *SQLStore) DeleteOrder(ctx context.Context, orderNo int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		refs, err := count(ctx, tx, `
			SELECT (SELECT COUNT(*) FROM ordered_item WHERE order_no = ?)
			     + (SELECT COUNT(*) FROM payment WHERE order_no = ?)`,
			orderNo, orderNo,
		)
		if err != nil {
			return fmt.Errorf("count order references: %w", err)
		}
		if refs > 0 {
			return domain.Conflict("order %d still has ordered items or payments", orderNo)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE order_no = ?`, orderNo)
		if err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		return affectedOne(result, domain.NotFound("order %d", orderNo))
	})
}

const orderLineSelect = `
	SELECT oi.order_no, oi.item_no, i.name, oi.quantity
	FROM ordered_item oi
	JOIN inventory i ON i.item_no = oi.item_no`

func scanOrderLines(rows *sql.Rows) ([]domain.OrderLine, error) {
	defer rows.Close()

	lines := []domain.OrderLine{}
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.OrderNo, &l.ItemNo, &l.ItemName, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan ordered item: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (s *SQLStore) ListOrderLines(ctx context.Context) ([]domain.OrderLine, error) {
	rows, err := s.db.QueryContext(ctx, orderLineSelect+` ORDER BY oi.order_no, oi.item_no`)
	if err != nil {
		return nil, classify(fmt.Errorf("query ordered items: %w", err))
	}
	return scanOrderLines(rows)
}

func (s *SQLStore) OrderLines(ctx context.Context, orderNo int64) ([]domain.OrderLine, error) {
	rows, err := s.db.QueryContext(ctx, orderLineSelect+` WHERE oi.order_no = ? ORDER BY oi.item_no`, orderNo)
	if err != nil {
		return nil, classify(fmt.Errorf("query ordered items: %w", err))
	}
	return scanOrderLines(rows)
}

const receiptSelect = `
	SELECT si.serial, si.item_no, i.name, si.supplier_id, si.quantity, si.purchase_date
	FROM supplied_items si
	JOIN inventory i ON i.item_no = si.item_no`

func scanReceipt(row interface{ Scan(...any) error }, r *domain.SupplyReceipt) error {
	return row.Scan(&r.Serial, &r.ItemNo, &r.ItemName, &r.SupplierID, &r.Quantity, &r.PurchaseDate)
}

func (s *SQLStore) GetReceipt(ctx context.Context, serial int64) (*domain.SupplyReceipt, error) {
	var r domain.SupplyReceipt
	err := scanReceipt(s.db.QueryRowContext(ctx, receiptSelect+` WHERE si.serial = ?`, serial), &r)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("supplied item record %d", serial)
	}
	if err != nil {
		return nil, classify(fmt.Errorf("query supplied item: %w", err))
	}
	return &r, nil
}

func (s *SQLStore) ListReceipts(ctx context.Context) ([]domain.SupplyReceipt, error) {
	rows, err := s.db.QueryContext(ctx, receiptSelect+` ORDER BY si.serial`)
	if err != nil {
		return nil, classify(fmt.Errorf("query supplied items: %w", err))
	}
	defer rows.Close()

	receipts := []domain.SupplyReceipt{}
	for rows.Next() {
		var r domain.SupplyReceipt
		if err := scanReceipt(rows, &r); err != nil {
			return nil, fmt.Errorf("scan supplied item: %w", err)
		}
		receipts = append(receipts, r)
	}
	return receipts, rows.Err()
}

func scanPayment(row interface{ Scan(...any) error }, p *domain.Payment) error {
	var method string
	if err := row.Scan(&p.PaymentNo, &p.OrderNo, &method, &p.Amount, &p.PaymentDate); err != nil {
		return err
	}
	p.Method = domain.PaymentMethod(method)
	return nil
}

func (s *SQLStore) GetPayment(ctx context.Context, paymentNo int64) (*domain.Payment, error) {
	var p domain.Payment
	err := scanPayment(s.db.QueryRowContext(ctx, `
		SELECT payment_no, order_no, method, amount, payment_date
		FROM payment WHERE payment_no = ?`, paymentNo), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("payment %d", paymentNo)
	}
	if err != nil {
		return nil, classify(fmt.Errorf("query payment: %w", err))
	}
	return &p, nil
}

func (s *SQLStore) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payment_no, order_no, method, amount, payment_date
		FROM payment ORDER BY payment_no`)
	if err != nil {
		return nil, classify(fmt.Errorf("query payments: %w", err))
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		var p domain.Payment
		if err := scanPayment(rows, &p); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (s *SQLStore) DeletePayment(ctx context.Context, paymentNo int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM payment WHERE payment_no = ?`, paymentNo)
	if err != nil {
		return classify(fmt.Errorf("delete payment: %w", err))
	}
	return affectedOne(result, domain.NotFound("payment %d", paymentNo))
}
