package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/quickmart/internal/core/domain"
)

// decrementStock is the atomic bounded decrement: the availability check and
// the write are one statement, so concurrent placements cannot both pass it.
func decrementStock(ctx context.Context, tx *sql.Tx, itemNo int64, quantity int) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE inventory
		SET quantity = quantity - ?
		WHERE item_no = ? AND quantity >= ?`,
		quantity, itemNo, quantity,
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 1 {
		return nil
	}

	var available int
	err = tx.QueryRowContext(ctx, `SELECT quantity FROM inventory WHERE item_no = ?`, itemNo).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("inventory item %d", itemNo)
	}
	if err != nil {
		return fmt.Errorf("query stock: %w", err)
	}
	return &domain.InsufficientStockError{ItemNo: itemNo, Requested: quantity, Available: available}
}

func incrementStock(ctx context.Context, tx *sql.Tx, itemNo int64, quantity int) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE inventory
		SET quantity = quantity + ?
		WHERE item_no = ?`,
		quantity, itemNo,
	)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	return affectedOne(result, domain.NotFound("inventory item %d", itemNo))
}

// applyDelta moves stock by the difference between a record's old and new
// quantity: growth in stock is unbounded, shrinkage is a bounded decrement.
func applyDelta(ctx context.Context, tx *sql.Tx, itemNo int64, delta int) error {
	switch {
	case delta > 0:
		return incrementStock(ctx, tx, itemNo, delta)
	case delta < 0:
		return decrementStock(ctx, tx, itemNo, -delta)
	}
	return nil
}

func (s *SQLStore) ReceiveSupply(ctx context.Context, receipt *domain.SupplyReceipt) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, `SELECT 1 FROM suppliers WHERE supplier_id = ?`, receipt.SupplierID)
		if err != nil {
			return fmt.Errorf("query supplier: %w", err)
		}
		if !ok {
			return domain.NotFound("supplier %d", receipt.SupplierID)
		}

		if err := incrementStock(ctx, tx, receipt.ItemNo, receipt.Quantity); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			INSERT INTO supplied_items (item_no, supplier_id, quantity, purchase_date)
			VALUES (?, ?, ?, ?)`,
			receipt.ItemNo, receipt.SupplierID, receipt.Quantity, receipt.PurchaseDate,
		)
		if err != nil {
			return fmt.Errorf("insert supplied item: %w", err)
		}

		serial, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		receipt.Serial = serial
		return nil
	})
}

func (s *SQLStore) AmendSupply(ctx context.Context, serial int64, quantity int) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var itemNo int64
		var old int
		err := tx.QueryRowContext(ctx,
			`SELECT item_no, quantity FROM supplied_items WHERE serial = ?`+s.forUpdate(), serial,
		).Scan(&itemNo, &old)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound("supplied item record %d", serial)
		}
		if err != nil {
			return fmt.Errorf("query supplied item: %w", err)
		}

		if err := applyDelta(ctx, tx, itemNo, quantity-old); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE supplied_items SET quantity = ? WHERE serial = ?`, quantity, serial,
		); err != nil {
			return fmt.Errorf("update supplied item: %w", err)
		}
		return nil
	})
}

func (s *SQLStore) VoidSupply(ctx context.Context, serial int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var itemNo int64
		var quantity int
		err := tx.QueryRowContext(ctx,
			`SELECT item_no, quantity FROM supplied_items WHERE serial = ?`+s.forUpdate(), serial,
		).Scan(&itemNo, &quantity)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound("supplied item record %d", serial)
		}
		if err != nil {
			return fmt.Errorf("query supplied item: %w", err)
		}

		if err := decrementStock(ctx, tx, itemNo, quantity); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM supplied_items WHERE serial = ?`, serial); err != nil {
			return fmt.Errorf("delete supplied item: %w", err)
		}
		return nil
	})
}

func (s *SQLStore) PlaceOrderLine(ctx context.Context, line domain.OrderLine) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireOrder(ctx, tx, line.OrderNo); err != nil {
			return err
		}

		// insert first: a repeated (order, item) pair is a conflict whatever the stock level
		_, err := tx.ExecContext(ctx, `
			INSERT INTO ordered_item (order_no, item_no, quantity)
			VALUES (?, ?, ?)`,
			line.OrderNo, line.ItemNo, line.Quantity,
		)
		if err != nil {
			if isDuplicate(err) {
				return domain.Conflict("item %d is already on order %d", line.ItemNo, line.OrderNo)
			}
			return fmt.Errorf("insert ordered item: %w", err)
		}

		return decrementStock(ctx, tx, line.ItemNo, line.Quantity)
	})
}

func (s *SQLStore) ChangeOrderLine(ctx context.Context, line domain.OrderLine) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var old int
		err := tx.QueryRowContext(ctx,
			`SELECT quantity FROM ordered_item WHERE order_no = ? AND item_no = ?`+s.forUpdate(),
			line.OrderNo, line.ItemNo,
		).Scan(&old)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound("ordered item %d on order %d", line.ItemNo, line.OrderNo)
		}
		if err != nil {
			return fmt.Errorf("query ordered item: %w", err)
		}

		// stock moves opposite to the line
		if err := applyDelta(ctx, tx, line.ItemNo, old-line.Quantity); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE ordered_item SET quantity = ? WHERE order_no = ? AND item_no = ?`,
			line.Quantity, line.OrderNo, line.ItemNo,
		); err != nil {
			return fmt.Errorf("update ordered item: %w", err)
		}
		return nil
	})
}

func (s *SQLStore) RemoveOrderLine(ctx context.Context, orderNo, itemNo int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var quantity int
		err := tx.QueryRowContext(ctx,
			`SELECT quantity FROM ordered_item WHERE order_no = ? AND item_no = ?`+s.forUpdate(),
			orderNo, itemNo,
		).Scan(&quantity)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound("ordered item %d on order %d", itemNo, orderNo)
		}
		if err != nil {
			return fmt.Errorf("query ordered item: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM ordered_item WHERE order_no = ? AND item_no = ?`, orderNo, itemNo,
		); err != nil {
			return fmt.Errorf("delete ordered item: %w", err)
		}
		return incrementStock(ctx, tx, itemNo, quantity)
	})
}
