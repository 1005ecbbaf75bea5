package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/quickmart/internal/core/domain"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLStore implements the stock, valuation and catalog repositories on
// database/sql. Stock changes are conditional updates evaluated by the
// database inside the caller's transaction, never read-compare-write in Go.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLStore(db *DB) *SQLStore {
	return &SQLStore{db: db.SQL, dialect: db.Dialect}
}

func (s *SQLStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return classify(err)
	}
	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("commit: %w", err))
	}
	return nil
}

// forUpdate locks the selected rows on MySQL. SQLite runs on a single
// connection, so a transaction there already excludes every other writer.
func (s *SQLStore) forUpdate() string {
	if s.dialect == DialectMySQL {
		return " FOR UPDATE"
	}
	return ""
}

func exists(ctx context.Context, q querier, query string, args ...any) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func count(ctx context.Context, q querier, query string, args ...any) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func requireOrder(ctx context.Context, q querier, orderNo int64) error {
	ok, err := exists(ctx, q, `SELECT 1 FROM orders WHERE order_no = ?`, orderNo)
	if err != nil {
		return fmt.Errorf("query order: %w", err)
	}
	if !ok {
		return domain.NotFound("order %d", orderNo)
	}
	return nil
}

func affectedOne(res sql.Result, notFound error) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
