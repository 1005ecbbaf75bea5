package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Dialect string

const (
	DialectMySQL  Dialect = "mysql"
	DialectSQLite Dialect = "sqlite"
)

type Options struct {
	Driver       Dialect
	DSN          string
	MaxOpenConns int
	LogQueries   bool
}

// DB bundles the ORM handle used for directory records with the raw pool the
// ledger runs its conditional updates on. Both share one connection pool.
type DB struct {
	Gorm    *gorm.DB
	SQL     *sql.DB
	Dialect Dialect
}

func Open(ctx context.Context, opts Options) (*DB, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case DialectMySQL:
		dsn, err := mysqlDSN(opts.DSN)
		if err != nil {
			return nil, err
		}
		dialector = gormmysql.Open(dsn)
	case DialectSQLite:
		dialector = sqlite.Open(sqliteDSN(opts.DSN))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	logLevel := logger.Silent
	if opts.LogQueries {
		logLevel = logger.Info
	}
	zl := log.With().Str("component", "gorm").Logger()
	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(&zl, logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Driver, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	switch opts.Driver {
	case DialectMySQL:
		maxOpen := opts.MaxOpenConns
		if maxOpen <= 0 {
			maxOpen = 50
		}
		sqlDB.SetMaxOpenConns(maxOpen)
		sqlDB.SetMaxIdleConns(maxOpen / 2)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	case DialectSQLite:
		// one connection: transactions queue in-process instead of failing with SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", opts.Driver, err)
	}

	return &DB{Gorm: gdb, SQL: sqlDB, Dialect: opts.Driver}, nil
}

func (d *DB) Close() error {
	return d.SQL.Close()
}

// sqliteDSN adds the pragmas every new connection needs. They travel with the
// DSN so a recycled connection gets them too.
func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// mysqlDSN forces the connection flags the store relies on: DATE columns scan
// into time.Time, and RowsAffected counts matched rows rather than changed ones.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}
