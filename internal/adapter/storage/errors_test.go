package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

func TestIsDuplicate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm duplicated key", fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), true},
		{"mysql duplicate entry", &mysql.MySQLError{Number: mysqlErrDupEntry}, true},
		{"mysql deadlock", &mysql.MySQLError{Number: mysqlErrDeadlock}, false},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: suppliers.supplier_id (1555)"), true},
		{"other", errors.New("no such table: suppliers"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDuplicate(tt.err); got != tt.want {
				t.Errorf("isDuplicate(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
