package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCreditCard     PaymentMethod = "credit card"
	PaymentCashOnDelivery PaymentMethod = "cash on delivery"
	PaymentBankTransfer   PaymentMethod = "bank transfer"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case PaymentCreditCard, PaymentCashOnDelivery, PaymentBankTransfer:
		return m, nil
	}
	return "", Invalid("payment method must be one of: credit card, cash on delivery, bank transfer")
}

// Payment carries an amount snapshot taken from the order valuation when the
// payment was recorded or last updated. It does not follow later order edits.
type Payment struct {
	PaymentNo   int64
	OrderNo     int64
	Method      PaymentMethod
	Amount      decimal.Decimal
	PaymentDate time.Time
}
