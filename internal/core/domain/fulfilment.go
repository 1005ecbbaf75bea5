package domain

import (
	"strings"
	"time"
)

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "Pending"
	DeliveryDelivered DeliveryStatus = "Delivered"
)

func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	switch {
	case strings.EqualFold(s, string(DeliveryPending)):
		return DeliveryPending, nil
	case strings.EqualFold(s, string(DeliveryDelivered)):
		return DeliveryDelivered, nil
	}
	return "", Invalid("delivery status must be Pending or Delivered")
}

// Delivery is kept as a main record plus one status record per order.
type Delivery struct {
	DeliveryID   int64
	OrderNo      int64
	EmployeeID   int64
	Status       DeliveryStatus
	ExpectedTime string // HH:MM
}

func (d Delivery) Validate() error {
	if d.DeliveryID <= 0 || d.OrderNo <= 0 || d.EmployeeID <= 0 {
		return Invalid("delivery id, order number and employee id must be positive")
	}
	if _, err := ParseDeliveryStatus(string(d.Status)); err != nil {
		return err
	}
	return ValidateClock(d.ExpectedTime)
}

func ValidateClock(s string) error {
	if _, err := time.Parse("15:04", s); err != nil {
		return Invalid("expected time must be HH:MM")
	}
	return nil
}

type Feedback struct {
	FeedbackID   int64
	OrderNo      int64
	CustomerID   int64
	CustomerName string
	Rating       int
	Message      string
}

func (f Feedback) Validate() error {
	if f.FeedbackID <= 0 || f.OrderNo <= 0 || f.CustomerID <= 0 {
		return Invalid("feedback id, order number and customer id must be positive")
	}
	return ValidateRating(f.Rating)
}

func ValidateRating(r int) error {
	if r < 1 || r > 5 {
		return Invalid("rating must be between 1 and 5")
	}
	return nil
}
