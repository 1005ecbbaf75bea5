package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/quickmart/internal/core/domain"
)

const dateLayout = "2006-01-02"

// Money leaves the API as a string with exactly two fractional digits.
// Incoming amounts may be JSON numbers or strings.

type ItemRequest struct {
	ItemNo   int64           `json:"item_no"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type ItemResponse struct {
	ItemNo   int64  `json:"item_no"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

func toItemResponse(i domain.InventoryItem) ItemResponse {
	return ItemResponse{
		ItemNo:   i.ItemNo,
		Name:     i.Name,
		Category: i.Category,
		Price:    i.Price.StringFixed(2),
		Quantity: i.Quantity,
	}
}

type SupplyRequest struct {
	ItemNo       int64  `json:"item_no"`
	SupplierID   int64  `json:"supplier_id"`
	Quantity     int    `json:"quantity"`
	PurchaseDate string `json:"purchase_date"`
}

type ReceiptResponse struct {
	Serial       int64  `json:"serial"`
	ItemNo       int64  `json:"item_no"`
	ItemName     string `json:"item_name,omitempty"`
	SupplierID   int64  `json:"supplier_id"`
	Quantity     int    `json:"quantity"`
	PurchaseDate string `json:"purchase_date"`
}

func toReceiptResponse(r domain.SupplyReceipt) ReceiptResponse {
	return ReceiptResponse{
		Serial:       r.Serial,
		ItemNo:       r.ItemNo,
		ItemName:     r.ItemName,
		SupplierID:   r.SupplierID,
		Quantity:     r.Quantity,
		PurchaseDate: r.PurchaseDate.Format(dateLayout),
	}
}

type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

type OrderLineRequest struct {
	OrderNo  int64 `json:"order_no"`
	ItemNo   int64 `json:"item_no"`
	Quantity int   `json:"quantity"`
}

type OrderLineResponse struct {
	OrderNo  int64  `json:"order_no"`
	ItemNo   int64  `json:"item_no"`
	ItemName string `json:"item_name,omitempty"`
	Quantity int    `json:"quantity"`
}

func toOrderLineResponse(l domain.OrderLine) OrderLineResponse {
	return OrderLineResponse{OrderNo: l.OrderNo, ItemNo: l.ItemNo, ItemName: l.ItemName, Quantity: l.Quantity}
}

type OrderRequest struct {
	OrderNo    int64  `json:"order_no"`
	OrderDate  string `json:"order_date"`
	CustomerID int64  `json:"customer_id"`
	Address    string `json:"address"`
}

type OrderResponse struct {
	OrderNo    int64  `json:"order_no"`
	OrderDate  string `json:"order_date"`
	CustomerID int64  `json:"customer_id"`
	Address    string `json:"address"`
	Amount     string `json:"amount"`
}

func toOrderResponse(o domain.Order) OrderResponse {
	return OrderResponse{
		OrderNo:    o.OrderNo,
		OrderDate:  o.OrderDate.Format(dateLayout),
		CustomerID: o.CustomerID,
		Address:    o.Address,
		Amount:     o.Amount.StringFixed(2),
	}
}

type TotalResponse struct {
	OrderNo int64  `json:"order_no"`
	Total   string `json:"total"`
}

type PaymentRequest struct {
	PaymentNo   int64  `json:"payment_no"`
	OrderNo     int64  `json:"order_no"`
	Method      string `json:"method"`
	PaymentDate string `json:"payment_date"`
}

type PaymentResponse struct {
	PaymentNo   int64  `json:"payment_no"`
	OrderNo     int64  `json:"order_no"`
	Method      string `json:"method"`
	Amount      string `json:"amount"`
	PaymentDate string `json:"payment_date"`
}

func toPaymentResponse(p domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentNo:   p.PaymentNo,
		OrderNo:     p.OrderNo,
		Method:      string(p.Method),
		Amount:      p.Amount.StringFixed(2),
		PaymentDate: p.PaymentDate.Format(dateLayout),
	}
}

type CustomerDTO struct {
	CustomerID int64  `json:"customer_id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
}

type SupplierDTO struct {
	SupplierID int64  `json:"supplier_id"`
	Name       string `json:"name"`
	ContactNo  string `json:"contact_no"`
	Address    string `json:"address"`
}

type EmployeeRequest struct {
	EmployeeID int64           `json:"employee_id"`
	Name       string          `json:"name"`
	Salary     decimal.Decimal `json:"salary"`
	Contact    string          `json:"contact"`
}

type EmployeeResponse struct {
	EmployeeID int64  `json:"employee_id"`
	Name       string `json:"name"`
	Salary     string `json:"salary"`
	Contact    string `json:"contact"`
}

type EmployeeRoleDTO struct {
	EmployeeID int64  `json:"employee_id"`
	Role       string `json:"role"`
}

// EmployeeRoleUpdate names the row by its current key and gives the new key.
type EmployeeRoleUpdate struct {
	Original EmployeeRoleDTO `json:"original"`
	Updated  EmployeeRoleDTO `json:"updated"`
}

type DeliveryDTO struct {
	DeliveryID   int64  `json:"delivery_id"`
	OrderNo      int64  `json:"order_no"`
	EmployeeID   int64  `json:"employee_id"`
	Status       string `json:"status"`
	ExpectedTime string `json:"expected_time"`
}

type FeedbackDTO struct {
	FeedbackID   int64  `json:"feedback_id"`
	OrderNo      int64  `json:"order_no"`
	CustomerID   int64  `json:"customer_id"`
	CustomerName string `json:"customer_name,omitempty"`
	Rating       int    `json:"rating"`
	Message      string `json:"message"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Available *int   `json:"available,omitempty"`
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, domain.Invalid("%s must be YYYY-MM-DD", field)
	}
	return t, nil
}

func itemFromRequest(req ItemRequest) domain.InventoryItem {
	return domain.InventoryItem{
		ItemNo:   req.ItemNo,
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Quantity: req.Quantity,
	}
}

func supplyFromRequest(req SupplyRequest, date time.Time) domain.SupplyReceipt {
	return domain.SupplyReceipt{
		ItemNo:       req.ItemNo,
		SupplierID:   req.SupplierID,
		Quantity:     req.Quantity,
		PurchaseDate: date,
	}
}

func orderFromRequest(req OrderRequest) (domain.Order, error) {
	date, err := parseDate("order_date", req.OrderDate)
	if err != nil {
		return domain.Order{}, err
	}
	return domain.Order{
		OrderNo:    req.OrderNo,
		OrderDate:  date,
		CustomerID: req.CustomerID,
		Address:    req.Address,
	}, nil
}

func toEmployeeResponse(e domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		EmployeeID: e.EmployeeID,
		Name:       e.Name,
		Salary:     e.Salary.StringFixed(2),
		Contact:    e.Contact,
	}
}

func toDeliveryDTO(d domain.Delivery) DeliveryDTO {
	return DeliveryDTO{
		DeliveryID:   d.DeliveryID,
		OrderNo:      d.OrderNo,
		EmployeeID:   d.EmployeeID,
		Status:       string(d.Status),
		ExpectedTime: d.ExpectedTime,
	}
}

func toFeedbackDTO(f domain.Feedback) FeedbackDTO {
	return FeedbackDTO{
		FeedbackID:   f.FeedbackID,
		OrderNo:      f.OrderNo,
		CustomerID:   f.CustomerID,
		CustomerName: f.CustomerName,
		Rating:       f.Rating,
		Message:      f.Message,
	}
}
