package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/rl1809/quickmart/internal/core/domain"
	"github.com/rl1809/quickmart/internal/core/service"
)

// Services groups the use cases the transports dispatch to.
type Services struct {
	Ledger    *service.StockLedger
	Valuation *service.OrderValuation
	Catalog   *service.Catalog
	Directory *service.Directory
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HTTPHandler struct {
	svc Services
	db  Pinger
}

func NewHTTPHandler(svc Services, db Pinger) *HTTPHandler {
	return &HTTPHandler{svc: svc, db: db}
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// httpStatus maps the domain error taxonomy onto response codes. Business
// rejections are 400s; only unclassified failures are server errors.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrInvalidOrder):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTransientStore):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatus(err)
	resp := ErrorResponse{Error: err.Error()}

	var ise *domain.InsufficientStockError
	if errors.As(err, &ise) {
		resp.Available = &ise.Available
	}

	logger := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", status).Msg("request failed")
		if status == http.StatusInternalServerError {
			resp.Error = "internal error"
		}
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.Invalid("invalid request body: %v", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("%s must be a positive integer", name)
	}
	return id, nil
}

// Routes registers every endpoint on mux. Handlers wrapped by guard accept an
// Idempotency-Key header.
func (h *HTTPHandler) Routes(mux *http.ServeMux, guard func(http.HandlerFunc) http.HandlerFunc) {
	if guard == nil {
		guard = func(next http.HandlerFunc) http.HandlerFunc { return next }
	}

	mux.HandleFunc("GET /health", h.HealthCheck)

	mux.HandleFunc("GET /api/inventory", h.ListItems)
	mux.HandleFunc("POST /api/inventory", h.CreateItem)
	mux.HandleFunc("GET /api/inventory/{item}", h.GetItem)
	mux.HandleFunc("PUT /api/inventory/{item}", h.UpdateItem)
	mux.HandleFunc("DELETE /api/inventory/{item}", h.DeleteItem)

	mux.HandleFunc("GET /api/supplied-items", h.ListReceipts)
	mux.HandleFunc("POST /api/supplied-items", guard(h.ReceiveSupply))
	mux.HandleFunc("GET /api/supplied-items/{serial}", h.GetReceipt)
	mux.HandleFunc("PUT /api/supplied-items/{serial}", h.AmendSupply)
	mux.HandleFunc("DELETE /api/supplied-items/{serial}", h.VoidSupply)

	mux.HandleFunc("GET /api/ordered-items", h.ListOrderLines)
	mux.HandleFunc("POST /api/ordered-items", guard(h.PlaceOrderLine))
	mux.HandleFunc("GET /api/ordered-items/{order}", h.OrderLines)
	mux.HandleFunc("PUT /api/ordered-items/{order}/{item}", h.ChangeOrderLine)
	mux.HandleFunc("DELETE /api/ordered-items/{order}/{item}", h.RemoveOrderLine)

	mux.HandleFunc("GET /api/orders", h.ListOrders)
	mux.HandleFunc("POST /api/orders", h.CreateOrder)
	mux.HandleFunc("GET /api/orders/{order}", h.GetOrder)
	mux.HandleFunc("GET /api/orders/{order}/total", h.OrderTotal)
	mux.HandleFunc("PUT /api/orders/{order}", h.UpdateOrder)
	mux.HandleFunc("DELETE /api/orders/{order}", h.DeleteOrder)

	mux.HandleFunc("GET /api/payments", h.ListPayments)
	mux.HandleFunc("POST /api/payments", guard(h.RecordPayment))
	mux.HandleFunc("GET /api/payments/{payment}", h.GetPayment)
	mux.HandleFunc("PUT /api/payments/{payment}", h.UpdatePayment)
	mux.HandleFunc("DELETE /api/payments/{payment}", h.DeletePayment)

	mux.HandleFunc("GET /api/customers", h.ListCustomers)
	mux.HandleFunc("POST /api/customers", h.CreateCustomer)
	mux.HandleFunc("GET /api/customers/{id}", h.GetCustomer)
	mux.HandleFunc("PUT /api/customers/{id}", h.UpdateCustomer)
	mux.HandleFunc("DELETE /api/customers/{id}", h.DeleteCustomer)

	mux.HandleFunc("GET /api/suppliers", h.ListSuppliers)
	mux.HandleFunc("POST /api/suppliers", h.CreateSupplier)
	mux.HandleFunc("GET /api/suppliers/{id}", h.GetSupplier)
	mux.HandleFunc("PUT /api/suppliers/{id}", h.UpdateSupplier)
	mux.HandleFunc("DELETE /api/suppliers/{id}", h.DeleteSupplier)

	mux.HandleFunc("GET /api/employees", h.ListEmployees)
	mux.HandleFunc("POST /api/employees", h.CreateEmployee)
	mux.HandleFunc("GET /api/employees/{id}", h.GetEmployee)
	mux.HandleFunc("PUT /api/employees/{id}", h.UpdateEmployee)
	mux.HandleFunc("DELETE /api/employees/{id}", h.DeleteEmployee)

	mux.HandleFunc("GET /api/employee-roles", h.ListEmployeeRoles)
	mux.HandleFunc("POST /api/employee-roles", h.AddEmployeeRole)
	mux.HandleFunc("PUT /api/employee-roles", h.UpdateEmployeeRole)
	mux.HandleFunc("GET /api/employee-roles/{id}", h.RolesOf)
	mux.HandleFunc("DELETE /api/employee-roles/{id}/{role}", h.RemoveEmployeeRole)

	mux.HandleFunc("GET /api/deliveries", h.ListDeliveries)
	mux.HandleFunc("POST /api/deliveries", h.CreateDelivery)
	mux.HandleFunc("GET /api/deliveries/{id}", h.GetDelivery)
	mux.HandleFunc("PUT /api/deliveries/{id}", h.UpdateDelivery)
	mux.HandleFunc("DELETE /api/deliveries/{id}", h.DeleteDelivery)

	mux.HandleFunc("GET /api/feedback", h.ListFeedback)
	mux.HandleFunc("POST /api/feedback", h.CreateFeedback)
	mux.HandleFunc("GET /api/feedback/{id}", h.GetFeedback)
	mux.HandleFunc("PUT /api/feedback/{id}", h.UpdateFeedback)
	mux.HandleFunc("DELETE /api/feedback/{id}", h.DeleteFeedback)
}
