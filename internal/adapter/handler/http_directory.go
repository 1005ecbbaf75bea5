package handler

import (
	"net/http"

	"github.com/rl1809/quickmart/internal/core/domain"
)

// Customers

func (h *HTTPHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.Directory.ListCustomers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := make([]CustomerDTO, 0, len(customers))
	for _, c := range customers {
		resp = append(resp, CustomerDTO(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CustomerDTO
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Directory.CreateCustomer(r.Context(), domain.Customer(req)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *HTTPHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.svc.Directory.GetCustomer(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CustomerDTO(*c))
}

func (h *HTTPHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req CustomerDTO
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.CustomerID = id
	if err := h.svc.Directory.UpdateCustomer(r.Context(), domain.Customer(req)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *HTTPHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Directory.DeleteCustomer(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Suppliers

func (h *HTTPHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.svc.Directory.ListSuppliers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := make([]SupplierDTO, 0, len(suppliers))
	for _, s := range suppliers {
		resp = append(resp, SupplierDTO(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req SupplierDTO
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Directory.CreateSupplier(r.Context(), domain.Supplier(req)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *HTTPHandler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	s, err := h.svc.Directory.GetSupplier(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SupplierDTO(*s))
}

func (h *HTTPHandler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req SupplierDTO
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.SupplierID = id
	if err := h.svc.Directory.UpdateSupplier(r.Context(), domain.Supplier(req)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *HTTPHandler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Directory.DeleteSupplier(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Employees

func (h *HTTPHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.svc.Directory.ListEmployees(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := make([]EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		resp = append(resp, toEmployeeResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	e := domain.Employee(req)
	if err := h.svc.Directory.CreateEmployee(r.Context(), e); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeResponse(e))
}

func (h *HTTPHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := h.svc.Directory.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeResponse(*e))
}

func (h *HTTPHandler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req EmployeeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.EmployeeID = id
	e := domain.Employee(req)
	if err := h.svc.Directory.UpdateEmployee(r.Context(), e); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeResponse(e))
}

func (h *HTTPHandler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Directory.DeleteEmployee(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Employee roles

func toRoleDTOs(roles []domain.EmployeeRole) []EmployeeRoleDTO {
	resp := make([]EmployeeRoleDTO, 0, len(roles))
	for _, r := range roles {
		resp = append(resp, EmployeeRoleDTO(r))
	}
	return resp
}

func (h *HTTPHandler) ListEmployeeRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.svc.Directory.ListEmployeeRoles(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoleDTOs(roles))
}

func (h *HTTPHandler) RolesOf(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	roles, err := h.svc.Directory.RolesOf(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoleDTOs(roles))
}

func (h *HTTPHandler) AddEmployeeRole(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRoleDTO
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	role := domain.EmployeeRole(req)
	if err := h.svc.Directory.AddEmployeeRole(r.Context(), role); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *HTTPHandler) UpdateEmployeeRole(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRoleUpdate
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	from, to := domain.EmployeeRole(req.Original), domain.EmployeeRole(req.Updated)
	if err := h.svc.Directory.UpdateEmployeeRole(r.Context(), from, to); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req.Updated)
}

func (h *HTTPHandler) RemoveEmployeeRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	role := domain.EmployeeRole{EmployeeID: id, Role: r.PathValue("role")}
	if err := h.svc.Directory.RemoveEmployeeRole(r.Context(), role); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Deliveries

func (h *HTTPHandler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	deliveries, err := h.svc.Directory.ListDeliveries(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := make([]DeliveryDTO, 0, len(deliveries))
	for _, d := range deliveries {
		resp = append(resp, toDeliveryDTO(d))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) CreateDelivery(w http.ResponseWriter, r *http.Request) {
	var req DeliveryDTO
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	d := domain.Delivery{
		DeliveryID:   req.DeliveryID,
		OrderNo:      req.OrderNo,
		EmployeeID:   req.EmployeeID,
		Status:       domain.DeliveryStatus(req.Status),
		ExpectedTime: req.ExpectedTime,
	}
	if err := h.svc.Directory.CreateDelivery(r.Context(), d); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := h.svc.Directory.GetDelivery(r.Context(), d.DeliveryID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDeliveryDTO(*created))
}

func (h *HTTPHandler) GetDelivery(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	d, err := h.svc.Directory.GetDelivery(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDeliveryDTO(*d))
}

// UpdateDelivery changes status and expected time only.
func (h *HTTPHandler) UpdateDelivery(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req DeliveryDTO
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Directory.UpdateDeliveryStatus(r.Context(), id, req.Status, req.ExpectedTime); err != nil {
		writeError(w, r, err)
		return
	}
	d, err := h.svc.Directory.GetDelivery(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDeliveryDTO(*d))
}

func (h *HTTPHandler) DeleteDelivery(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Directory.DeleteDelivery(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Feedback

func (h *HTTPHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	feedback, err := h.svc.Directory.ListFeedback(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := make([]FeedbackDTO, 0, len(feedback))
	for _, f := range feedback {
		resp = append(resp, toFeedbackDTO(f))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackDTO
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	f := domain.Feedback{
		FeedbackID: req.FeedbackID,
		OrderNo:    req.OrderNo,
		CustomerID: req.CustomerID,
		Rating:     req.Rating,
		Message:    req.Message,
	}
	if err := h.svc.Directory.CreateFeedback(r.Context(), f); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := h.svc.Directory.GetFeedback(r.Context(), f.FeedbackID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFeedbackDTO(*created))
}

func (h *HTTPHandler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	f, err := h.svc.Directory.GetFeedback(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFeedbackDTO(*f))
}

// UpdateFeedback changes rating and message only.
func (h *HTTPHandler) UpdateFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req FeedbackDTO
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Directory.UpdateFeedback(r.Context(), id, req.Rating, req.Message); err != nil {
		writeError(w, r, err)
		return
	}
	f, err := h.svc.Directory.GetFeedback(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFeedbackDTO(*f))
}

func (h *HTTPHandler) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Directory.DeleteFeedback(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
