package handler

import (
	"net/http"
)

// Inventory

func (h *HTTPHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Catalog.ListItems(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := make([]ItemResponse, 0, len(items))
	for _, i := range items {
		resp = append(resp, toItemResponse(i))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	item := itemFromRequest(req)
	if err := h.svc.Catalog.CreateItem(r.Context(), item); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemResponse(item))
}

func (h *HTTPHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	itemNo, err := pathID(r, "item")
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.svc.Catalog.GetItem(r.Context(), itemNo)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(*item))
}

// UpdateItem ignores any quantity in the body; stock only moves through the ledger.
func (h *HTTPHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemNo, err := pathID(r, "item")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req ItemRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Catalog.UpdateItemDetails(r.Context(), itemNo, req.Name, req.Category, req.Price); err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.svc.Catalog.GetItem(r.Context(), itemNo)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(*item))
}

func (h *HTTPHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemNo, err := pathID(r, "item")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Catalog.DeleteItem(r.Context(), itemNo); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Supplied items

func (h *HTTPHandler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := h.svc.Catalog.ListReceipts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := make([]ReceiptResponse, 0, len(receipts))
	for _, rc := range receipts {
		resp = append(resp, toReceiptResponse(rc))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) ReceiveSupply(w http.ResponseWriter, r *http.Request) {
	var req SupplyRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	date, err := parseDate("purchase_date", req.PurchaseDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	receipt, err := h.svc.Ledger.ReceiveSupply(r.Context(), supplyFromRequest(req, date))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReceiptResponse(receipt))
}

func (h *HTTPHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	serial, err := pathID(r, "serial")
	if err != nil {
		writeError(w, r, err)
		return
	}
	receipt, err := h.svc.Catalog.GetReceipt(r.Context(), serial)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReceiptResponse(*receipt))
}

func (h *HTTPHandler) AmendSupply(w http.ResponseWriter, r *http.Request) {
	serial, err := pathID(r, "serial")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req QuantityRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Ledger.AmendSupply(r.Context(), serial, req.Quantity); err != nil {
		writeError(w, r, err)
		return
	}
	receipt, err := h.svc.Catalog.GetReceipt(r.Context(), serial)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReceiptResponse(*receipt))
}

func (h *HTTPHandler) VoidSupply(w http.ResponseWriter, r *http.Request) {
	serial, err := pathID(r, "serial")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Ledger.VoidSupply(r.Context(), serial); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Ordered items

func (h *HTTPHandler) ListOrderLines(w http.ResponseWriter, r *http.Request) {
	lines, err := h.svc.Catalog.ListOrderLines(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := make([]OrderLineResponse, 0, len(lines))
	for _, l := range lines {
		resp = append(resp, toOrderLineResponse(l))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) OrderLines(w http.ResponseWriter, r *http.Request) {
	orderNo, err := pathID(r, "order")
	if err != nil {
		writeError(w, r, err)
		return
	}
	lines, err := h.svc.Catalog.OrderLines(r.Context(), orderNo)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := make([]OrderLineResponse, 0, len(lines))
	for _, l := range lines {
		resp = append(resp, toOrderLineResponse(l))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) PlaceOrderLine(w http.ResponseWriter, r *http.Request) {
	var req OrderLineRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	line, err := h.svc.Ledger.PlaceOrderLine(r.Context(), req.OrderNo, req.ItemNo, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderLineResponse(line))
}

func (h *HTTPHandler) ChangeOrderLine(w http.ResponseWriter, r *http.Request) {
	orderNo, err := pathID(r, "order")
	if err != nil {
		writeError(w, r, err)
		return
	}
	itemNo, err := pathID(r, "item")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req QuantityRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	line, err := h.svc.Ledger.ChangeOrderLine(r.Context(), orderNo, itemNo, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderLineResponse(line))
}

func (h *HTTPHandler) RemoveOrderLine(w http.ResponseWriter, r *http.Request) {
	orderNo, err := pathID(r, "order")
	if err != nil {
		writeError(w, r, err)
		return
	}
	itemNo, err := pathID(r, "item")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Ledger.RemoveOrderLine(r.Context(), orderNo, itemNo); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Orders

func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.Catalog.ListOrders(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	order, err := orderFromRequest(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Catalog.CreateOrder(r.Context(), order); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderNo, err := pathID(r, "order")
	if err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.svc.Catalog.GetOrder(r.Context(), orderNo)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*order))
}

// OrderTotal 404s for an unknown order; an order without lines totals 0.00.
func (h *HTTPHandler) OrderTotal(w http.ResponseWriter, r *http.Request) {
	orderNo, err := pathID(r, "order")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.svc.Catalog.GetOrder(r.Context(), orderNo); err != nil {
		writeError(w, r, err)
		return
	}
	total, err := h.svc.Valuation.ComputeOrderTotal(r.Context(), orderNo)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TotalResponse{OrderNo: orderNo, Total: total.StringFixed(2)})
}

func (h *HTTPHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	orderNo, err := pathID(r, "order")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req OrderRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.OrderNo = orderNo
	order, err := orderFromRequest(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Catalog.UpdateOrder(r.Context(), order); err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := h.svc.Catalog.GetOrder(r.Context(), orderNo)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*updated))
}

func (h *HTTPHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderNo, err := pathID(r, "order")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Catalog.DeleteOrder(r.Context(), orderNo); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Payments

func (h *HTTPHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.svc.Catalog.ListPayments(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		resp = append(resp, toPaymentResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	date, err := parseDate("payment_date", req.PaymentDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.svc.Valuation.RecordPayment(r.Context(), req.PaymentNo, req.OrderNo, req.Method, date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentResponse(p))
}

func (h *HTTPHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	paymentNo, err := pathID(r, "payment")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.svc.Catalog.GetPayment(r.Context(), paymentNo)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(*p))
}

// UpdatePayment ignores order_no in the body; a payment stays with its order.
func (h *HTTPHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	paymentNo, err := pathID(r, "payment")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req PaymentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	date, err := parseDate("payment_date", req.PaymentDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.svc.Valuation.UpdatePayment(r.Context(), paymentNo, req.Method, date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(p))
}

func (h *HTTPHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	paymentNo, err := pathID(r, "payment")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Catalog.DeletePayment(r.Context(), paymentNo); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
