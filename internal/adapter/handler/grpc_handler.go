package handler

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/status"

	"github.com/rl1809/quickmart/internal/core/domain"
)

// The ledger service carries plain Go structs as JSON instead of generated
// protobuf messages. Clients select the codec with the "json" content subtype.

const ledgerServiceName = "quickmart.v1.Ledger"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return "json" }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type ComputeOrderTotalRequest struct {
	OrderNo int64 `json:"order_no"`
}

// LedgerServer is the server API for quickmart.v1.Ledger.
type LedgerServer interface {
	ReceiveSupply(context.Context, *SupplyRequest) (*ReceiptResponse, error)
	PlaceOrderLine(context.Context, *OrderLineRequest) (*OrderLineResponse, error)
	ComputeOrderTotal(context.Context, *ComputeOrderTotalRequest) (*TotalResponse, error)
	RecordPayment(context.Context, *PaymentRequest) (*PaymentResponse, error)
	UpdatePayment(context.Context, *PaymentRequest) (*PaymentResponse, error)
}

type GRPCHandler struct {
	svc Services
}

func NewGRPCHandler(svc Services) *GRPCHandler {
	return &GRPCHandler{svc: svc}
}

func (h *GRPCHandler) ReceiveSupply(ctx context.Context, req *SupplyRequest) (*ReceiptResponse, error) {
	date, err := parseDate("purchase_date", req.PurchaseDate)
	if err != nil {
		return nil, grpcError(err)
	}
	receipt, err := h.svc.Ledger.ReceiveSupply(ctx, supplyFromRequest(*req, date))
	if err != nil {
		return nil, grpcError(err)
	}
	resp := toReceiptResponse(receipt)
	return &resp, nil
}

func (h *GRPCHandler) PlaceOrderLine(ctx context.Context, req *OrderLineRequest) (*OrderLineResponse, error) {
	line, err := h.svc.Ledger.PlaceOrderLine(ctx, req.OrderNo, req.ItemNo, req.Quantity)
	if err != nil {
		return nil, grpcError(err)
	}
	resp := toOrderLineResponse(line)
	return &resp, nil
}

func (h *GRPCHandler) ComputeOrderTotal(ctx context.Context, req *ComputeOrderTotalRequest) (*TotalResponse, error) {
	total, err := h.svc.Valuation.ComputeOrderTotal(ctx, req.OrderNo)
	if err != nil {
		return nil, grpcError(err)
	}
	return &TotalResponse{OrderNo: req.OrderNo, Total: total.StringFixed(2)}, nil
}

func (h *GRPCHandler) RecordPayment(ctx context.Context, req *PaymentRequest) (*PaymentResponse, error) {
	date, err := parseDate("payment_date", req.PaymentDate)
	if err != nil {
		return nil, grpcError(err)
	}
	p, err := h.svc.Valuation.RecordPayment(ctx, req.PaymentNo, req.OrderNo, req.Method, date)
	if err != nil {
		return nil, grpcError(err)
	}
	resp := toPaymentResponse(p)
	return &resp, nil
}

func (h *GRPCHandler) UpdatePayment(ctx context.Context, req *PaymentRequest) (*PaymentResponse, error) {
	date, err := parseDate("payment_date", req.PaymentDate)
	if err != nil {
		return nil, grpcError(err)
	}
	p, err := h.svc.Valuation.UpdatePayment(ctx, req.PaymentNo, req.Method, date)
	if err != nil {
		return nil, grpcError(err)
	}
	resp := toPaymentResponse(p)
	return &resp, nil
}

// grpcError maps the domain taxonomy onto status codes. Business rejections
// that depend on current state are FailedPrecondition.
func grpcError(err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, domain.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, domain.ErrInvalidInput):
		code = codes.InvalidArgument
	case errors.Is(err, domain.ErrConflict):
		code = codes.AlreadyExists
	case errors.Is(err, domain.ErrInsufficientStock), errors.Is(err, domain.ErrInvalidOrder):
		code = codes.FailedPrecondition
	case errors.Is(err, domain.ErrTransientStore):
		code = codes.Unavailable
	default:
		log.Error().Err(err).Msg("unclassified ledger error")
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}

func unaryHandler[Req any](call func(LedgerServer, context.Context, *Req) (any, error), method string) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LedgerServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ledgerServiceName + "/" + method}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(LedgerServer), ctx, req.(*Req))
		})
	}
}

var ledgerServiceDesc = grpc.ServiceDesc{
	ServiceName: ledgerServiceName,
	HandlerType: (*LedgerServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ReceiveSupply",
			Handler: unaryHandler(func(s LedgerServer, ctx context.Context, in *SupplyRequest) (any, error) {
				return s.ReceiveSupply(ctx, in)
			}, "ReceiveSupply"),
		},
		{
			MethodName: "PlaceOrderLine",
			Handler: unaryHandler(func(s LedgerServer, ctx context.Context, in *OrderLineRequest) (any, error) {
				return s.PlaceOrderLine(ctx, in)
			}, "PlaceOrderLine"),
		},
		{
			MethodName: "ComputeOrderTotal",
			Handler: unaryHandler(func(s LedgerServer, ctx context.Context, in *ComputeOrderTotalRequest) (any, error) {
				return s.ComputeOrderTotal(ctx, in)
			}, "ComputeOrderTotal"),
		},
		{
			MethodName: "RecordPayment",
			Handler: unaryHandler(func(s LedgerServer, ctx context.Context, in *PaymentRequest) (any, error) {
				return s.RecordPayment(ctx, in)
			}, "RecordPayment"),
		},
		{
			MethodName: "UpdatePayment",
			Handler: unaryHandler(func(s LedgerServer, ctx context.Context, in *PaymentRequest) (any, error) {
				return s.UpdatePayment(ctx, in)
			}, "UpdatePayment"),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "quickmart/v1/ledger",
}

func RegisterLedgerServer(s grpc.ServiceRegistrar, srv LedgerServer) {
	s.RegisterService(&ledgerServiceDesc, srv)
}

// UnaryLogger logs each call with its outcome code.
func UnaryLogger(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	event := log.Info()
	if status.Code(err) == codes.Internal || status.Code(err) == codes.Unavailable {
		event = log.Error().Err(err)
	}
	event.
		Str("method", info.FullMethod).
		Str("code", status.Code(err).String()).
		Dur("duration", time.Since(start)).
		Msg("grpc request")
	return resp, err
}
