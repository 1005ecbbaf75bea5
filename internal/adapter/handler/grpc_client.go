package handler

import (
	"context"

	"google.golang.org/grpc"
)

// LedgerClient calls quickmart.v1.Ledger over a connection using the JSON codec.
type LedgerClient struct {
	cc grpc.ClientConnInterface
}

func NewLedgerClient(cc grpc.ClientConnInterface) *LedgerClient {
	return &LedgerClient{cc: cc}
}

func (c *LedgerClient) invoke(ctx context.Context, method string, in, out any, opts ...grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(jsonCodec{}.Name())}, opts...)
	return c.cc.Invoke(ctx, "/"+ledgerServiceName+"/"+method, in, out, opts...)
}

func (c *LedgerClient) ReceiveSupply(ctx context.Context, in *SupplyRequest, opts ...grpc.CallOption) (*ReceiptResponse, error) {
	out := new(ReceiptResponse)
	if err := c.invoke(ctx, "ReceiveSupply", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *LedgerClient) PlaceOrderLine(ctx context.Context, in *OrderLineRequest, opts ...grpc.CallOption) (*OrderLineResponse, error) {
	out := new(OrderLineResponse)
	if err := c.invoke(ctx, "PlaceOrderLine", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *LedgerClient) ComputeOrderTotal(ctx context.Context, in *ComputeOrderTotalRequest, opts ...grpc.CallOption) (*TotalResponse, error) {
	out := new(TotalResponse)
	if err := c.invoke(ctx, "ComputeOrderTotal", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *LedgerClient) RecordPayment(ctx context.Context, in *PaymentRequest, opts ...grpc.CallOption) (*PaymentResponse, error) {
	out := new(PaymentResponse)
	if err := c.invoke(ctx, "RecordPayment", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *LedgerClient) UpdatePayment(ctx context.Context, in *PaymentRequest, opts ...grpc.CallOption) (*PaymentResponse, error) {
	out := new(PaymentResponse)
	if err := c.invoke(ctx, "UpdatePayment", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
