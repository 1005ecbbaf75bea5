package handler

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func newTestLedgerClient(t *testing.T) (*LedgerClient, *grpc.ClientConn) {
	t.Helper()
	svc, _ := newTestServices(t)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(UnaryLogger))
	RegisterLedgerServer(srv, NewGRPCHandler(svc))
	healthpb.RegisterHealthServer(srv, health.NewServer())
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial bufnet: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return NewLedgerClient(conn), conn
}

func expectCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	if got := status.Code(err); got != want {
		t.Fatalf("expected code %s, got %s (%v)", want, got, err)
	}
}

func TestGRPC_ComputeOrderTotal(t *testing.T) {
	client, _ := newTestLedgerClient(t)
	ctx := context.Background()

	resp, err := client.ComputeOrderTotal(ctx, &ComputeOrderTotalRequest{OrderNo: 1})
	if err != nil {
		t.Fatalf("ComputeOrderTotal: %v", err)
	}
	if resp.Total != "25.50" || resp.OrderNo != 1 {
		t.Errorf("unexpected total: %+v", resp)
	}

	_, err = client.ComputeOrderTotal(ctx, &ComputeOrderTotalRequest{OrderNo: 0})
	expectCode(t, err, codes.InvalidArgument)
}

func TestGRPC_PlaceOrderLine(t *testing.T) {
	client, _ := newTestLedgerClient(t)
	ctx := context.Background()

	line, err := client.PlaceOrderLine(ctx, &OrderLineRequest{OrderNo: 1, ItemNo: 3, Quantity: 10})
	if err != nil {
		t.Fatalf("PlaceOrderLine: %v", err)
	}
	if line.Quantity != 10 {
		t.Errorf("unexpected line: %+v", line)
	}

	_, err = client.PlaceOrderLine(ctx, &OrderLineRequest{OrderNo: 1, ItemNo: 3, Quantity: 1})
	expectCode(t, err, codes.AlreadyExists)

	_, err = client.PlaceOrderLine(ctx, &OrderLineRequest{OrderNo: 99, ItemNo: 3, Quantity: 1})
	expectCode(t, err, codes.NotFound)

	_, err = client.PlaceOrderLine(ctx, &OrderLineRequest{OrderNo: 1, ItemNo: 3, Quantity: -1})
	expectCode(t, err, codes.InvalidArgument)
}

func TestGRPC_InsufficientStock(t *testing.T) {
	client, _ := newTestLedgerClient(t)

	_, err := client.PlaceOrderLine(context.Background(), &OrderLineRequest{OrderNo: 1, ItemNo: 3, Quantity: 101})
	expectCode(t, err, codes.FailedPrecondition)
}

func TestGRPC_SupplyAndPayments(t *testing.T) {
	client, _ := newTestLedgerClient(t)
	ctx := context.Background()

	receipt, err := client.ReceiveSupply(ctx, &SupplyRequest{ItemNo: 1, SupplierID: 1, Quantity: 3, PurchaseDate: "2024-03-04"})
	if err != nil {
		t.Fatalf("ReceiveSupply: %v", err)
	}
	if receipt.Serial == 0 || receipt.PurchaseDate != "2024-03-04" {
		t.Errorf("unexpected receipt: %+v", receipt)
	}

	_, err = client.ReceiveSupply(ctx, &SupplyRequest{ItemNo: 1, SupplierID: 1, Quantity: 3, PurchaseDate: "yesterday"})
	expectCode(t, err, codes.InvalidArgument)

	_, err = client.RecordPayment(ctx, &PaymentRequest{PaymentNo: 1, OrderNo: 1, Method: "credit card", PaymentDate: "2024-03-04"})
	expectCode(t, err, codes.AlreadyExists)

	if _, err := client.PlaceOrderLine(ctx, &OrderLineRequest{OrderNo: 1, ItemNo: 3, Quantity: 2}); err != nil {
		t.Fatalf("PlaceOrderLine: %v", err)
	}
	p, err := client.UpdatePayment(ctx, &PaymentRequest{PaymentNo: 1, Method: "cash on delivery", PaymentDate: "2024-03-05"})
	if err != nil {
		t.Fatalf("UpdatePayment: %v", err)
	}
	if p.Amount != "32.00" || p.OrderNo != 1 || p.Method != "cash on delivery" {
		t.Errorf("unexpected payment: %+v", p)
	}

	_, err = client.UpdatePayment(ctx, &PaymentRequest{PaymentNo: 5, Method: "cash on delivery", PaymentDate: "2024-03-05"})
	expectCode(t, err, codes.NotFound)
}

func TestGRPC_Health(t *testing.T) {
	_, conn := newTestLedgerClient(t)

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("health check: %v", err)
	}
	if resp.Status != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("expected SERVING, got %s", resp.Status)
	}
}
