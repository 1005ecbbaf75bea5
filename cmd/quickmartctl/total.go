package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rl1809/quickmart/internal/adapter/handler"
)

var grpcAddr string

var totalCmd = &cobra.Command{
	Use:   "total <order-no>",
	Short: "Ask a running server for an order total over gRPC",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orderNo, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("order number: %w", err)
		}

		conn, err := grpc.NewClient(grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()

		resp, err := handler.NewLedgerClient(conn).ComputeOrderTotal(ctx, &handler.ComputeOrderTotalRequest{OrderNo: orderNo})
		if err != nil {
			return err
		}
		fmt.Printf("order %d total %s\n", resp.OrderNo, resp.Total)
		return nil
	},
}

func init() {
	totalCmd.Flags().StringVar(&grpcAddr, "addr", "localhost:50051", "gRPC address of the server")
	rootCmd.AddCommand(totalCmd)
}
