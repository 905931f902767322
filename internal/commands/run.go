package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gaborage/go-bricks-actionlog/internal/demo"
	"github.com/gaborage/go-bricks-actionlog/trace"
)

// RunOptions holds options for the run command
type RunOptions struct {
	SKU    string
	Stock  int
	Orders int
	Qty    int
}

// NewRunCommand creates the run command
func NewRunCommand(global *GlobalOptions) *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Place and cancel sample orders",
		Long: `Places orders concurrently, one request id per order, then cancels the
first one twice. Orders beyond the available stock and the second
cancellation fail and are logged as thrown actions.`,
		Example: `  # Three orders of two units from a stock of five
  actionlog-demo run --orders 3 --qty 2 --stock 5

  # Structured action logs
  ACTIONLOG_FORMAT=structured actionlog-demo run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOrders(cmd.Context(), global, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.SKU, "sku", "apple", "Product to order")
	cmd.Flags().IntVar(&opts.Stock, "stock", 5, "Initial stock of the product")
	cmd.Flags().IntVarP(&opts.Orders, "orders", "n", 3, "Number of concurrent orders")
	cmd.Flags().IntVarP(&opts.Qty, "qty", "q", 2, "Units per order")

	return cmd
}

func runOrders(ctx context.Context, global *GlobalOptions, opts *RunOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Orders < 1 {
		return fmt.Errorf("orders must be at least 1, got %d", opts.Orders)
	}

	a, services, err := bootstrap(global, fixedStock(map[string]int{opts.SKU: opts.Stock}))
	if err != nil {
		return err
	}
	defer shutdownApp(a)

	var (
		mu     sync.Mutex
		placed []string
	)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < opts.Orders; i++ {
		orderCtx := trace.WithRequestID(gctx, trace.NewRequestID())
		g.Go(func() error {
			id, err := services.Orders.Place(orderCtx, opts.SKU, opts.Qty, "4111-1111-1111-1111")
			if errors.Is(err, demo.ErrOutOfStock) {
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			placed = append(placed, id)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(out, "placed %d of %d orders, %d %s left\n", len(placed), opts.Orders, services.Stock.Level(opts.SKU), opts.SKU)
	if len(placed) == 0 {
		return nil
	}

	cancelCtx := trace.WithRequestID(ctx, trace.NewRequestID())
	if err := services.Orders.Cancel(cancelCtx, placed[0]); err != nil {
		return err
	}
	fmt.Fprintf(out, "cancelled %s\n", placed[0])

	if err := services.Orders.Cancel(cancelCtx, placed[0]); errors.Is(err, demo.ErrOrderNotFound) {
		fmt.Fprintf(out, "second cancellation rejected: %v\n", err)
	}
	return nil
}
