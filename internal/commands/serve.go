package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/gaborage/go-bricks-actionlog/app"
	"github.com/gaborage/go-bricks-actionlog/config"
	"github.com/gaborage/go-bricks-actionlog/internal/demo"
	"github.com/gaborage/go-bricks-actionlog/rpc"
	"github.com/gaborage/go-bricks-actionlog/server"
)

const shutdownTimeout = 10 * time.Second

// ServeOptions holds options for the serve command
type ServeOptions struct {
	GRPCAddr string
	Stock    int
}

// NewServeCommand creates the serve command
func NewServeCommand(global *GlobalOptions) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sample order service over HTTP",
		Long: `Starts the HTTP server configured under server.*. Every route is logged as
an action and the order service calls it makes are logged as their own
actions. With --grpc-addr (or grpc.address) a gRPC health service is
served as well, its calls logged as actions too. The initial stock is
read from demo.stock when present.`,
		Example: `  actionlog-demo serve
  actionlog-demo serve --grpc-addr :9090`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), global, opts)
		},
	}

	cmd.Flags().StringVar(&opts.GRPCAddr, "grpc-addr", "", "gRPC listen address (overrides grpc.address)")
	cmd.Flags().IntVar(&opts.Stock, "stock", 100, "Initial stock of every product when demo.stock is not set")

	return cmd
}

func serve(ctx context.Context, global *GlobalOptions, opts *ServeOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, services, err := bootstrap(global, configuredStock(opts.Stock, "apple", "pear"))
	if err != nil {
		return err
	}
	defer shutdownApp(a)
	srv := newHTTPServer(a, services)

	var (
		grpcServer *grpc.Server
		lis        net.Listener
	)
	addr, err := grpcAddress(a.Config(), opts.GRPCAddr)
	switch {
	case config.IsNotConfigured(err):
		a.Logger().Info().Msg("gRPC server disabled: " + err.Error())
	case err != nil:
		return err
	default:
		lis, err = net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", addr, err)
		}
		grpcServer = newGRPCServer(a)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	if grpcServer != nil {
		a.Logger().Info().Str("address", lis.Addr().String()).Msg("Starting gRPC server...")
		g.Go(func() error { return grpcServer.Serve(lis) })
	}
	g.Go(func() error {
		<-gctx.Done()
		a.Logger().Info().Msg("Shutting down...")
		if grpcServer != nil {
			grpcServer.GracefulStop()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

type placeOrderRequest struct {
	SKU  string `json:"sku" validate:"required,sku"`
	Qty  int    `json:"qty"`
	Card string `json:"card"`
}

// newHTTPServer registers the order routes and the debug endpoints.
func newHTTPServer(a *app.App, services demo.Services) *server.Server {
	srv := server.New(a.Config(), a.Logger(), a.Interceptor())
	e := srv.Echo()

	e.POST("/orders", func(c echo.Context) error {
		var req placeOrderRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		id, err := services.Orders.Place(c.Request().Context(), req.SKU, req.Qty, req.Card)
		switch {
		case errors.Is(err, demo.ErrInvalidAmount):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, demo.ErrOutOfStock):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case err != nil:
			return err
		}
		return c.JSON(http.StatusCreated, map[string]string{"id": id})
	})

	e.DELETE("/orders/:id", func(c echo.Context) error {
		err := services.Orders.Cancel(c.Request().Context(), c.Param("id"))
		if errors.Is(err, demo.ErrOrderNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		if err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})

	e.GET("/stock/:sku", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]int{"level": services.Stock.Level(c.Param("sku"))})
	})

	app.NewDebugHandlers(a, &a.Config().Debug, a.Logger()).RegisterDebugEndpoints(e)
	return srv
}

// newGRPCServer creates a gRPC server exposing the standard health service.
func newGRPCServer(a *app.App) *grpc.Server {
	srv := grpc.NewServer(rpc.ServerOptions(a.Interceptor(), rpc.Config{})...)
	healthpb.RegisterHealthServer(srv, health.NewServer())
	return srv
}
