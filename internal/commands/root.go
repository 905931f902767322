// Package commands implements the actionlog-demo command line.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaborage/go-bricks-actionlog/app"
	"github.com/gaborage/go-bricks-actionlog/config"
	"github.com/gaborage/go-bricks-actionlog/descriptor"
	"github.com/gaborage/go-bricks-actionlog/internal/demo"
	"github.com/gaborage/go-bricks-actionlog/logger"
	"github.com/gaborage/go-bricks-actionlog/observability"
)

// GlobalOptions holds the flags shared by every command
type GlobalOptions struct {
	ConfigPath string

	// LogOutput receives the application logs. Default: stdout.
	LogOutput io.Writer
}

// NewRootCommand creates the actionlog-demo root command with all subcommands attached
func NewRootCommand(version string) *cobra.Command {
	return newRootCommand(version, &GlobalOptions{})
}

func newRootCommand(version string, opts *GlobalOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "actionlog-demo",
		Short: "Demonstrate action logging on a sample order service",
		Long: `Runs a sample order service whose calls are logged as actions.

Every logged call emits a start event and either a finish or a throw event,
rendered in the format selected by actionlog.format (console or structured).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", config.DefaultFile, "Configuration file")

	rootCmd.AddCommand(
		NewRunCommand(opts),
		NewServeCommand(opts),
		NewActionsCommand(opts),
		NewVersionCommand(version),
	)
	return rootCmd
}

// bootstrap loads the configuration and assembles the app with the demo services.
func bootstrap(opts *GlobalOptions, stock stockFunc) (*app.App, demo.Services, error) {
	cfg, err := config.LoadFile(opts.ConfigPath)
	if err != nil {
		return nil, demo.Services{}, fmt.Errorf("failed to load configuration: %w", err)
	}

	var levels map[string]int
	if stock != nil {
		if levels, err = stock(cfg); err != nil {
			return nil, demo.Services{}, fmt.Errorf("failed to load configuration: %w", err)
		}
	}

	out := opts.LogOutput
	if out == nil {
		out = os.Stdout
	}
	log := logger.NewWithWriter(out, cfg.Log.Level, cfg.Log.Pretty, nil)

	registry := descriptor.NewRegistry()
	if err := demo.Register(registry); err != nil {
		return nil, demo.Services{}, err
	}

	a, err := app.New(cfg, app.WithLogger(log), app.WithRegistry(registry))
	if err != nil {
		return nil, demo.Services{}, err
	}
	return a, demo.NewServices(a, levels), nil
}

// shutdownApp flushes the app's metric export before the command exits.
func shutdownApp(a *app.App) {
	ctx, cancel := context.WithTimeout(context.Background(), observability.DefaultShutdownTimeout)
	defer cancel()
	if err := a.Shutdown(ctx); err != nil {
		a.Logger().Warn().Err(err).Msg("Failed to flush action metrics")
	}
}
