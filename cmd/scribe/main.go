// Package main is the entry point for the scribe CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grindlemire/graft"
	"github.com/spf13/pflag"
	"go.trai.ch/scribe/cmd/scribe/commands"
	"go.trai.ch/scribe/internal/adapters/config"
	"go.trai.ch/scribe/internal/adapters/logger"
	"go.trai.ch/scribe/internal/app"
	_ "go.trai.ch/scribe/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		if err != nil {
			return nil, func() {}, err
		}
		return c, func() { _ = c.Close() }, nil
	}))
}

func run(
	ctx context.Context,
	args []string,
	stderr io.Writer,
	provider ComponentProvider,
) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Global flags shape how the components are built
	ctx = withGlobalFlags(ctx, args)

	// 2. Initialize application components
	components, cleanup, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		// Write directly to stderr passed in
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	defer cleanup()

	stopMetrics := serveMetrics(components)
	defer stopMetrics()

	// 3. Interface - CLI
	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(os.Stdout, stderr)

	// 4. Execution
	if err := cli.Execute(ctx); err != nil {
		components.Logger.Error(err)
		return 1
	}
	return 0
}

// withGlobalFlags reads --config and --json ahead of cobra.
func withGlobalFlags(ctx context.Context, args []string) context.Context {
	fs := pflag.NewFlagSet("global", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	configPath := fs.String(commands.FlagConfig, "", "")
	jsonLogs := fs.Bool(commands.FlagJSON, false, "")

	// Errors are reported by cobra, which parses the same arguments.
	_ = fs.Parse(args)

	if *configPath != "" {
		ctx = config.WithPath(ctx, *configPath)
	}
	if *jsonLogs {
		ctx = logger.WithJSON(ctx, true)
	}
	return ctx
}

// serveMetrics exposes the commit metrics when a listen address is configured.
func serveMetrics(c *app.Components) func() {
	if c.Config == nil || c.Config.MetricsAddr == "" || c.Metrics == nil {
		return func() {}
	}

	srv := &http.Server{
		Addr:              c.Config.MetricsAddr,
		Handler:           c.Metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.Logger.Error(err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
