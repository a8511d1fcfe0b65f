package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tjfontaine/mrr-go/internal/api/mrr"
	"github.com/tjfontaine/mrr-go/internal/commands"
	"github.com/tjfontaine/mrr-go/internal/pkg/config"
	"github.com/tjfontaine/mrr-go/internal/pkg/safehttp"
	"github.com/tjfontaine/mrr-go/internal/storage"
	"github.com/tjfontaine/mrr-go/internal/storage/sqlite"
	"github.com/tjfontaine/mrr-go/internal/telemetry"
)

// app holds what a single invocation builds from config and flags.
type app struct {
	stdout io.Writer
	stderr io.Writer

	cfg     *config.Config
	logger  *slog.Logger
	journal storage.CallStore
	runner  *commands.Runner

	closers []func(context.Context) error
}

// statusError reports a non-200 answer after its envelope was printed.
type statusError struct {
	Status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("api returned status %d", e.Status)
}

// setup loads config, applies global flags and builds the logger, tracer
// and journal. The API client is only built when withClient is set, so
// commands that never call the API work without credentials.
func (a *app) setup(cmd *cli.Command, withClient bool) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	if cmd.IsSet("pretty") {
		cfg.API.Pretty = cmd.Bool("pretty")
	}
	if cmd.Bool("raw") {
		cfg.API.Decode = false
	}
	if cmd.Bool("verbose") {
		cfg.API.PrintOutput = true
	}
	a.cfg = cfg

	opts := &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}
	var handler slog.Handler = slog.NewTextHandler(a.stderr, opts)
	if strings.EqualFold(cfg.Log.Format, "json") {
		handler = slog.NewJSONHandler(a.stderr, opts)
	}
	a.logger = slog.New(handler)
	slog.SetDefault(a.logger)

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(cfg.Telemetry.ServiceName, a.stderr, a.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize tracer: %w", err)
		}
		a.closers = append(a.closers, shutdown)
	}

	if cfg.Journal.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Journal.Path), 0o755); err != nil {
			return fmt.Errorf("failed to create journal directory: %w", err)
		}
		store, err := sqlite.New(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		a.journal = store
		a.closers = append(a.closers, func(context.Context) error { return store.Close() })
	}

	if !withClient {
		return nil
	}
	if err := cfg.ValidateAPI(); err != nil {
		return err
	}

	httpClient := safehttp.NewClient(safehttp.Options{
		Timeout:            cfg.API.Timeout,
		DenyPrivate:        cfg.HTTP.DenyPrivate,
		InsecureSkipVerify: cfg.TLS.InsecureSkipVerify,
		Tracing:            cfg.Telemetry.Enabled,
	})
	clientOpts := []mrr.ClientOption{
		mrr.WithBaseURL(cfg.API.BaseURL),
		mrr.WithHTTPClient(httpClient),
		mrr.WithDecode(cfg.API.Decode),
		mrr.WithPretty(cfg.API.Pretty),
		mrr.WithLogger(a.logger),
	}
	if cfg.API.PrintOutput {
		clientOpts = append(clientOpts, mrr.WithPrintOutput(a.stderr))
	}
	creds := mrr.Credentials{APIKey: cfg.API.Key, APISecret: cfg.API.Secret}
	client, err := mrr.NewClient(creds, clientOpts...)
	if err != nil {
		return err
	}

	a.runner = &commands.Runner{Client: client, Logger: a.logger}
	if a.journal != nil {
		a.runner.Journal = a.journal
	}
	a.logger.Debug("client ready",
		slog.String("base_url", cfg.API.BaseURL),
		slog.Any("credentials", creds),
	)
	return nil
}

// printResult writes a result to stdout. Text bodies (decode off) are
// written as-is, everything else as indented JSON. A non-200 envelope is
// printed and then reported as a statusError.
func (a *app) printResult(res *mrr.Result) error {
	if s, ok := res.Value.(string); ok && res.OK() && !a.cfg.API.Decode {
		_, err := fmt.Fprintln(a.stdout, s)
		return err
	}

	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	if !res.OK() {
		return &statusError{Status: res.Raw.Status}
	}
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](context.Background()); err != nil && a.logger != nil {
			a.logger.Warn("shutdown step failed", slog.String("error", err.Error()))
		}
	}
	a.closers = nil
}
