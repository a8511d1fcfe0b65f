package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tjfontaine/mrr-go/internal/api/mrr"
	"github.com/tjfontaine/mrr-go/internal/storage"
)

// Doer dispatches a signed request. *mrr.Client implements it.
type Doer interface {
	Do(ctx context.Context, method, path string, params mrr.Params) (*mrr.Result, error)
}

// Runner executes commands and journals each call when Journal is set.
type Runner struct {
	Client  Doer
	Journal storage.CallStore
	Logger  *slog.Logger
}

// Run builds the path and body for cmd from user input and dispatches it.
// Input errors are journaled as invalid and returned without a request.
func (r *Runner) Run(ctx context.Context, cmd Command, pathArgs, rawParams map[string]string) (*mrr.Result, error) {
	path, err := cmd.BuildPath(pathArgs)
	if err != nil {
		r.record(ctx, cmd.ID(), cmd.Method, cmd.Path, nil, err, 0)
		return nil, err
	}
	params, err := cmd.BuildParams(rawParams)
	if err != nil {
		r.record(ctx, cmd.ID(), cmd.Method, path, nil, err, 0)
		return nil, err
	}
	return r.Call(ctx, cmd.ID(), cmd.Method, path, params)
}

// Call dispatches an arbitrary request. label names it in the journal.
func (r *Runner) Call(ctx context.Context, label, method, path string, params mrr.Params) (*mrr.Result, error) {
	start := time.Now()
	res, err := r.Client.Do(ctx, strings.ToUpper(method), path, params)
	r.record(ctx, label, strings.ToUpper(method), path, res, err, time.Since(start))
	return res, err
}

func (r *Runner) record(ctx context.Context, label, method, path string, res *mrr.Result, callErr error, d time.Duration) {
	if r.Journal == nil {
		return
	}

	basePath, _ := mrr.SplitPath(path)
	rec := &storage.CallRecord{
		ID:        uuid.New().String(),
		Command:   label,
		Method:    method,
		Path:      basePath,
		Outcome:   classify(res, callErr),
		Duration:  d,
		CreatedAt: time.Now(),
	}
	var decodeErr *mrr.DecodeError
	switch {
	case res != nil && res.Raw != nil:
		rec.Status = res.Raw.Status
	case res != nil:
		rec.Status = http.StatusOK
	case errors.As(callErr, &decodeErr):
		rec.Status = decodeErr.Status
	}

	if err := r.Journal.Record(ctx, rec); err != nil {
		r.logger().Warn("failed to journal call",
			slog.String("command", label),
			slog.String("error", err.Error()),
		)
	}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func classify(res *mrr.Result, err error) storage.Outcome {
	var decodeErr *mrr.DecodeError
	switch {
	case errors.Is(err, mrr.ErrTransport):
		return storage.OutcomeTransportError
	case errors.As(err, &decodeErr):
		return storage.OutcomeDecodeError
	case err != nil:
		return storage.OutcomeInvalid
	case res != nil && !res.OK():
		return storage.OutcomeAPIError
	default:
		return storage.OutcomeOK
	}
}
