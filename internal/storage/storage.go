// Package storage holds the local call journal. Records describe what was
// called and how it ended; credentials, nonces, signatures and bodies are
// never stored.
package storage

import (
	"context"
	"time"
)

// Outcome classifies how a call ended.
type Outcome string

const (
	OutcomeOK             Outcome = "ok"
	OutcomeAPIError       Outcome = "api_error" // any status other than 200
	OutcomeTransportError Outcome = "transport_error"
	OutcomeDecodeError    Outcome = "decode_error"
	OutcomeInvalid        Outcome = "invalid" // rejected before dispatch
)

// CallRecord is one journal entry.
type CallRecord struct {
	ID        string
	Command   string
	Method    string
	Path      string // base path, without the query tail
	Status    int    // 0 when no response was received
	Outcome   Outcome
	Duration  time.Duration
	CreatedAt time.Time
}

// CallStore persists CallRecords.
type CallStore interface {
	Record(ctx context.Context, rec *CallRecord) error

	// List returns the newest records first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]*CallRecord, error)

	Close() error
}
