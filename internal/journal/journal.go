// Package journal keeps a ledger of analysis runs and of every session call
// made during each run.
package journal

import (
	"context"
	"time"
)

// Status is the outcome of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run describes one analysis run.
type Run struct {
	ID         string
	Name       string
	Workdir    string
	Verbose    string
	Engine     string
	Source     string
	Status     Status
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Call is one session call made during a run.
type Call struct {
	Seq   int
	Op    string
	Args  string
	Error string
	At    time.Time
}

// Journal records runs. Implementations must tolerate being called from a
// single goroutine in run order; they need not be safe for concurrent runs.
type Journal interface {
	StartRun(ctx context.Context, run Run) error
	RecordCall(ctx context.Context, runID string, call Call) error
	FinishRun(ctx context.Context, runID string, status Status, runErr error) error
	Close() error
}

// Nop discards everything.
type Nop struct{}

func (Nop) StartRun(context.Context, Run) error { return nil }
func (Nop) RecordCall(context.Context, string, Call) error { return nil }
func (Nop) FinishRun(context.Context, string, Status, error) error { return nil }
func (Nop) Close() error { return nil }
