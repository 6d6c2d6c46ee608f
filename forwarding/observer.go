package forwarding

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/c360/semfwd/matching"
)

// Decision describes one successful forwarding step.
type Decision struct {
	Input   string
	Key     string
	Pattern string
	Output  string
}

// CycleReport summarizes one OnDataAvailable invocation.
type CycleReport struct {
	ID          string
	Inputs      int
	Taken       int
	Skipped     int
	Forwarded   int
	Failed      int
	InputErrors int
	Duration    time.Duration
}

type cycleIDKey struct{}

// WithCycleID returns a context that tags the next OnDataAvailable call
// with id. The id is reported in CycleReport.ID and on cycle log lines.
func WithCycleID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, cycleIDKey{}, id)
}

// CycleID returns the cycle id carried by ctx, or "".
func CycleID(ctx context.Context) string {
	id, _ := ctx.Value(cycleIDKey{}).(string)
	return id
}

// Observer receives engine events. Implementations must not block.
type Observer interface {
	EntryAdded(property string, entry matching.Entry, added bool)
	Forwarded(d Decision)
	RecordFailed(input string, err error)
	InputFailed(input string, err error)
	CycleCompleted(r CycleReport)
}

// LogObserver reports engine events through slog. When Limiter is set,
// RecordFailed warnings beyond its rate are dropped.
type LogObserver struct {
	Logger  *slog.Logger
	Limiter *rate.Limiter
}

func (o LogObserver) EntryAdded(property string, entry matching.Entry, added bool) {
	action := "added"
	if !added {
		action = "replaced"
	}
	o.Logger.Debug("Table entry "+action,
		"property", property,
		"pattern", entry.Pattern,
		"destination", entry.Destination)
}

func (o LogObserver) Forwarded(d Decision) {
	o.Logger.Debug("Forwarded record",
		"input", d.Input,
		"key", d.Key,
		"match", d.Pattern,
		"output", d.Output)
}

func (o LogObserver) RecordFailed(input string, err error) {
	if o.Limiter != nil && !o.Limiter.Allow() {
		return
	}
	o.Logger.Warn("Record not forwarded", "input", input, "error", err)
}

func (o LogObserver) InputFailed(input string, err error) {
	o.Logger.Error("Failed to take samples", "input", input, "error", err)
}

func (o LogObserver) CycleCompleted(r CycleReport) {
	if r.Taken == 0 && r.InputErrors == 0 {
		return
	}
	o.Logger.Debug("Forwarding cycle completed",
		"inputs", r.Inputs,
		"taken", r.Taken,
		"skipped", r.Skipped,
		"forwarded", r.Forwarded,
		"failed", r.Failed,
		"input_errors", r.InputErrors,
		"duration", r.Duration)
}

type observers []Observer

func (obs observers) EntryAdded(property string, entry matching.Entry, added bool) {
	for _, o := range obs {
		o.EntryAdded(property, entry, added)
	}
}

func (obs observers) Forwarded(d Decision) {
	for _, o := range obs {
		o.Forwarded(d)
	}
}

func (obs observers) RecordFailed(input string, err error) {
	for _, o := range obs {
		o.RecordFailed(input, err)
	}
}

func (obs observers) InputFailed(input string, err error) {
	for _, o := range obs {
		o.InputFailed(input, err)
	}
}

func (obs observers) CycleCompleted(r CycleReport) {
	for _, o := range obs {
		o.CycleCompleted(r)
	}
}
