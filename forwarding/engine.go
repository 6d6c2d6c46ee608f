// Package forwarding routes records from named inputs to named outputs.
//
// An Engine computes a key for every valid record it takes from a Transport,
// looks the key up in its forwarding table and writes the record unchanged
// to the bound output. Keys come from one of two extractors:
//
//   - ByInputName: the input channel name.
//   - ByInputValue: the rendered value of a field chosen per input through
//     the input_members table.
//
// Tables are JSON arrays of objects supplied as properties:
//
//	forwarding_table: [{"input": "Sensor*", "output": "sensors"}]
//	input_members:    [{"input": "*", "member": "station"}]
//
// Failures on one record are reported to the Observer and do not affect the
// rest of the batch. A failure taking from one input skips only that input.
// Delivery is at most once; the engine never retries.
package forwarding

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/c360/semfwd/errors"
	"github.com/c360/semfwd/matching"
	"github.com/c360/semfwd/record"
)

// Engine is a configured forwarding engine. OnDataAvailable calls are serialized.
type Engine struct {
	mu sync.Mutex

	strategy  Strategy
	table     *matching.Table
	extractor KeyExtractor

	logger         *slog.Logger
	failureLimiter *rate.Limiter
	log            LogObserver
	observers      observers
	cache          *FieldCache
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used by the default log observer.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithObserver adds an observer alongside the log observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}

// WithFailureLogLimit caps record failure warnings at r per second with the
// given burst. Observers other than the log observer still see every failure.
func WithFailureLogLimit(r rate.Limit, burst int) Option {
	return func(e *Engine) {
		e.failureLimiter = rate.NewLimiter(r, burst)
	}
}

// WithFieldCache shares a descriptor cache with the by-value extractor.
func WithFieldCache(c *FieldCache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// NewEngine parses the properties required by strategy and returns a ready engine.
// Configuration problems are returned as errors matching errors.ErrInvalidConfiguration.
func NewEngine(strategy Strategy, props Properties, opts ...Option) (*Engine, error) {
	e := &Engine{
		strategy: strategy,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = LogObserver{Logger: e.logger.With("component", "forwarding"), Limiter: e.failureLimiter}

	tables, err := parseProperties(strategy, props, e.observersFor("").EntryAdded)
	if err != nil {
		return nil, errors.WrapFatal(err, "Engine", "NewEngine", "load properties")
	}
	e.table = tables.Forwarding

	switch strategy {
	case StrategyByInputName:
		e.extractor = ByInputName{}
	case StrategyByInputValue:
		e.extractor = NewByInputValue(tables.Members, e.cache)
	}

	return e, nil
}

// Strategy returns the key strategy the engine was built with.
func (e *Engine) Strategy() Strategy { return e.strategy }

// Table returns the forwarding table.
func (e *Engine) Table() *matching.Table { return e.table }

// Extractor returns the key extractor selected by the strategy.
func (e *Engine) Extractor() KeyExtractor { return e.extractor }

// OnDataAvailable drains every input of t once and forwards each valid record.
func (e *Engine) OnDataAvailable(ctx context.Context, t Transport) CycleReport {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	inputs := t.Inputs()
	report := CycleReport{ID: CycleID(ctx), Inputs: len(inputs)}
	obs := e.observersFor(report.ID)

	for _, input := range inputs {
		samples, err := t.Take(ctx, input)
		if err != nil {
			report.InputErrors++
			obs.InputFailed(input, err)
			continue
		}

		for _, s := range samples {
			report.Taken++
			if !s.Valid || s.Record == nil {
				report.Skipped++
				continue
			}
			decision, err := e.Forward(ctx, t, input, s.Record)
			if err != nil {
				report.Failed++
				obs.RecordFailed(input, err)
				continue
			}
			report.Forwarded++
			obs.Forwarded(decision)
		}
	}

	report.Duration = time.Since(start)
	obs.CycleCompleted(report)
	return report
}

// observersFor returns the log observer followed by the added observers.
// A non-empty cycle id is attached to every log line of the cycle.
func (e *Engine) observersFor(cycleID string) observers {
	lo := e.log
	if cycleID != "" {
		lo.Logger = lo.Logger.With("cycle_id", cycleID)
	}
	return append(observers{lo}, e.observers...)
}

// Forward routes a single record received on input. It does not report to observers.
func (e *Engine) Forward(ctx context.Context, t Transport, input string, rec record.Record) (Decision, error) {
	key, err := e.extractor.Extract(input, rec)
	if err != nil {
		return Decision{Input: input}, err
	}

	entry, err := e.table.Find(key)
	if err != nil {
		return Decision{Input: input, Key: key}, err
	}

	d := Decision{Input: input, Key: key, Pattern: entry.Pattern, Output: entry.Destination}
	if err := t.Write(ctx, entry.Destination, rec); err != nil {
		return d, err
	}
	return d, nil
}
