// Package forward hosts a forwarding engine as a NATS component.
package forward

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
	"golang.org/x/time/rate"

	"github.com/c360/semfwd/component"
	"github.com/c360/semfwd/errors"
	"github.com/c360/semfwd/forwarding"
	"github.com/c360/semfwd/metric"
	"github.com/c360/semfwd/natsclient"
	"github.com/c360/semfwd/pkg/buffer"
)

const (
	factoryName = "forward"
	version     = "1.0.0"
)

// Processor subscribes to its input ports, feeds every payload through a
// forwarding engine and publishes forwarded records to its output ports.
// A single dispatch goroutine runs engine cycles, so cycles never overlap.
type Processor struct {
	name       string
	config     Config
	engine     *forwarding.Engine
	transport  *natsTransport
	natsClient *natsclient.Client
	logger     *slog.Logger

	// Lifecycle management
	subs        []*natsclient.Subscription
	shutdown    chan struct{}
	done        chan struct{}
	cancel      context.CancelFunc
	running     bool
	startTime   time.Time
	lastError   string
	mu          sync.RWMutex
	lifecycleMu sync.Mutex

	// Counters for DataFlow
	cycles       atomic.Int64
	taken        atomic.Int64
	forwarded    atomic.Int64
	failed       atomic.Int64
	errorCount   atomic.Int64
	bytesIn      atomic.Int64
	lastActivity atomic.Int64 // unix nanos

	metrics     *forwardMetrics
	coreMetrics *metric.Metrics
}

// NewProcessor creates a forward processor from configuration. The
// forwarding tables are parsed here so configuration errors surface before
// any connection is made.
func NewProcessor(rawConfig json.RawMessage, deps component.Dependencies) (component.Discoverable, error) {
	cfg, err := ParseConfig(rawConfig)
	if err != nil {
		return nil, errors.Wrap(err, "ForwardProcessor", "NewProcessor", "config parse")
	}

	var pub publisher
	if deps.NATSClient != nil {
		pub = deps.NATSClient
	}
	return newProcessor(cfg, deps, pub)
}

func newProcessor(cfg Config, deps component.Dependencies, pub publisher) (*Processor, error) {
	logger := deps.GetLoggerWithComponent(cfg.Name)

	metrics, err := newForwardMetrics(deps.MetricsRegistry, cfg.Name)
	if err != nil {
		logger.Error("Failed to initialize forward metrics", "error", err)
		metrics = nil
	}

	props, err := cfg.ForwardingProperties()
	if err != nil {
		return nil, err
	}

	opts := []forwarding.Option{forwarding.WithLogger(deps.GetLogger())}
	if cfg.FailureLogRate > 0 {
		burst := max(1, int(cfg.FailureLogRate))
		opts = append(opts, forwarding.WithFailureLogLimit(rate.Limit(cfg.FailureLogRate), burst))
	}
	if metrics != nil {
		opts = append(opts, forwarding.WithObserver(metrics))
	}
	engine, err := forwarding.NewEngine(forwarding.Strategy(cfg.Strategy), props, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "ForwardProcessor", "NewProcessor", "engine construction")
	}

	// ParseConfig already validated the policy.
	policy, _ := buffer.ParseOverflowPolicy(cfg.OverflowPolicy)

	p := &Processor{
		name:       cfg.Name,
		config:     cfg,
		engine:     engine,
		natsClient: deps.NATSClient,
		logger:     logger,
		metrics:    metrics,
	}
	if deps.MetricsRegistry != nil {
		p.coreMetrics = deps.MetricsRegistry.CoreMetrics()
	}
	p.transport = newNATSTransport(pub, *cfg.Ports, cfg.InboxCapacity, policy, logger, metrics.recordInboxDrop)
	return p, nil
}

// Engine returns the forwarding engine driven by this processor.
func (p *Processor) Engine() *forwarding.Engine {
	return p.engine
}

// Initialize prepares the processor (no-op: tables are loaded by the factory)
func (p *Processor) Initialize() error {
	return nil
}

// Start subscribes to every input port and starts the dispatch loop.
func (p *Processor) Start(ctx context.Context) error {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()

	p.mu.RLock()
	running := p.running
	p.mu.RUnlock()
	if running {
		return errors.WrapFatal(errors.ErrAlreadyStarted, "ForwardProcessor", "Start", "check running state")
	}
	if p.natsClient == nil {
		return errors.WrapFatal(errors.ErrMissingConfig, "ForwardProcessor", "Start", "NATS client required")
	}

	p.coreMetrics.RecordComponentStatus(p.name, metric.StatusStarting)

	if err := p.ensureStreams(ctx); err != nil {
		p.fail(err)
		return err
	}

	subs, err := p.subscribe(ctx)
	if err != nil {
		for _, sub := range subs {
			_ = sub.Unsubscribe()
		}
		p.fail(err)
		return err
	}

	p.startLoop(ctx, subs)

	p.coreMetrics.RecordComponentStatus(p.name, metric.StatusRunning)
	p.logger.Info("Forward processor started",
		"inputs", p.transport.Inputs(),
		"outputs", len(p.config.Ports.Outputs),
		"strategy", p.engine.Strategy(),
		"table_entries", p.engine.Table().Len())

	return nil
}

// startLoop marks the processor running and starts the dispatch loop. The
// loop context is detached from ctx: only Stop ends the loop, after the
// final drain or when its timeout expires.
func (p *Processor) startLoop(ctx context.Context, subs []*natsclient.Subscription) {
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	p.mu.Lock()
	p.subs = subs
	p.shutdown = make(chan struct{})
	p.done = make(chan struct{})
	p.cancel = cancel
	p.running = true
	p.startTime = time.Now()
	p.mu.Unlock()

	go p.loop(loopCtx, p.shutdown, p.done)
}

// ensureStreams creates the JetStream streams bound to jetstream ports.
func (p *Processor) ensureStreams(ctx context.Context) error {
	streams := make(map[string][]string)
	for _, port := range append(p.InputPorts(), p.OutputPorts()...) {
		js, ok := port.Config.(component.JetStreamPort)
		if !ok {
			continue
		}
		streams[js.StreamName] = append(streams[js.StreamName], js.Subjects...)
	}

	for name, subjects := range streams {
		if _, err := p.natsClient.EnsureStream(ctx, jetstream.StreamConfig{
			Name:     name,
			Subjects: subjects,
		}); err != nil {
			return errors.Wrap(err, "ForwardProcessor", "Start", "ensure stream "+name)
		}
		p.logger.Debug("JetStream stream ready", "stream", name, "subjects", subjects)
	}
	return nil
}

func (p *Processor) subscribe(ctx context.Context) ([]*natsclient.Subscription, error) {
	subs := make([]*natsclient.Subscription, 0, len(p.config.Ports.Inputs))
	for _, port := range p.InputPorts() {
		input := port.Name
		subject := port.Subject()

		var (
			sub *natsclient.Subscription
			err error
		)
		switch cfg := port.Config.(type) {
		case component.JetStreamPort:
			sub, err = p.natsClient.ConsumeStream(ctx, cfg.StreamName, subject, func(data []byte) {
				p.receive(input, data)
			})
		default:
			sub, err = p.natsClient.Subscribe(ctx, subject, func(_ context.Context, data []byte) {
				p.receive(input, data)
			})
		}
		if err != nil {
			p.logger.Error("Failed to subscribe input", "input", input, "subject", subject, "error", err)
			return subs, errors.WrapTransient(err, "ForwardProcessor", "Start", fmt.Sprintf("subscribe to %s", subject))
		}
		subs = append(subs, sub)

		p.logger.Debug("Subscribed input", "input", input, "subject", subject, "type", port.Config.Type())
	}
	return subs, nil
}

func (p *Processor) receive(input string, data []byte) {
	p.bytesIn.Add(int64(len(data)))
	p.lastActivity.Store(time.Now().UnixNano())
	p.transport.deliver(input, data)
}

// loop runs one engine cycle per wake-up. On shutdown it drains what is
// still buffered before returning. Cancellation comes only from Stop when
// the drain outlives its timeout.
func (p *Processor) loop(ctx context.Context, shutdown <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-shutdown:
			if p.transport.pending() {
				p.runCycle(ctx)
			}
			return
		case <-p.transport.notify:
			p.runCycle(ctx)
		}
	}
}

// runCycle drives one OnDataAvailable call and folds its report into the counters.
func (p *Processor) runCycle(ctx context.Context) forwarding.CycleReport {
	report := p.engine.OnDataAvailable(forwarding.WithCycleID(ctx, uuid.NewString()), p.transport)

	p.cycles.Add(1)
	p.taken.Add(int64(report.Taken))
	p.forwarded.Add(int64(report.Forwarded))
	p.failed.Add(int64(report.Failed))
	p.errorCount.Add(int64(report.Failed + report.InputErrors))
	return report
}

// Stop unsubscribes inputs, forwards what is still buffered and stops the
// dispatch loop. The final drain is cancelled when timeout expires, and an
// error is returned.
func (p *Processor) Stop(timeout time.Duration) error {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()

	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	subs := p.subs
	shutdown, done, cancel := p.shutdown, p.done, p.cancel
	p.subs = nil
	p.mu.Unlock()

	p.coreMetrics.RecordComponentStatus(p.name, metric.StatusStopping)

	var errs []error
	for _, sub := range subs {
		if err := sub.Unsubscribe(); err != nil {
			errs = append(errs, err)
		}
	}
	close(shutdown)

	select {
	case <-done:
	case <-time.After(timeout):
		cancel()
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
		p.fail(fmt.Errorf("shutdown timeout after %v", timeout))
		return errors.WrapTransient(
			fmt.Errorf("shutdown timeout after %v", timeout),
			"ForwardProcessor", "Stop", "graceful shutdown")
	}
	cancel()

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
	p.coreMetrics.RecordComponentStatus(p.name, metric.StatusStopped)

	p.logger.Info("Forward processor stopped",
		"cycles", p.cycles.Load(),
		"forwarded", p.forwarded.Load(),
		"inbox_drops", p.transport.drops())

	if len(errs) > 0 {
		return errors.Wrap(errs[0], "ForwardProcessor", "Stop", "unsubscribe inputs")
	}
	return nil
}

func (p *Processor) fail(err error) {
	p.errorCount.Add(1)
	p.mu.Lock()
	p.lastError = err.Error()
	p.mu.Unlock()
	p.coreMetrics.RecordComponentStatus(p.name, metric.StatusFailed)
}

// Discoverable interface implementation

// Meta returns metadata describing this processor component.
func (p *Processor) Meta() component.Metadata {
	return component.Metadata{
		Name:        p.name,
		Type:        string(component.TypeProcessor),
		Description: "Content-based record forwarder",
		Version:     version,
	}
}

// InputPorts returns the configured input ports.
func (p *Processor) InputPorts() []component.Port {
	return p.config.Ports.InputPorts()
}

// OutputPorts returns the configured output ports.
func (p *Processor) OutputPorts() []component.Port {
	return p.config.Ports.OutputPorts()
}

// ConfigSchema returns the configuration schema for this processor.
func (p *Processor) ConfigSchema() component.ConfigSchema {
	return Schema()
}

// Health returns the current health status of this processor.
func (p *Processor) Health() component.HealthStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var uptime time.Duration
	if p.running {
		uptime = time.Since(p.startTime)
	}
	return component.HealthStatus{
		Healthy:    p.running && p.natsClient != nil && p.natsClient.IsHealthy(),
		LastCheck:  time.Now(),
		ErrorCount: int(p.errorCount.Load()),
		LastError:  p.lastError,
		Uptime:     uptime,
	}
}

// DataFlow returns current data flow metrics for this processor.
func (p *Processor) DataFlow() component.FlowMetrics {
	p.mu.RLock()
	startTime, running := p.startTime, p.running
	p.mu.RUnlock()

	var flow component.FlowMetrics
	if last := p.lastActivity.Load(); last > 0 {
		flow.LastActivity = time.Unix(0, last)
	}
	if taken := p.taken.Load(); taken > 0 {
		flow.ErrorRate = float64(p.failed.Load()) / float64(taken)
	}
	if running {
		if secs := time.Since(startTime).Seconds(); secs > 0 {
			flow.MessagesPerSecond = float64(p.forwarded.Load()) / secs
			flow.BytesPerSecond = float64(p.bytesIn.Load()) / secs
		}
	}
	return flow
}

// Schema describes the forward processor configuration.
func Schema() component.ConfigSchema {
	minCapacity := 1
	return component.ConfigSchema{
		Properties: map[string]component.PropertySchema{
			"name": {
				Type:        "string",
				Description: "Instance label used in logs and metrics",
				Default:     factoryName,
				Category:    "basic",
			},
			"ports": {
				Type:        "ports",
				Description: "Named input and output ports; names are the channel names used by forwarding tables",
				Category:    "basic",
			},
			"strategy": {
				Type:        "enum",
				Description: "Key extraction strategy",
				Default:     string(forwarding.StrategyByInputName),
				Enum:        []string{string(forwarding.StrategyByInputName), string(forwarding.StrategyByInputValue)},
				Category:    "basic",
			},
			"properties": {
				Type:        "object",
				Description: "forwarding_table and input_members tables as JSON text or inline arrays",
				Category:    "basic",
			},
			"inbox_capacity": {
				Type:        "int",
				Description: "Payloads buffered per input between cycles",
				Default:     DefaultInboxCapacity,
				Minimum:     &minCapacity,
				Category:    "advanced",
			},
			"overflow_policy": {
				Type:        "enum",
				Description: "What to drop when an inbox is full",
				Default:     buffer.DropOldest.String(),
				Enum:        []string{buffer.DropOldest.String(), buffer.DropNewest.String()},
				Category:    "advanced",
			},
			"failure_log_rate": {
				Type:        "float",
				Description: "Per-record failure warnings logged per second (0 logs all)",
				Default:     DefaultFailureLogRate,
				Category:    "advanced",
			},
		},
		Required: []string{"ports", "properties"},
	}
}

// Register registers the forward processor component with the given registry
func Register(registry *component.Registry) error {
	return registry.RegisterWithConfig(component.RegistrationConfig{
		Name:        factoryName,
		Factory:     NewProcessor,
		Schema:      Schema(),
		Type:        string(component.TypeProcessor),
		Protocol:    "nats",
		Domain:      "routing",
		Description: "Forwards records from named inputs to named outputs by key pattern",
		Version:     version,
	})
}
