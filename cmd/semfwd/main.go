// Package main implements the semfwd binary. It hosts forwarding engines as
// NATS components, driven by a JSON or YAML service configuration.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/c360/semfwd/component"
	"github.com/c360/semfwd/componentregistry"
	"github.com/c360/semfwd/config"
	"github.com/c360/semfwd/health"
	"github.com/c360/semfwd/metric"
	"github.com/c360/semfwd/natsclient"
	"github.com/c360/semfwd/pkg/retry"
	"github.com/c360/semfwd/pkg/tlsutil"
)

// Build information
var (
	Version   = "0.1.0"
	BuildTime = "dev"
)

const appName = "semfwd"

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	cliCfg, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		_, _ = fmt.Fprintf(stdout, "%s version %s\n", appName, Version)
		return nil
	}
	if cliCfg.ShowHelp {
		fs.SetOutput(stdout)
		printDetailedHelp(fs)
		return nil
	}

	logger := setupLogger(stdout, cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	logger.Info("Starting semfwd",
		"build_time", BuildTime,
		"config_path", cliCfg.ConfigPath)

	cfg, err := loadConfig(cliCfg.ConfigPath)
	if err != nil {
		return err
	}

	if cliCfg.Validate {
		logger.Info("Configuration is valid", "components", cfg.EnabledComponents())
		return nil
	}

	metricsRegistry := metric.NewMetricsRegistry()

	natsClient, err := connectToNATS(ctx, cfg.NATS, metricsRegistry, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cliCfg.ShutdownTimeout)
		defer cancel()
		if err := natsClient.Close(closeCtx); err != nil {
			logger.Warn("Error closing NATS connection", "error", err)
		}
	}()

	registry := component.NewRegistry()
	if err := componentregistry.Register(registry); err != nil {
		return fmt.Errorf("register components: %w", err)
	}
	logger.Info("Component factories registered", "factories", registry.ListComponentTypes())

	deps := component.Dependencies{
		NATSClient:      natsClient,
		MetricsRegistry: metricsRegistry,
		Logger:          logger,
	}

	started, err := startComponents(ctx, cfg, registry, deps, logger)
	defer stopComponents(started, cliCfg.ShutdownTimeout, logger)
	if err != nil {
		return err
	}

	monitor := health.NewMonitor(appName)
	monitor.Register("nats", natsCheck(natsClient))
	for _, nc := range started {
		monitor.RegisterComponent(nc.name, nc.lc)
	}

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Metrics.Enabled {
		server := metric.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, metricsRegistry,
			metric.WithHealthHandler(monitor.Handler()))
		g.Go(func() error {
			logger.Info("Serving metrics", "address", server.Address())
			return server.Run(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	logger.Info("semfwd started", "components", len(started))
	if err := g.Wait(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	logger.Info("Received shutdown signal")
	return nil
}

// loadConfig loads and validates configuration from path
func loadConfig(path string) (*config.Config, error) {
	loader := config.NewLoader()
	loader.EnableValidation(true)
	cfg, err := loader.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// connectToNATS creates the shared client and connects it, retrying until ctx is done
func connectToNATS(
	ctx context.Context,
	cfg config.NATSConfig,
	registry *metric.MetricsRegistry,
	logger *slog.Logger,
) (*natsclient.Client, error) {
	tlsConfig, err := tlsutil.LoadClientTLSConfig(cfg.TLS)
	if err != nil {
		return nil, fmt.Errorf("load NATS TLS config: %w", err)
	}

	opts := []natsclient.ClientOption{
		natsclient.WithLogger(logger),
		natsclient.WithTLSConfig(tlsConfig),
		natsclient.WithMetrics(registry.CoreMetrics()),
		natsclient.WithMaxReconnects(cfg.MaxReconnects),
		natsclient.WithReconnectWait(cfg.ReconnectWait),
	}
	if cfg.Name != "" {
		opts = append(opts, natsclient.WithName(cfg.Name))
	}
	if cfg.Username != "" {
		opts = append(opts, natsclient.WithCredentials(cfg.Username, cfg.Password))
	}
	if cfg.Token != "" {
		opts = append(opts, natsclient.WithToken(cfg.Token))
	}

	client, err := natsclient.NewClient(strings.Join(cfg.URLs, ","), opts...)
	if err != nil {
		return nil, fmt.Errorf("create NATS client: %w", err)
	}

	logger.Info("Connecting to NATS", "urls", cfg.URLs)
	err = retry.Do(ctx, retry.Persistent(), func() error {
		return client.Connect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return client, nil
}

func natsCheck(client *natsclient.Client) health.Check {
	return func() health.Status {
		if client.IsHealthy() {
			return health.NewHealthy("nats", "connected")
		}
		return health.NewUnhealthy("nats", client.Status().String())
	}
}

// startComponents creates, initializes and starts every enabled component.
// The returned slice holds the components that were started, in start order,
// even when an error is returned.
func startComponents(
	ctx context.Context,
	cfg *config.Config,
	registry *component.Registry,
	deps component.Dependencies,
	logger *slog.Logger,
) ([]namedComponent, error) {
	var started []namedComponent
	for _, name := range cfg.EnabledComponents() {
		cc := cfg.Components[name]
		comp, err := registry.CreateComponent(name, cc, deps)
		if err != nil {
			return started, fmt.Errorf("create component %s: %w", name, err)
		}

		lc, ok := component.AsLifecycleComponent(comp)
		if !ok {
			logger.Warn("Component has no lifecycle, skipping start", "component", name)
			continue
		}
		if err := lc.Initialize(); err != nil {
			return started, fmt.Errorf("initialize component %s: %w", name, err)
		}
		if err := lc.Start(ctx); err != nil {
			return started, fmt.Errorf("start component %s: %w", name, err)
		}
		started = append(started, namedComponent{name: name, lc: lc})
		logger.Info("Started component", "component", name, "factory", cc.Name)
	}
	return started, nil
}

type namedComponent struct {
	name string
	lc   component.LifecycleComponent
}

// stopComponents stops components in reverse start order, sharing one deadline
func stopComponents(started []namedComponent, timeout time.Duration, logger *slog.Logger) {
	deadline := time.Now().Add(timeout)
	for i := len(started) - 1; i >= 0; i-- {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			remaining = time.Millisecond
		}
		if err := started[i].lc.Stop(remaining); err != nil {
			logger.Error("Error stopping component", "component", started[i].name, "error", err)
			continue
		}
		logger.Info("Stopped component", "component", started[i].name)
	}
}
