package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/roach88/talentflow/internal/config"
	"github.com/roach88/talentflow/internal/metrics"
	"github.com/roach88/talentflow/internal/optimistic"
	"github.com/roach88/talentflow/internal/service"
	"github.com/roach88/talentflow/internal/simulator"
	"github.com/roach88/talentflow/internal/store"
)

// app is the wired component graph behind one command invocation.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *store.Store
	svc      *service.Service
	ctrl     *optimistic.Controller
	registry *prometheus.Registry

	// notices collects rollback messages raised by the controller.
	notices []optimistic.Notice
}

// loadConfig reads the environment and applies explicit global flags on top.
func (o *RootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "configuration", err)
	}

	if o.changed("db") {
		cfg.DB = o.DB
	}
	if o.changed("seed") {
		cfg.Seed = o.Seed
	}
	if o.changed("error-rate") {
		cfg.ErrorRate = o.ErrorRate
		cfg.UpdateErrorRate = o.ErrorRate
		cfg.ReorderErrorRate = o.ErrorRate
	}
	if o.changed("metrics-file") {
		cfg.MetricsFile = o.MetricsFile
	}
	if o.Verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "configuration", err)
	}
	return cfg, nil
}

// open builds the store, simulator, service and controller from the
// configuration. Callers must Close the result.
func (o *RootOptions) open() (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Level())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to build logger", err)
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	m := metrics.New(a.registry)

	storeOpts := []store.Option{store.WithLogger(logger.Named("store"))}
	if cfg.Seed != 0 {
		storeOpts = append(storeOpts, store.WithSeed(cfg.Seed))
	}
	a.store, err = store.Open(cfg.DB, storeOpts...)
	if err != nil {
		_ = logger.Sync()
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	simOpts := []simulator.Option{
		simulator.WithDefaults(cfg.SimulatorOptions()),
		simulator.WithMetrics(m),
		simulator.WithLogger(logger.Named("simulator")),
	}
	if cfg.Seed != 0 {
		simOpts = append(simOpts, simulator.WithSeed(cfg.Seed))
	}
	if o.NoLatency {
		simOpts = append(simOpts, simulator.WithSleeper(simulator.NoopSleeper{}))
	}

	a.svc = service.New(a.store, simulator.New(simOpts...),
		service.WithErrorRates(cfg.ErrorRates()),
		service.WithLogger(logger.Named("service")))

	a.ctrl = optimistic.New(a.svc,
		optimistic.WithNotifier(func(n optimistic.Notice) {
			a.notices = append(a.notices, n)
		}),
		optimistic.WithMetrics(m),
		optimistic.WithLogger(logger.Named("optimistic")))

	logger.Debug("talentflow ready",
		zap.String("db", cfg.DB),
		zap.Uint64("seed", cfg.Seed),
		zap.Float64("error_rate", cfg.ErrorRate))
	return a, nil
}

// Close writes the metrics file when configured and closes the store.
func (a *app) Close() error {
	var firstErr error
	if a.cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(a.cfg.MetricsFile, a.registry); err != nil {
			a.logger.Warn("failed to write metrics", zap.String("path", a.cfg.MetricsFile), zap.Error(err))
			firstErr = WrapExitError(ExitCommandError, "failed to write metrics", err)
		}
	}
	if err := a.store.Close(); err != nil && firstErr == nil {
		firstErr = WrapExitError(ExitCommandError, "failed to close database", err)
	}
	_ = a.logger.Sync()
	return firstErr
}

// withApp opens the app, runs fn and closes it, keeping the first error.
func (o *RootOptions) withApp(fn func(ctx context.Context, a *app) error) (retErr error) {
	a, err := o.open()
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil && retErr == nil {
			retErr = err
		}
	}()
	return fn(context.Background(), a)
}
