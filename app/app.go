package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apipreview "github.com/kilianp07/conflow/api/preview"
	"github.com/kilianp07/conflow/config"
	"github.com/kilianp07/conflow/core/distribution"
	coremetrics "github.com/kilianp07/conflow/core/metrics"
	"github.com/kilianp07/conflow/core/schedule"
	"github.com/kilianp07/conflow/infra/logger"
	"github.com/kilianp07/conflow/infra/metrics"
	"github.com/kilianp07/conflow/infra/mqtt"
	"github.com/kilianp07/conflow/infra/store"
	"github.com/kilianp07/conflow/internal/eventbus"
)

// App owns the runtime dependencies built from the configuration: the store,
// the event bus with its metrics and MQTT consumers, and the preview Service.
type App struct {
	Service *Service

	cfg       *config.Config
	bus       *eventbus.TypedBus[coremetrics.Event]
	publisher *mqtt.PahoPublisher
	sink      coremetrics.MetricsSink
	// consumers are closed once the bus consumers have drained.
	consumers []<-chan struct{}
	closers   []func() error
	log       logger.Logger
}

// New builds an App. Background consumers stop when ctx is canceled.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	log := logger.New("service")
	a := &App{cfg: cfg, log: log, bus: eventbus.NewTyped[coremetrics.Event]()}

	repo, dists, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	a.sink = sink
	a.consumers = append(a.consumers, metrics.StartEventCollector(ctx, a.bus, sink, logger.New("metrics")))

	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		a.publisher = pub
		a.consumers = append(a.consumers, mqtt.StartPreviewPublisher(ctx, a.bus, pub, logger.New("mqtt")))
	}

	props, err := cfg.Scenario.Properties()
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Service = NewService(repo, dists, props, a.bus, log)
	return a, nil
}

func (a *App) openStore(ctx context.Context) (schedule.Repository, distribution.Store, error) {
	if a.cfg.Store.Backend == store.BackendMemory {
		return schedule.NewMemoryRepository(), distribution.NewMemoryStore(), nil
	}
	s, err := store.Open(ctx, a.cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	a.closers = append(a.closers, s.Close)
	a.log.Infof("using %s store", a.cfg.Store.Backend)
	return s, s, nil
}

// Persistent reports whether changes to schedules and distributions outlive
// the process.
func (a *App) Persistent() bool {
	return a.cfg.Store.Backend != store.BackendMemory
}

// Serve runs the HTTP API, and the Prometheus endpoint if configured, until
// ctx is canceled.
func (a *App) Serve(ctx context.Context) error {
	if addr := a.cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				a.log.Errorf("prom server: %v", err)
			}
		}()
	}

	router := apipreview.NewHandler(a.Service, logger.New("api")).Routes()
	router.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: a.cfg.Server.Addr, Handler: router, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.log.Errorf("http shutdown: %v", err)
		}
	}()
	a.log.Infof("serving preview API on %s", a.cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close closes the event bus, waits for the metrics and MQTT consumers to
// handle the events already published, then releases the publisher, the sinks
// and the store.
func (a *App) Close() error {
	a.bus.Close()
	for _, done := range a.consumers {
		<-done
	}
	if a.publisher != nil {
		a.publisher.Disconnect()
	}
	closeSink(a.sink)
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// closeSink closes sinks holding a client, such as the Influx sink.
func closeSink(s coremetrics.MetricsSink) {
	switch c := s.(type) {
	case *coremetrics.MultiSink:
		for _, inner := range c.Sinks {
			closeSink(inner)
		}
	case interface{ Close() }:
		c.Close()
	}
}
