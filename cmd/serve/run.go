package serve

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sig-0/countryfacts/refresh"
	"github.com/sig-0/countryfacts/schedule"
	"github.com/sig-0/countryfacts/server"
	"github.com/sig-0/countryfacts/storage"
	"github.com/sig-0/countryfacts/source/openerapi"
	"github.com/sig-0/countryfacts/source/restcountries"
)

// sourceTimeout caps every external dataset fetch
const sourceTimeout = time.Second * 30

// refreshJob adapts the refresher to a recurring scheduler job
type refreshJob struct {
	refresher *refresh.Refresher
	interval  time.Duration
}

func (j *refreshJob) Name() string {
	return "country-refresh"
}

func (j *refreshJob) Interval() time.Duration {
	return j.interval
}

func (j *refreshJob) Run(ctx context.Context) error {
	_, err := j.refresher.Refresh(ctx)

	return err
}

// run wires the source gateways, refresher, optional background
// scheduler and the HTTP server on top of the given store [BLOCKING]
func run(
	ctx context.Context,
	cfg *serveCfg,
	store storage.Storage,
	logger *slog.Logger,
) error {
	// Create the source gateways
	countries := restcountries.New(cfg.countriesURL, sourceTimeout)
	rates := openerapi.New(cfg.exchangeURL, sourceTimeout)

	// Create the refresh pipeline
	refresher := refresh.New(
		countries,
		rates,
		store,
		refresh.WithLogger(logger),
	)

	// Create the server instance
	s, err := server.New(
		store,
		refresher,
		server.WithLogger(logger),
		server.WithConfig(cfg.config),
	)
	if err != nil {
		return fmt.Errorf("unable to create server, %w", err)
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelFn()

	group, gCtx := errgroup.WithContext(runCtx)

	// Start the HTTP server
	group.Go(func() error {
		return s.Serve(gCtx)
	})

	// Start the background refresh scheduler, if enabled
	if cfg.refreshInterval > 0 {
		scheduler := schedule.New(schedule.WithLogger(logger))

		job := &refreshJob{
			refresher: refresher,
			interval:  cfg.refreshInterval,
		}

		if err := scheduler.Register(job); err != nil {
			return fmt.Errorf("unable to register refresh job: %w", err)
		}

		group.Go(func() error {
			return scheduler.Start(gCtx)
		})
	}

	return group.Wait()
}
