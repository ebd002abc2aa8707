package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/domain"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/ports"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/metrics"
)

var ErrAlreadyMounted = errors.New("dashboard already mounted")

type phase int

const (
	phaseIdle phase = iota
	phaseLoading
	phaseReady
	phaseFailed
)

// Dashboard is a single mount: it fetches the reports once and then serves
// views of the result. The state moves idle -> loading -> ready|failed and
// never goes back; a fresh fetch needs a new Dashboard.
type Dashboard struct {
	id       string
	fetcher  ports.StatusFetcher
	resolver *UserResolver
	logger   *zerolog.Logger
	metrics  *metrics.Metrics

	mu         sync.Mutex
	phase      phase
	generation uint64
	unmounted  bool
	cancel     context.CancelFunc
	entries    []domain.Entry
	settled    chan struct{}
}

func NewDashboard(
	id string,
	fetcher ports.StatusFetcher,
	resolver *UserResolver,
	logger *zerolog.Logger,
	m *metrics.Metrics,
) *Dashboard {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Dashboard{
		id:       id,
		fetcher:  fetcher,
		resolver: resolver,
		logger:   logger,
		metrics:  m,
		settled:  make(chan struct{}),
	}
}

func (d *Dashboard) ID() string {
	return d.id
}

// Mount enters the loading state and starts the fetch in the background.
// It can be called once.
func (d *Dashboard) Mount(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.phase != phaseIdle || d.unmounted {
		return ErrAlreadyMounted
	}

	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.phase = phaseLoading
	d.generation++

	go d.load(ctx, d.generation)
	return nil
}

func (d *Dashboard) load(ctx context.Context, generation uint64) {
	start := time.Now()
	reports, err := d.fetcher.FetchStatuses(ctx)
	if err != nil && ctx.Err() != nil {
		d.metrics.RecordFetchCancelled(time.Since(start))
	} else {
		d.metrics.RecordFetch(err, time.Since(start))
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if generation != d.generation || d.unmounted {
		d.logger.Debug().Str("dashboard_id", d.id).Msg("Discarding response for unmounted dashboard")
		return
	}

	if err != nil {
		d.logger.Error().Err(err).Str("dashboard_id", d.id).Msg("Failed to fetch safety statuses")
		d.phase = phaseFailed
	} else {
		d.entries = d.resolver.Join(reports)
		d.phase = phaseReady
		d.logger.Debug().
			Str("dashboard_id", d.id).
			Int("reports", len(reports)).
			Int("unresolved", CountUnresolved(d.entries)).
			Msg("Safety statuses loaded")
	}
	close(d.settled)
}

// Wait blocks until the fetch has settled, the dashboard is unmounted or
// ctx is done.
func (d *Dashboard) Wait(ctx context.Context) error {
	select {
	case <-d.settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unmount cancels an outstanding fetch. A response arriving afterwards is
// dropped. Calling it more than once is harmless.
func (d *Dashboard) Unmount() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.unmounted {
		return
	}
	d.unmounted = true
	d.generation++
	if d.cancel != nil {
		d.cancel()
	}
	if d.phase == phaseLoading {
		// load will not settle a discarded fetch; release waiters here.
		close(d.settled)
	}
}

// View renders the current state filtered by query.
func (d *Dashboard) View(query string) domain.View {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.phase {
	case phaseReady:
		return BuildView(d.entries, query)
	case phaseFailed:
		return domain.Failed{Message: domain.FetchFailedMessage}
	default:
		return domain.Loading{}
	}
}
