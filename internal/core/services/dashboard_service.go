package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/domain"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/ports"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/metrics"
)

var ErrSessionNotFound = errors.New("dashboard session not found")

const sessionCleanupInterval = time.Minute

type DashboardService struct {
	fetcher  ports.StatusFetcher
	resolver *UserResolver
	sessions *gocache.Cache
	logger   *zerolog.Logger
	metrics  *metrics.Metrics
}

var _ ports.DashboardService = (*DashboardService)(nil)

// NewDashboardService keeps opened dashboards for sessionTTL. An expired
// or closed session is unmounted.
func NewDashboardService(
	fetcher ports.StatusFetcher,
	resolver *UserResolver,
	sessionTTL time.Duration,
	logger *zerolog.Logger,
	m *metrics.Metrics,
) *DashboardService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	s := &DashboardService{
		fetcher:  fetcher,
		resolver: resolver,
		sessions: gocache.New(sessionTTL, sessionCleanupInterval),
		logger:   logger,
		metrics:  m,
	}

	s.sessions.OnEvicted(func(id string, v interface{}) {
		if d, ok := v.(*Dashboard); ok {
			d.Unmount()
		}
		s.metrics.SetOpenSessions(s.sessions.ItemCount())
		s.logger.Debug().Str("dashboard_id", id).Msg("Dashboard session closed")
	})

	return s
}

// Snapshot mounts a dashboard for the lifetime of ctx, waits for the fetch
// and renders it. It never returns a Loading view unless ctx ends first.
func (s *DashboardService) Snapshot(ctx context.Context, query string) (domain.View, error) {
	d := NewDashboard(uuid.NewString(), s.fetcher, s.resolver, s.logger, s.metrics)
	if err := d.Mount(ctx); err != nil {
		return nil, err
	}
	defer d.Unmount()

	if err := d.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for dashboard: %w", err)
	}
	return d.View(query), nil
}

// Open mounts a dashboard that outlives the request and returns its id
// together with its first view, usually Loading.
func (s *DashboardService) Open(ctx context.Context) (string, domain.View, error) {
	id := uuid.NewString()
	d := NewDashboard(id, s.fetcher, s.resolver, s.logger, s.metrics)

	// The fetch belongs to the session, not to the request that opened it.
	if err := d.Mount(context.WithoutCancel(ctx)); err != nil {
		return "", nil, err
	}

	s.sessions.SetDefault(id, d)
	s.metrics.SetOpenSessions(s.sessions.ItemCount())
	s.logger.Debug().Str("dashboard_id", id).Msg("Dashboard session opened")

	return id, d.View(""), nil
}

func (s *DashboardService) View(id, query string) (domain.View, error) {
	d, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return d.View(query), nil
}

// Dashboard returns the mounted dashboard of a session.
func (s *DashboardService) Dashboard(id string) (*Dashboard, error) {
	return s.lookup(id)
}

func (s *DashboardService) Close(id string) error {
	if _, err := s.lookup(id); err != nil {
		return err
	}
	s.sessions.Delete(id)
	return nil
}

// Shutdown unmounts every open session.
func (s *DashboardService) Shutdown() {
	for id := range s.sessions.Items() {
		s.sessions.Delete(id)
	}
}

func (s *DashboardService) OpenSessions() int {
	return s.sessions.ItemCount()
}

func (s *DashboardService) lookup(id string) (*Dashboard, error) {
	v, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return v.(*Dashboard), nil
}
