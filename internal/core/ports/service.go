package ports

import (
	"context"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/domain"
)

type DashboardService interface {
	Snapshot(ctx context.Context, query string) (domain.View, error)
	Open(ctx context.Context) (string, domain.View, error)
	View(id, query string) (domain.View, error)
	Close(id string) error
}

type EarthquakeService interface {
	Trigger(ctx context.Context, req domain.EarthquakeRequest) error
}
