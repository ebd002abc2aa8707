package ports

import (
	"context"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/domain"
)

// EarthquakeTrigger asks the backend to simulate an earthquake. The raw
// response body is returned for logging only.
type EarthquakeTrigger interface {
	TriggerEarthquake(ctx context.Context, req domain.EarthquakeRequest) ([]byte, error)
}
