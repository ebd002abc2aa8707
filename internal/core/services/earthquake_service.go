package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/domain"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/ports"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/metrics"
)

// EarthquakeService forwards the simulator's trigger to the backend. The
// backend's reply is logged and otherwise ignored.
type EarthquakeService struct {
	trigger ports.EarthquakeTrigger
	logger  *zerolog.Logger
	metrics *metrics.Metrics
}

var _ ports.EarthquakeService = (*EarthquakeService)(nil)

func NewEarthquakeService(trigger ports.EarthquakeTrigger, logger *zerolog.Logger, m *metrics.Metrics) *EarthquakeService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &EarthquakeService{trigger: trigger, logger: logger, metrics: m}
}

func (s *EarthquakeService) Trigger(ctx context.Context, req domain.EarthquakeRequest) error {
	req, err := req.Normalize()
	if err != nil {
		return err
	}

	body, err := s.trigger.TriggerEarthquake(ctx, req)
	s.metrics.RecordTrigger(err)
	if err != nil {
		s.logger.Error().Err(err).
			Str("location", string(req.Location)).
			Int("intensity", req.Intensity).
			Msg("Earthquake trigger failed")
		return fmt.Errorf("%w: %v", domain.ErrTrigger, err)
	}

	s.logger.Info().
		Str("location", string(req.Location)).
		Int("intensity", req.Intensity).
		RawJSON("response", jsonOrString(body)).
		Msg("Earthquake triggered")
	return nil
}

// jsonOrString keeps a JSON reply as is and quotes anything else so the
// log line stays valid JSON.
func jsonOrString(body []byte) []byte {
	if len(body) == 0 {
		return []byte("null")
	}
	if json.Valid(body) {
		return body
	}
	quoted, _ := json.Marshal(string(body))
	return quoted
}
