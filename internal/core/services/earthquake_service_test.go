package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/domain"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/services"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/mocks"
)

func TestEarthquakeService_Trigger(t *testing.T) {
	trigger := mocks.NewMockEarthquakeTrigger()
	svc := services.NewEarthquakeService(trigger, nil, nil)

	err := svc.Trigger(context.Background(), domain.EarthquakeRequest{Location: domain.LocationNiigata, Intensity: 7})
	require.NoError(t, err)

	reqs := trigger.GetRequests()
	require.Len(t, reqs, 1)
	assert.Equal(t, domain.EarthquakeRequest{Location: domain.LocationNiigata, Intensity: 7}, reqs[0])
}

func TestEarthquakeService_TriggerDefaults(t *testing.T) {
	trigger := mocks.NewMockEarthquakeTrigger()
	trigger.Response = []byte("not json")
	svc := services.NewEarthquakeService(trigger, nil, nil)

	require.NoError(t, svc.Trigger(context.Background(), domain.EarthquakeRequest{}))
	assert.Equal(t, domain.EarthquakeRequest{Location: domain.LocationTokyo, Intensity: 3}, trigger.GetRequests()[0])
}

func TestEarthquakeService_InvalidRequestNotSent(t *testing.T) {
	trigger := mocks.NewMockEarthquakeTrigger()
	svc := services.NewEarthquakeService(trigger, nil, nil)

	err := svc.Trigger(context.Background(), domain.EarthquakeRequest{Location: "osaka"})
	assert.ErrorIs(t, err, domain.ErrInvalidEarthquake)
	assert.Empty(t, trigger.GetRequests())
}

func TestEarthquakeService_BackendFailure(t *testing.T) {
	trigger := mocks.NewMockEarthquakeTrigger()
	trigger.TriggerError = errors.New("HTTP 503")
	svc := services.NewEarthquakeService(trigger, nil, nil)

	err := svc.Trigger(context.Background(), domain.EarthquakeRequest{})
	assert.ErrorIs(t, err, domain.ErrTrigger)
}
