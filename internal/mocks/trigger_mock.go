package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/domain"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/ports"
)

// MockEarthquakeTrigger implements ports.EarthquakeTrigger and records
// every request it receives.
type MockEarthquakeTrigger struct {
	mu sync.RWMutex

	Requests     []domain.EarthquakeRequest
	Response     []byte
	TriggerError error
}

var _ ports.EarthquakeTrigger = (*MockEarthquakeTrigger)(nil)

func NewMockEarthquakeTrigger() *MockEarthquakeTrigger {
	return &MockEarthquakeTrigger{Response: []byte(`{"message":"ok"}`)}
}

func (m *MockEarthquakeTrigger) TriggerEarthquake(ctx context.Context, req domain.EarthquakeRequest) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, req)
	if m.TriggerError != nil {
		return nil, m.TriggerError
	}
	return m.Response, nil
}

func (m *MockEarthquakeTrigger) GetRequests() []domain.EarthquakeRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.EarthquakeRequest, len(m.Requests))
	copy(out, m.Requests)
	return out
}
