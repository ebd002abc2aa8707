// Package mocks provides in-memory implementations of the port interfaces
// for tests.
package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/domain"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/ports"
)

// MockStatusFetcher implements ports.StatusFetcher.
type MockStatusFetcher struct {
	mu sync.RWMutex

	Statuses []domain.SafetyStatus

	// FetchError is wrapped in domain.ErrFetch when set.
	FetchError error

	// Release, when non-nil, holds every fetch until it is closed or the
	// caller's context ends.
	Release chan struct{}

	// Started receives a value each time a fetch begins, if non-nil.
	Started chan struct{}

	FetchCallCount int
}

var _ ports.StatusFetcher = (*MockStatusFetcher)(nil)

func NewMockStatusFetcher(statuses ...domain.SafetyStatus) *MockStatusFetcher {
	return &MockStatusFetcher{Statuses: statuses}
}

// Blocking returns a fetcher that waits for Unblock.
func NewBlockingStatusFetcher(statuses ...domain.SafetyStatus) *MockStatusFetcher {
	m := NewMockStatusFetcher(statuses...)
	m.Release = make(chan struct{})
	m.Started = make(chan struct{}, 16)
	return m
}

func (m *MockStatusFetcher) FetchStatuses(ctx context.Context) ([]domain.SafetyStatus, error) {
	m.mu.Lock()
	m.FetchCallCount++
	release, started := m.Release, m.Started
	m.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", domain.ErrFetch, ctx.Err())
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FetchError != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, m.FetchError)
	}
	out := make([]domain.SafetyStatus, len(m.Statuses))
	copy(out, m.Statuses)
	return out, nil
}

// Unblock lets every pending and future fetch proceed.
func (m *MockStatusFetcher) Unblock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Release != nil {
		close(m.Release)
		m.Release = nil
	}
}

func (m *MockStatusFetcher) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchError = err
}

func (m *MockStatusFetcher) GetFetchCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.FetchCallCount
}
