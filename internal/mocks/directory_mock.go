package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/domain"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/ports"
)

// MockUserDirectory implements ports.UserDirectory.
type MockUserDirectory struct {
	mu sync.RWMutex

	Users     []domain.User
	ListError error

	ListCallCount int
}

var _ ports.UserDirectory = (*MockUserDirectory)(nil)

func NewMockUserDirectory(users ...domain.User) *MockUserDirectory {
	return &MockUserDirectory{Users: users}
}

func (m *MockUserDirectory) ListUsers(ctx context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListCallCount++
	if m.ListError != nil {
		return nil, m.ListError
	}
	out := make([]domain.User, len(m.Users))
	copy(out, m.Users)
	return out, nil
}
