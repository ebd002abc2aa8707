package ports

import (
	"context"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/domain"
)

// UserDirectory provides the reference list of users. It is read once at
// startup.
type UserDirectory interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// StatusFetcher retrieves the current safety reports. Every failure must
// wrap domain.ErrFetch.
type StatusFetcher interface {
	FetchStatuses(ctx context.Context) ([]domain.SafetyStatus, error)
}
