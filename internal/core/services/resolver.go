package services

import (
	"context"
	"fmt"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/domain"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/ports"
)

// UserResolver maps user ids to the loaded users. It is immutable once
// built and safe for concurrent use.
type UserResolver struct {
	byID map[string]domain.User
}

func NewUserResolver(users []domain.User) (*UserResolver, error) {
	byID := make(map[string]domain.User, len(users))
	for _, u := range users {
		if _, exists := byID[u.ID]; exists {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateUser, u.ID)
		}
		byID[u.ID] = u
	}
	return &UserResolver{byID: byID}, nil
}

// LoadResolver reads the directory once and indexes it.
func LoadResolver(ctx context.Context, directory ports.UserDirectory) (*UserResolver, error) {
	users, err := directory.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	return NewUserResolver(users)
}

// Resolve reports false when no user has the id. That is an expected
// outcome, not an error.
func (r *UserResolver) Resolve(userID string) (domain.User, bool) {
	u, ok := r.byID[userID]
	return u, ok
}

func (r *UserResolver) Len() int {
	return len(r.byID)
}

// Join pairs every report with its user, keeping input order. Unresolved
// reports get a nil User.
func (r *UserResolver) Join(reports []domain.SafetyStatus) []domain.Entry {
	entries := make([]domain.Entry, 0, len(reports))
	for _, report := range reports {
		entry := domain.Entry{Report: report}
		if u, ok := r.Resolve(report.UserID); ok {
			entry.User = &u
		}
		entries = append(entries, entry)
	}
	return entries
}
