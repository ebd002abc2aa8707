package repository

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/domain"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/ports"
)

//go:embed data/users.json
var embeddedUsers []byte

// StaticRepository serves a fixed user list decoded once at construction.
type StaticRepository struct {
	users []domain.User
}

var _ ports.UserDirectory = (*StaticRepository)(nil)

// NewEmbeddedRepository returns the user dataset shipped with the binary.
func NewEmbeddedRepository() (*StaticRepository, error) {
	return newStaticRepository(embeddedUsers, "embedded users")
}

// NewFileRepository reads a JSON array of users from path.
func NewFileRepository(path string) (*StaticRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading users file: %w", err)
	}
	return newStaticRepository(data, path)
}

func newStaticRepository(data []byte, source string) (*StaticRepository, error) {
	var users []domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", source, err)
	}
	for i, u := range users {
		if u.ID == "" {
			return nil, fmt.Errorf("decoding %s: user %d has no id", source, i)
		}
	}
	return &StaticRepository{users: users}, nil
}

func (r *StaticRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	out := make([]domain.User, len(r.users))
	copy(out, r.users)
	return out, nil
}
