package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/config"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/domain"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/ports"
)

type SQLRepository struct {
	db *sql.DB
	cb *gobreaker.CircuitBreaker
}

// Ensure SQLRepository implements ports.UserDirectory
var _ ports.UserDirectory = (*SQLRepository)(nil)

func NewSQLRepository(db *sql.DB, logger *zerolog.Logger) *SQLRepository {
	return &SQLRepository{
		db: db,
		cb: config.NewCircuitBreaker("PostgreSQL", logger),
	}
}

func (r *SQLRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	result, err := r.cb.Execute(func() (interface{}, error) {
		return r.listUsers(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return result.([]domain.User), nil
}

func (r *SQLRepository) listUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, COALESCE(address, '') FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Address); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}
