package middleware

import (
	"context"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/config"
)

// RevokedTokenPrefix prefixes the sha256 of a revoked token in Redis.
const RevokedTokenPrefix = "blacklist:"

// RevocationStore is the part of the Redis client the middleware needs.
type RevocationStore interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

type AuthMiddleware struct {
	publicKey *rsa.PublicKey
	revoked   RevocationStore
	cb        *gobreaker.CircuitBreaker
	logger    *zerolog.Logger
}

// NewAuthMiddleware verifies RS256 tokens against publicKey. revoked may be
// nil, in which case no revocation lookup is made.
func NewAuthMiddleware(publicKey *rsa.PublicKey, revoked RevocationStore, logger *zerolog.Logger) *AuthMiddleware {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &AuthMiddleware{
		publicKey: publicKey,
		revoked:   revoked,
		cb:        config.NewCircuitBreaker("Redis-Auth", logger),
		logger:    logger,
	}
}

type contextKey string

const (
	UserIDKey contextKey = "userID"
	RoleKey   contextKey = "role"
)

func (m *AuthMiddleware) RequireRole(roles []string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Debug().Msg("Missing Authorization header")
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.logger.Debug().Msg("Invalid Authorization header format")
			http.Error(w, "invalid authorization header", http.StatusUnauthorized)
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.publicKey, nil
		})
		if err != nil || !token.Valid {
			m.logger.Warn().Err(err).Msg("Token rejected")
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			http.Error(w, "invalid token claims", http.StatusUnauthorized)
			return
		}

		userID, ok := claims["sub"].(string)
		if !ok || userID == "" {
			m.logger.Warn().Interface("sub", claims["sub"]).Msg("Missing or invalid 'sub' claim")
			http.Error(w, "invalid token: missing user ID", http.StatusUnauthorized)
			return
		}

		userRole, ok := claims["role"].(string)
		if !ok || userRole == "" {
			m.logger.Warn().Interface("role", claims["role"]).Msg("Missing or invalid 'role' claim")
			http.Error(w, "invalid token: missing role", http.StatusUnauthorized)
			return
		}

		revoked, err := m.isRevoked(r.Context(), tokenString)
		if err != nil {
			m.logger.Error().Err(err).Msg("Revocation lookup failed")
			http.Error(w, "authorization temporarily unavailable", http.StatusServiceUnavailable)
			return
		}
		if revoked {
			m.logger.Warn().Str("user_id", userID).Msg("Revoked token presented")
			http.Error(w, "token revoked", http.StatusUnauthorized)
			return
		}

		allowedRoles := false
		for _, r := range roles {
			if userRole == r {
				allowedRoles = true
				break
			}
		}
		if !allowedRoles {
			m.logger.Warn().Strs("required", roles).Str("role", userRole).Msg("Role mismatch")
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		m.logger.Debug().Str("user_id", userID).Str("role", userRole).Msg("Token validated")

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		ctx = context.WithValue(ctx, RoleKey, userRole)

		next(w, r.WithContext(ctx))
	}
}

func (m *AuthMiddleware) isRevoked(ctx context.Context, token string) (bool, error) {
	if m.revoked == nil {
		return false, nil
	}

	result, err := m.cb.Execute(func() (interface{}, error) {
		return m.revoked.Exists(ctx, RevokedTokenKey(token)).Result()
	})
	if err != nil {
		return false, err
	}
	return result.(int64) > 0, nil
}

// RevokedTokenKey is the Redis key marking token as revoked.
func RevokedTokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return RevokedTokenPrefix + hex.EncodeToString(sum[:])
}
