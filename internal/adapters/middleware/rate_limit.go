package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimiter caps requests per client IP with an in-memory store.
type RateLimiter struct {
	limiter *limiter.Limiter
	logger  *zerolog.Logger
}

// NewRateLimiter takes a formatted rate such as "5-M" or "10-S".
func NewRateLimiter(rate string, logger *zerolog.Logger) (*RateLimiter, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &RateLimiter{
		limiter: limiter.New(memory.NewStore(), r),
		logger:  logger,
	}, nil
}

// Limit guards next. Requests over the limit go to rejected when it is set,
// otherwise they get a plain 429. The rate headers are set either way.
func (l *RateLimiter) Limit(next, rejected http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)

		ctx, err := l.limiter.Get(r.Context(), key)
		if err != nil {
			// the limiter is advisory; a store error lets the request through
			l.logger.Error().Err(err).Msg("Rate limiter lookup failed")
			next(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(ctx.Limit, 10))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(ctx.Remaining, 10))

		if ctx.Reached {
			retry := int(time.Until(time.Unix(ctx.Reset, 0)).Seconds())
			if retry < 0 {
				retry = 0
			}
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			l.logger.Warn().Str("client", key).Str("path", r.URL.Path).Msg("Rate limit reached")
			if rejected != nil {
				rejected(w, r)
				return
			}
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}

		next(w, r)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
