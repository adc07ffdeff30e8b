package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/shopcart-backend/api/responses"
	"github.com/angelmondragon/shopcart-backend/internal/users"
	pkgerrors "github.com/angelmondragon/shopcart-backend/pkg/errors"
	"github.com/angelmondragon/shopcart-backend/pkg/logger"
)

const maxRateLimitBody = 1 << 16

type fixedWindowStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// AuthRateLimitPolicy throttles one auth endpoint by client IP and by the
// email in the JSON body. A zero limit disables that counter.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auth"
	}
	return AuthRateLimitPolicy{name: name, window: window, ipLimit: ipLimit, emailLimit: emailLimit}
}

// rateCounter is one fixed window the request is charged against. value
// returns "" when the request carries nothing to count.
type rateCounter struct {
	kind  string
	limit int
	value func(r *http.Request, body []byte) string
}

func (p AuthRateLimitPolicy) counters() []rateCounter {
	if p.window <= 0 {
		return nil
	}
	var out []rateCounter
	if p.ipLimit > 0 {
		out = append(out, rateCounter{kind: "ip", limit: p.ipLimit, value: func(r *http.Request, _ []byte) string {
			return clientIP(r)
		}})
	}
	if p.emailLimit > 0 {
		out = append(out, rateCounter{kind: "email", limit: p.emailLimit, value: func(_ *http.Request, body []byte) string {
			if email := users.NormalizeEmail(extractEmail(body)); email != "" {
				return hashValue(email)
			}
			return ""
		}})
	}
	return out
}

// AuthRateLimit charges every configured counter and answers 429 with
// Retry-After once any of them is over its limit. Client IPs come from
// RemoteAddr; put chi's RealIP in front when running behind a proxy.
func AuthRateLimit(policy AuthRateLimitPolicy, store fixedWindowStore, logg *logger.Logger) func(http.Handler) http.Handler {
	counters := policy.counters()
	return func(next http.Handler) http.Handler {
		if len(counters) == 0 || store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			body, err := io.ReadAll(io.LimitReader(r.Body, maxRateLimitBody))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			for _, c := range counters {
				value := c.value(r, body)
				if value == "" {
					continue
				}
				allowed, count, err := store.FixedWindowAllow(ctx, policy.name+":"+c.kind+":"+value, int64(c.limit), policy.window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if !allowed {
					if logg != nil {
						logg.Warn(logg.WithFields(ctx, map[string]any{
							"policy":   policy.name,
							"counter":  c.kind,
							"attempts": count,
							"limit":    c.limit,
						}), "auth.rate_limit.blocked")
					}
					w.Header().Set("Retry-After", strconv.Itoa(max(int(policy.window.Seconds()), 1)))
					responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}

func extractEmail(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return body.Email
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
