package redis

import "strings"

// DefaultKeyPrefix namespaces every key the API writes.
const DefaultKeyPrefix = "sc"

const (
	idempotencyPrefix = "idempotency"
	rateLimitPrefix   = "rate_limit"
	sessionPrefix     = "session"
)

// Keyspace builds namespaced keys. The zero value uses DefaultKeyPrefix.
type Keyspace struct {
	Prefix string
}

// IdempotencyKey scopes a client-supplied Idempotency-Key to a user and route.
func (k Keyspace) IdempotencyKey(scope, id string) string {
	return k.build(idempotencyPrefix, scope, id)
}

// RateLimitKey names the counter of one fixed window scope.
func (k Keyspace) RateLimitKey(scope string) string {
	return k.build(rateLimitPrefix, scope)
}

// AccessSessionKey names the session record tied to an access token jti.
func (k Keyspace) AccessSessionKey(accessID string) string {
	return k.build(sessionPrefix, "access", accessID)
}

func (k Keyspace) build(parts ...string) string {
	prefix := strings.TrimSpace(k.Prefix)
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	clean := []string{prefix}
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			clean = append(clean, part)
		}
	}
	return strings.Join(clean, ":")
}
