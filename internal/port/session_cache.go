package port

import (
	"context"
	"time"
)

// SessionCache is the shared set of administratively invalidated session ids,
// plus a presence key per active user. The liveness poller reads it on an
// interval; pushes are out of scope.
type SessionCache interface {
	// IsInvalidated reports whether an administrator revoked the user's session.
	IsInvalidated(ctx context.Context, userID string) (bool, error)

	// Invalidate marks a user's session as revoked (admin action).
	Invalidate(ctx context.Context, userID string) error

	// Reinstate clears a revocation so the user can sign in again.
	Reinstate(ctx context.Context, userID string) error

	// MarkActive refreshes the user's presence key with the given TTL.
	MarkActive(ctx context.Context, userID string, ttl time.Duration) error
}
