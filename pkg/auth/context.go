package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const accountIDKey contextKey = "account_id"

// ErrAccountIDNotFound is returned when no account identity exists in the
// request context. Handlers should return 401 when this error occurs.
var ErrAccountIDNotFound = errors.New("account_id not found in context")

// AccountIDFromCtx extracts the authenticated account identity from the
// request context. Returns uuid.Nil and ErrAccountIDNotFound if no account is
// set (unauthenticated request).
func AccountIDFromCtx(ctx context.Context) (uuid.UUID, error) {
	accountID, ok := ctx.Value(accountIDKey).(uuid.UUID)
	if !ok || accountID == uuid.Nil {
		return uuid.Nil, ErrAccountIDNotFound
	}
	return accountID, nil
}

// WithAccountID returns a new context with the given account identity attached.
// Used by authentication middleware after validating the session.
func WithAccountID(ctx context.Context, accountID uuid.UUID) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}
