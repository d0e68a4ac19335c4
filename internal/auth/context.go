package auth

import (
	"context"

	"github.com/google/uuid"
)

type claimsKey struct{}

// ContextWithClaims stores the authenticated lender for downstream handlers.
func ContextWithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

func ContextWithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return ContextWithClaims(ctx, &Claims{UserID: id})
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}

// UserIDFromContext returns the lender every query is scoped to.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	c, ok := ClaimsFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return c.UserID, true
}
