package auth

import (
	"context"
	"time"

	"scheduleandpay/internal/domain"
)

// IdentityProvider runs the authorization-code exchange with a third party.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*domain.Identity, error)
}

type TokenIssuer interface {
	GenerateToken(user domain.Identity) (string, error)
	TTL() time.Duration
}
