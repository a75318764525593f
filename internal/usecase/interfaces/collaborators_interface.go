package interfaces

import (
	"cargo_quotes/internal/domain/entities"
	"context"
	"time"
)

// INotifier delivers user notifications. Callers treat delivery as best effort.
type INotifier interface {
	Notify(ctx context.Context, n entities.Notification) error
}

// IDocumentService renders a quotation document and returns where it is stored.
type IDocumentService interface {
	Generate(ctx context.Context, q entities.Quotation) (string, error)
}

// ISessionStore keeps revoked session ids until their tokens would expire anyway.
type ISessionStore interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// ITokenManager issues and verifies signed session tokens.
type ITokenManager interface {
	Issue(s entities.Session) (string, error)
	Parse(token string) (entities.Session, error)
}
