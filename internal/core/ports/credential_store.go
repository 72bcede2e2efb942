package ports

import (
	"context"
	"time"

	"github.com/salvaclients/vet-admin/internal/core/domain"
)

// CredentialStore persists one session (token + user) per session id. A
// session id identifies a browser via its cookie, or a CLI profile.
type CredentialStore interface {
	// Save writes token and user as a single record, replacing any previous one.
	Save(ctx context.Context, sid string, session domain.Session) error
	// Load returns domain.ErrNoSession when nothing is stored under sid.
	Load(ctx context.Context, sid string) (*domain.Session, error)
	// Clear removes the record. Clearing an absent record is not an error.
	Clear(ctx context.Context, sid string) error
}

// ExpiringCredentialStore is a CredentialStore that drops records on its own.
// SaveUntil keeps the record until expiresAt; a zero expiresAt means the
// store's fallback lifetime. Wrappers that change the token before storing it
// use SaveUntil so the lifetime still follows the original token.
type ExpiringCredentialStore interface {
	CredentialStore
	SaveUntil(ctx context.Context, sid string, session domain.Session, expiresAt time.Time) error
}
