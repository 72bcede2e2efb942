package seal

import (
	"context"
	"time"

	"github.com/salvaclients/vet-admin/internal/core/domain"
	"github.com/salvaclients/vet-admin/internal/core/ports"
	"github.com/salvaclients/vet-admin/internal/pkg/tokeninfo"
)

// Store seals the token on its way into next and opens it on the way out.
// The user descriptor is stored as is.
type Store struct {
	next   ports.CredentialStore
	sealer *Sealer
}

var _ ports.ExpiringCredentialStore = (*Store)(nil)

func NewStore(next ports.CredentialStore, sealer *Sealer) *Store {
	return &Store{next: next, sealer: sealer}
}

// Save reads the expiry from the plain token before sealing it, so stores
// that expire records keep following the token's exp claim.
func (s *Store) Save(ctx context.Context, sid string, session domain.Session) error {
	return s.SaveUntil(ctx, sid, session, tokeninfo.Expiry(session.Token))
}

func (s *Store) SaveUntil(ctx context.Context, sid string, session domain.Session, expiresAt time.Time) error {
	sealed, err := s.sealer.Seal(session.Token)
	if err != nil {
		return err
	}
	stored := domain.Session{Token: sealed, User: session.User}
	if next, ok := s.next.(ports.ExpiringCredentialStore); ok {
		return next.SaveUntil(ctx, sid, stored, expiresAt)
	}
	return s.next.Save(ctx, sid, stored)
}

// Load treats a record that cannot be opened (rotated secret, tampering) as
// absent and removes it, which sends the user back to login.
func (s *Store) Load(ctx context.Context, sid string) (*domain.Session, error) {
	stored, err := s.next.Load(ctx, sid)
	if err != nil {
		return nil, err
	}
	token, err := s.sealer.Open(stored.Token)
	if err != nil {
		if clearErr := s.next.Clear(ctx, sid); clearErr != nil {
			return nil, clearErr
		}
		return nil, domain.ErrNoSession
	}
	return &domain.Session{Token: token, User: stored.User}, nil
}

func (s *Store) Clear(ctx context.Context, sid string) error {
	return s.next.Clear(ctx, sid)
}

// Ping forwards to the wrapped store when it can be pinged.
func (s *Store) Ping(ctx context.Context) error {
	if p, ok := s.next.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}
