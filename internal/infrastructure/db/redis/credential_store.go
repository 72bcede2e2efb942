package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/salvaclients/vet-admin/internal/core/domain"
	"github.com/salvaclients/vet-admin/internal/core/ports"
	"github.com/salvaclients/vet-admin/internal/pkg/tokeninfo"
)

// Key format: vetadmin:session:<sid>
const keyPrefix = "vetadmin:session:"

// CredentialStore keeps each session as one JSON value so token and user are
// always written and deleted together.
type CredentialStore struct {
	client      *redis.Client
	fallbackTTL time.Duration
	now         func() time.Time
}

var _ ports.ExpiringCredentialStore = (*CredentialStore)(nil)

// NewCredentialStore wraps client. fallbackTTL applies to tokens whose expiry
// cannot be read.
func NewCredentialStore(client *redis.Client, fallbackTTL time.Duration) *CredentialStore {
	return &CredentialStore{client: client, fallbackTTL: fallbackTTL, now: time.Now}
}

// Save keeps the record until the token's exp claim.
func (s *CredentialStore) Save(ctx context.Context, sid string, session domain.Session) error {
	return s.SaveUntil(ctx, sid, session, tokeninfo.Expiry(session.Token))
}

func (s *CredentialStore) SaveUntil(ctx context.Context, sid string, session domain.Session, expiresAt time.Time) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	ttl := tokeninfo.Until(expiresAt, s.fallbackTTL, s.now())
	if err := s.client.Set(ctx, s.key(sid), data, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *CredentialStore) Load(ctx context.Context, sid string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, s.key(sid)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNoSession
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (s *CredentialStore) Clear(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, s.key(sid)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Ping reports store reachability for the readiness probe.
func (s *CredentialStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *CredentialStore) key(sid string) string {
	return keyPrefix + sid
}
