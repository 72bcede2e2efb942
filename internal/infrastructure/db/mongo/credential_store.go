package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/salvaclients/vet-admin/internal/core/domain"
	"github.com/salvaclients/vet-admin/internal/core/ports"
	"github.com/salvaclients/vet-admin/internal/pkg/tokeninfo"
)

const sessionCollection = "sessions"

var _ ports.ExpiringCredentialStore = (*CredentialStore)(nil)

// CredentialStore keeps one document per session id. A TTL index on
// expires_at lets MongoDB reap abandoned sessions; Load also checks the field
// because the reaper runs only once a minute.
type CredentialStore struct {
	coll        *mongo.Collection
	fallbackTTL time.Duration
	now         func() time.Time
}

func NewCredentialStore(db *mongo.Database, fallbackTTL time.Duration) *CredentialStore {
	return &CredentialStore{
		coll:        db.Collection(sessionCollection),
		fallbackTTL: fallbackTTL,
		now:         time.Now,
	}
}

type sessionDoc struct {
	SID       string      `bson:"_id"`
	Token     string      `bson:"token"`
	User      domain.User `bson:"user"`
	ExpiresAt time.Time   `bson:"expires_at"`
	UpdatedAt time.Time   `bson:"updated_at"`
}

// EnsureIndexes creates the expiry index. Safe to call on every start.
func (s *CredentialStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("create session ttl index: %w", err)
	}
	return nil
}

// Save keeps the record until the token's exp claim.
func (s *CredentialStore) Save(ctx context.Context, sid string, session domain.Session) error {
	return s.SaveUntil(ctx, sid, session, tokeninfo.Expiry(session.Token))
}

func (s *CredentialStore) SaveUntil(ctx context.Context, sid string, session domain.Session, expiresAt time.Time) error {
	doc := s.newDoc(sid, session, expiresAt)
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": sid}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *CredentialStore) newDoc(sid string, session domain.Session, expiresAt time.Time) sessionDoc {
	now := s.now().UTC()
	return sessionDoc{
		SID:       sid,
		Token:     session.Token,
		User:      session.User,
		ExpiresAt: now.Add(tokeninfo.Until(expiresAt, s.fallbackTTL, now)),
		UpdatedAt: now,
	}
}

func (s *CredentialStore) Load(ctx context.Context, sid string) (*domain.Session, error) {
	var doc sessionDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": sid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoSession
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	if !doc.ExpiresAt.IsZero() && !s.now().Before(doc.ExpiresAt) {
		if err := s.Clear(ctx, sid); err != nil {
			return nil, err
		}
		return nil, domain.ErrNoSession
	}

	return &domain.Session{Token: doc.Token, User: doc.User}, nil
}

func (s *CredentialStore) Clear(ctx context.Context, sid string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": sid}); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Ping reports store reachability for the readiness probe.
func (s *CredentialStore) Ping(ctx context.Context) error {
	return s.coll.Database().RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}
