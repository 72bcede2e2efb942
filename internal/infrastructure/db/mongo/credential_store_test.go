package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/salvaclients/vet-admin/internal/core/domain"
	"github.com/salvaclients/vet-admin/internal/pkg/tokeninfo"
)

var fixedNow = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

func newStore(mt *mtest.T) *CredentialStore {
	s := NewCredentialStore(mt.DB, 24*time.Hour)
	s.now = func() time.Time { return fixedNow }
	return s
}

func storedDoc(expiresAt time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: "sid-1"},
		{Key: "token", Value: "t1"},
		{Key: "user", Value: bson.D{
			{Key: "id", Value: int64(1)},
			{Key: "username", Value: "admin"},
			{Key: "role", Value: "ADMIN"},
		}},
		{Key: "expires_at", Value: expiresAt},
		{Key: "updated_at", Value: fixedNow},
	}
}

func TestCredentialStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := func(mt *mtest.T) string { return mt.DB.Name() + "." + sessionCollection }

	mt.Run("load returns stored session", func(mt *mtest.T) {
		s := newStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, storedDoc(fixedNow.Add(time.Hour))))

		got, err := s.Load(context.Background(), "sid-1")
		if err != nil {
			mt.Fatalf("load: %v", err)
		}
		if got.Token != "t1" || got.User.Username != "admin" || got.User.Role != domain.RoleAdmin {
			mt.Fatalf("unexpected session %+v", got)
		}
	})

	mt.Run("missing document is no session", func(mt *mtest.T) {
		s := newStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		if _, err := s.Load(context.Background(), "sid-1"); !errors.Is(err, domain.ErrNoSession) {
			mt.Fatalf("expected ErrNoSession, got %v", err)
		}
	})

	mt.Run("expired document is removed on load", func(mt *mtest.T) {
		s := newStore(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, storedDoc(fixedNow.Add(-time.Second))),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		if _, err := s.Load(context.Background(), "sid-1"); !errors.Is(err, domain.ErrNoSession) {
			mt.Fatalf("expected ErrNoSession, got %v", err)
		}
	})

	mt.Run("expired document that cannot be removed is an error", func(mt *mtest.T) {
		s := newStore(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, storedDoc(fixedNow)),
			mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "bad value"}),
		)

		_, err := s.Load(context.Background(), "sid-1")
		if err == nil || errors.Is(err, domain.ErrNoSession) {
			mt.Fatalf("expected the delete failure, got %v", err)
		}
	})

	mt.Run("save upserts", func(mt *mtest.T) {
		s := newStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		if err := s.Save(context.Background(), "sid-1", domain.Session{Token: "t1"}); err != nil {
			mt.Fatalf("save: %v", err)
		}
	})

	mt.Run("clear is idempotent", func(mt *mtest.T) {
		s := newStore(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		for i := 0; i < 2; i++ {
			if err := s.Clear(context.Background(), "sid-1"); err != nil {
				mt.Fatalf("clear #%d: %v", i+1, err)
			}
		}
	})
}

func TestNewDoc_ExpiryFollowsToken(t *testing.T) {
	s := &CredentialStore{fallbackTTL: 24 * time.Hour, now: func() time.Time { return fixedNow }}

	exp := fixedNow.Add(10 * time.Minute)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("backend"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	cases := []struct {
		name      string
		session   domain.Session
		expiresAt time.Time
		want      time.Time
	}{
		{"from token", domain.Session{Token: tok}, time.Time{}, exp},
		{"opaque token falls back", domain.Session{Token: "t1"}, time.Time{}, fixedNow.Add(24 * time.Hour)},
		{"explicit expiry wins", domain.Session{Token: "v1.sealed"}, fixedNow.Add(5 * time.Minute), fixedNow.Add(5 * time.Minute)},
		{"past expiry falls back", domain.Session{Token: "t1"}, fixedNow.Add(-time.Minute), fixedNow.Add(24 * time.Hour)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expiresAt := tc.expiresAt
			if expiresAt.IsZero() {
				expiresAt = tokeninfo.Expiry(tc.session.Token)
			}
			doc := s.newDoc("sid-1", tc.session, expiresAt)
			if !doc.ExpiresAt.Equal(tc.want) {
				t.Fatalf("expected expires_at %v, got %v", tc.want, doc.ExpiresAt)
			}
			if doc.SID != "sid-1" || !doc.UpdatedAt.Equal(fixedNow) {
				t.Fatalf("unexpected doc %+v", doc)
			}
		})
	}
}
