package ports

import (
	"context"

	"github.com/salvaclients/vet-admin/internal/core/domain"
)

// SessionService owns the login lifecycle of a session id.
type SessionService interface {
	// Current returns nil, nil for an anonymous session id.
	Current(ctx context.Context, sid string) (*domain.Session, error)
	Login(ctx context.Context, sid, username, password string) (*domain.Session, error)
	Logout(ctx context.Context, sid string) error
	HasAnyRole(ctx context.Context, sid string, roles ...domain.Role) bool
	ChangePassword(ctx context.Context, sid, currentPassword, newPassword, confirmPassword string) (string, error)
}
