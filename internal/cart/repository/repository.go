// Package repository persists estimate cart sessions.
package repository

import (
	"context"

	"github.com/google/uuid"

	"backoffice_backend/internal/cart/domain"
)

// SessionKey identifies one user's cart inside an organization.
type SessionKey struct {
	OrganizationID uuid.UUID
	UserID         uuid.UUID
}

// Store loads and saves cart sessions. Load reports false when no session
// exists or it has expired. Saves are last-write-wins per session.
type Store interface {
	Load(ctx context.Context, key SessionKey) (*domain.Cart, bool, error)
	Save(ctx context.Context, key SessionKey, cart *domain.Cart) error
	Delete(ctx context.Context, key SessionKey) error
}
