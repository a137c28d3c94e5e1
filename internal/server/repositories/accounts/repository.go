// Package accounts persists identity records. The authentication core only
// ever reads accounts and requests targeted secret replacements; everything
// else here exists for account administration.
package accounts

import (
	"context"

	"authcore/internal/server/models"
)

// Repository is the account store contract consumed by the auth core.
// FindByEmail expects the email in normalized (lowercase) form.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)

	// UpdateSecret replaces the stored secret for the account. Used by the
	// login flow's write-through migration; racing migrations of the same
	// account are last-writer-wins, which is safe because both writers hold
	// equivalent hashes of the same password.
	UpdateSecret(ctx context.Context, id, newSecret string) error

	List(ctx context.Context) ([]*models.Account, error)
	Delete(ctx context.Context, id string) error
}
