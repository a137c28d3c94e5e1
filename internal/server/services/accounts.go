// Package services contains server-side business logic. AccountService
// handles registration, the dual-mode login flow with lazy secret
// migration, and account administration.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"authcore/internal/common"
	"authcore/internal/logging"
	"authcore/internal/server/auth"
	"authcore/internal/server/models"
	"authcore/internal/server/repositories/accounts"
)

// LoginResult is what a successful login returns: a signed token and a
// sanitized view of the account.
type LoginResult struct {
	Token   string
	Account *models.Account
}

type AccountService struct {
	repo   accounts.Repository
	hasher *auth.Hasher
	codec  *auth.Codec
	logger logging.Logger
}

func NewAccountService(repo accounts.Repository, hasher *auth.Hasher, codec *auth.Codec, logger logging.Logger) *AccountService {
	return &AccountService{
		repo:   repo,
		hasher: hasher,
		codec:  codec,
		logger: logger.With("module", "account_service"),
	}
}

// Register creates an account with a hashed secret. New accounts never
// store plaintext; the legacy form exists only in pre-migration data.
func (s *AccountService) Register(ctx context.Context, email, password string, role models.Role) (*models.Account, error) {
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	hashed, err := s.hasher.Hash(ctx, password)
	if err != nil {
		s.logger.Error(ctx, "hashing failed during registration", "error", err.Error())
		return nil, common.ErrInternal
	}

	account := &models.Account{
		ID:     uuid.NewString(),
		Email:  models.NormalizeEmail(email),
		Secret: hashed,
		Role:   role,
	}

	account, err = s.repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return nil, common.ErrEmailTaken
		}
		s.logger.Error(ctx, "account creation failed", "error", err.Error())
		return nil, common.ErrInternal
	}

	return account.Sanitized(), nil
}

// Login verifies credentials and issues a token. The stored secret is
// classified structurally: bcrypt hashes verify through the hasher, legacy
// plaintext compares directly. A correct legacy login migrates the stored
// secret to its hashed form before the token is issued, so after any
// successful login the account is guaranteed to be in hashed form.
//
// Unknown email and wrong password return the identical
// common.ErrInvalidCredentials, so responses cannot enumerate accounts.
func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	account, err := s.repo.FindByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "account lookup failed during login", "error", err.Error())
		return nil, common.ErrInternal
	}

	if auth.LooksHashed(account.Secret) {
		if !s.hasher.Verify(ctx, password, account.Secret) {
			return nil, common.ErrInvalidCredentials
		}
	} else {
		// Legacy plaintext secret. A failed comparison must leave the
		// stored value untouched.
		if subtle.ConstantTimeCompare([]byte(password), []byte(account.Secret)) != 1 {
			return nil, common.ErrInvalidCredentials
		}
		if err := s.migrateSecret(ctx, account, password); err != nil {
			return nil, err
		}
	}

	token, err := s.codec.Issue(account)
	if err != nil {
		s.logger.Error(ctx, "token issuance failed", "error", err.Error())
		return nil, common.ErrInternal
	}

	s.logger.Info(ctx, "login succeeded", "account_id", account.ID)
	return &LoginResult{Token: token, Account: account.Sanitized()}, nil
}

// migrateSecret replaces a verified legacy secret with its hashed form.
// The write happens before the login completes; if it fails the login
// fails, keeping the after-login-means-hashed invariant intact.
func (s *AccountService) migrateSecret(ctx context.Context, account *models.Account, password string) error {
	hashed, err := s.hasher.Hash(ctx, password)
	if err != nil {
		s.logger.Error(ctx, "hashing failed during secret migration", "account_id", account.ID, "error", err.Error())
		return common.ErrInternal
	}

	if err := s.repo.UpdateSecret(ctx, account.ID, hashed); err != nil {
		s.logger.Error(ctx, "secret migration write failed", "account_id", account.ID, "error", err.Error())
		return common.ErrInternal
	}

	account.Secret = hashed
	s.logger.Info(ctx, "migrated legacy secret", "account_id", account.ID)
	return nil
}

// Get returns a sanitized account by id.
func (s *AccountService) Get(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		s.logger.Error(ctx, "account lookup failed", "error", err.Error())
		return nil, common.ErrInternal
	}
	return account.Sanitized(), nil
}

// List returns all accounts, sanitized.
func (s *AccountService) List(ctx context.Context) ([]*models.Account, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error(ctx, "account listing failed", "error", err.Error())
		return nil, common.ErrInternal
	}

	result := make([]*models.Account, 0, len(all))
	for _, a := range all {
		result = append(result, a.Sanitized())
	}
	return result, nil
}

// Delete removes an account. Outstanding tokens for it stay valid per
// signature but stop resolving, because resolution always re-reads the
// store.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		s.logger.Error(ctx, "account deletion failed", "error", err.Error())
		return common.ErrInternal
	}
	return nil
}
