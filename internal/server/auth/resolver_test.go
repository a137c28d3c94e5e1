package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authcore/internal/common"
	"authcore/internal/server/models"
)

type fakeAccountSource struct {
	accounts map[string]*models.Account
	err      error
}

func (f *fakeAccountSource) FindByID(ctx context.Context, id string) (*models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	acc, ok := f.accounts[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return acc, nil
}

func newTestResolver(t *testing.T, src *fakeAccountSource, lifetime time.Duration) (*Resolver, *Codec) {
	t.Helper()
	codec, err := NewCodec("resolver-test-key", lifetime, newNopLogger())
	require.NoError(t, err)
	return NewResolver(codec, src, time.Second, newNopLogger()), codec
}

func TestResolver_Success(t *testing.T) {
	t.Parallel()

	acc := &models.Account{ID: "u1", Email: "a@b.com", Secret: "hash", Role: models.RoleUser}
	src := &fakeAccountSource{accounts: map[string]*models.Account{"u1": acc}}
	r, codec := newTestResolver(t, src, time.Hour)

	tok, err := codec.Issue(acc)
	require.NoError(t, err)

	id := r.Resolve(context.Background(), "Bearer "+tok)
	require.NotNil(t, id)
	assert.Equal(t, "u1", id.Account.ID)
	assert.Equal(t, "u1", id.Claims.ID)
	assert.Empty(t, id.Account.Secret, "resolved account must have the secret stripped")
}

func TestResolver_HeaderShapes(t *testing.T) {
	t.Parallel()

	acc := &models.Account{ID: "u1", Email: "a@b.com", Role: models.RoleUser}
	src := &fakeAccountSource{accounts: map[string]*models.Account{"u1": acc}}
	r, codec := newTestResolver(t, src, time.Hour)

	tok, err := codec.Issue(acc)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme word", header: "Token abc"},
		{name: "lowercase scheme", header: "bearer " + tok},
		{name: "scheme only", header: "Bearer"},
		{name: "scheme with trailing space", header: "Bearer "},
		{name: "three parts", header: "Bearer " + tok + " extra"},
		{name: "garbage token", header: "Bearer garbage"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Nil(t, r.Resolve(context.Background(), tc.header))
		})
	}
}

func TestResolver_ExpiredToken(t *testing.T) {
	t.Parallel()

	acc := &models.Account{ID: "u1", Email: "a@b.com", Role: models.RoleUser}
	src := &fakeAccountSource{accounts: map[string]*models.Account{"u1": acc}}
	r, codec := newTestResolver(t, src, -1*time.Second)

	tok, err := codec.Issue(acc)
	require.NoError(t, err)

	assert.Nil(t, r.Resolve(context.Background(), "Bearer "+tok))
}

func TestResolver_DeletedAccount(t *testing.T) {
	t.Parallel()

	// token is valid per signature, but the subject is gone
	acc := &models.Account{ID: "gone", Email: "x@y.com", Role: models.RoleUser}
	src := &fakeAccountSource{accounts: map[string]*models.Account{}}
	r, codec := newTestResolver(t, src, time.Hour)

	tok, err := codec.Issue(acc)
	require.NoError(t, err)

	assert.Nil(t, r.Resolve(context.Background(), "Bearer "+tok))
}

func TestResolver_LookupFaultCollapsesToNone(t *testing.T) {
	t.Parallel()

	acc := &models.Account{ID: "u1", Email: "a@b.com", Role: models.RoleUser}
	src := &fakeAccountSource{err: errors.New("connection refused")}
	r, codec := newTestResolver(t, src, time.Hour)

	tok, err := codec.Issue(acc)
	require.NoError(t, err)

	assert.Nil(t, r.Resolve(context.Background(), "Bearer "+tok))
}
