// Package models defines the persistent entities owned by the server.
package models

import (
	"strings"
	"time"
)

// Role is the authorization role attached to an account. There is no
// hierarchy: admin does not imply user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Account is an identity record. Secret holds either a legacy plaintext
// password or a bcrypt hash; the two are distinguished structurally by
// auth.LooksHashed, never by a separate column.
type Account struct {
	ID        string
	Email     string
	Secret    string
	Role      Role
	Verified  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Sanitized returns a copy of the account with the secret stripped.
// Anything handed to transport or request context must pass through here.
func (a *Account) Sanitized() *Account {
	if a == nil {
		return nil
	}
	c := *a
	c.Secret = ""
	return &c
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
// All repository email lookups expect the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
