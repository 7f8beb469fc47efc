// Package models defines the accounts, tasks and documents the stores keep,
// the typed partial-update payloads, and the task filter criteria.
package models

import "strings"

// Role grants access. Admins see every task; users see the ones assigned to them.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleUser }

// ParseRole accepts "admin" or "user" in any case.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Account is the secret-free view of a registered identity. It is the only
// account shape handed to callers.
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

func (a Account) IsAdmin() bool { return a.Role == RoleAdmin }

// StoredAccount is the persisted form under the "users" key.
type StoredAccount struct {
	Account
	Password string `json:"password"`
}

// NewAccount is the input of User Directory creation.
type NewAccount struct {
	Email    string
	Name     string
	Role     Role
	Password string
}

// AccountPatch is a partial account update. A nil field keeps the prior value.
type AccountPatch struct {
	Email *string
	Name  *string
	Role  *Role
}

// Apply merges p into a and returns the result.
func (p AccountPatch) Apply(a Account) Account {
	if p.Email != nil {
		a.Email = *p.Email
	}
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Role != nil {
		a.Role = *p.Role
	}
	return a
}
