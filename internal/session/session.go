// Package session models who is signed in.
package session

import (
	"errors"
	"strings"
)

// Role is the tagged variant of the signed-in party. The zero value is Anonymous.
type Role int

const (
	Anonymous Role = iota
	Patient
	Doctor
	Admin
)

var ErrUnknownRole = errors.New("unknown role")

func (r Role) String() string {
	switch r {
	case Patient:
		return "patient"
	case Doctor:
		return "doctor"
	case Admin:
		return "admin"
	default:
		return "none"
	}
}

// Valid reports whether r is a role someone can sign in as.
func (r Role) Valid() bool {
	return r == Patient || r == Doctor || r == Admin
}

// ParseRole accepts the names produced by String.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "patient":
		return Patient, nil
	case "doctor":
		return Doctor, nil
	case "admin":
		return Admin, nil
	case "", "none":
		return Anonymous, nil
	}
	return Anonymous, ErrUnknownRole
}

// User is the record returned by the auth service and cached between runs.
type User struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Role           string `json:"role"`
	Village        string `json:"village,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	Verified       bool   `json:"verified"`
}

// RoleOf parses the stored role name; unknown names map to Anonymous.
func (u User) RoleOf() Role {
	r, err := ParseRole(u.Role)
	if err != nil {
		return Anonymous
	}
	return r
}

// Session is the explicit session object passed to screens.
type Session struct {
	Role Role
	User *User
}

func (s Session) SignedIn() bool { return s.Role != Anonymous }

// Start opens a session for u.
func Start(u User) (Session, error) {
	role := u.RoleOf()
	if !role.Valid() {
		return Session{}, ErrUnknownRole
	}
	return Session{Role: role, User: &u}, nil
}
