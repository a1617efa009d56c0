package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jask/ruralcare/internal/logging"
	"github.com/jask/ruralcare/internal/session"
)

var ErrLoginFailed = errors.New("login failed")

// AuthService signs users in and remembers them between runs.
type AuthService interface {
	Login(ctx context.Context, creds session.Credentials, role session.Role) (session.User, error)
	Restore(ctx context.Context) (session.User, bool, error)
	Logout(ctx context.Context) error
}

// UserStore is where the signed-in user is cached.
type UserStore interface {
	SaveUser(ctx context.Context, u session.User) error
	LoadUser(ctx context.Context) (session.User, bool, error)
	ClearUser(ctx context.Context) error
}

// SimulatedAuth accepts any well-formed credentials after Delay and returns a canned user
// for the requested role. When PasswordHash is set the password must match it.
type SimulatedAuth struct {
	Delay        time.Duration
	Users        UserStore
	PasswordHash string
	Logger       zerolog.Logger
}

func (s *SimulatedAuth) Login(ctx context.Context, creds session.Credentials, role session.Role) (session.User, error) {
	if err := creds.Validate(); err != nil {
		return session.User{}, err
	}
	if !role.Valid() {
		return session.User{}, fmt.Errorf("%w: %v", ErrLoginFailed, session.ErrUnknownRole)
	}
	log := s.Logger.With().Str("role", role.String()).Str("phone", logging.MaskPhone(creds.Phone)).Logger()

	if err := sleepCtx(ctx, s.Delay); err != nil {
		log.Debug().Msg("login cancelled")
		return session.User{}, err
	}
	if s.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(creds.Password)); err != nil {
			log.Warn().Msg("login rejected")
			return session.User{}, ErrLoginFailed
		}
	}

	u := mockUser(role, creds.Phone)
	if s.Users != nil {
		if err := s.Users.SaveUser(ctx, u); err != nil {
			// the session still works for this run
			log.Error().Err(err).Msg("persist user")
		}
	}
	log.Info().Str("user", u.ID).Msg("signed in")
	return u, nil
}

func (s *SimulatedAuth) Restore(ctx context.Context) (session.User, bool, error) {
	if s.Users == nil {
		return session.User{}, false, nil
	}
	u, ok, err := s.Users.LoadUser(ctx)
	if err != nil || !ok {
		return session.User{}, false, err
	}
	if !u.RoleOf().Valid() {
		s.Logger.Warn().Str("role", u.Role).Msg("discarding stored user with unknown role")
		return session.User{}, false, s.Users.ClearUser(ctx)
	}
	s.Logger.Info().Str("user", u.ID).Msg("session restored")
	return u, true, nil
}

func (s *SimulatedAuth) Logout(ctx context.Context) error {
	s.Logger.Info().Msg("signed out")
	if s.Users == nil {
		return nil
	}
	return s.Users.ClearUser(ctx)
}

func mockUser(role session.Role, phone string) session.User {
	u := session.User{ID: uuid.NewString(), Phone: phone, Role: role.String(), Verified: true}
	switch role {
	case session.Patient:
		u.Name, u.Village = "Ram Kumar", "Nabha"
	case session.Doctor:
		u.Name, u.Specialization = "Dr. Simran Kaur", "General Medicine"
	case session.Admin:
		u.Name = "Admin"
	}
	return u
}

// HashPassword returns the bcrypt hash stored in auth.password_hash.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
