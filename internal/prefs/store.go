// Package prefs persists the two preferences that outlive a run: the signed-in user and the UI language.
// Each key has its own lifecycle; signing out clears the user and keeps the language.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jask/ruralcare/internal/database/repository"
	"github.com/jask/ruralcare/internal/secrets"
	"github.com/jask/ruralcare/internal/session"
)

const (
	KeyUser     = "session.user"
	KeyLanguage = "ui.language"
)

// KV is the storage the preferences live in.
type KV interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

type Store struct {
	KV     KV
	Sealer *secrets.Sealer
}

func New(kv KV, sealer *secrets.Sealer) *Store {
	return &Store{KV: kv, Sealer: sealer}
}

func (s *Store) SaveUser(ctx context.Context, u session.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if s.Sealer != nil {
		if data, err = s.Sealer.Seal(KeyUser, data); err != nil {
			return fmt.Errorf("seal user: %w", err)
		}
	}
	return s.KV.Put(ctx, KeyUser, data)
}

// LoadUser returns ok=false when no user is stored. A blob that no longer opens is discarded.
func (s *Store) LoadUser(ctx context.Context) (session.User, bool, error) {
	data, err := s.KV.Get(ctx, KeyUser)
	if errors.Is(err, repository.ErrNotFound) {
		return session.User{}, false, nil
	}
	if err != nil {
		return session.User{}, false, err
	}
	if s.Sealer != nil {
		if data, err = s.Sealer.Open(KeyUser, data); err != nil {
			_ = s.KV.Delete(ctx, KeyUser)
			return session.User{}, false, nil
		}
	}
	var u session.User
	if err := json.Unmarshal(data, &u); err != nil {
		_ = s.KV.Delete(ctx, KeyUser)
		return session.User{}, false, nil
	}
	return u, true, nil
}

func (s *Store) ClearUser(ctx context.Context) error {
	return s.KV.Delete(ctx, KeyUser)
}

func (s *Store) SaveLanguage(ctx context.Context, code string) error {
	return s.KV.Put(ctx, KeyLanguage, []byte(code))
}

// LoadLanguage returns fallback when nothing is stored.
func (s *Store) LoadLanguage(ctx context.Context, fallback string) (string, error) {
	data, err := s.KV.Get(ctx, KeyLanguage)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && len(data) == 0) {
		return fallback, nil
	}
	if err != nil {
		return fallback, err
	}
	return string(data), nil
}
