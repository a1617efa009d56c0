package repository

import (
	"context"
	"database/sql"
	"errors"
)

// PreferenceRepo is the key-value table behind the preferences store.
type PreferenceRepo struct {
	db DBTX
}

func NewPreferenceRepo(db DBTX) *PreferenceRepo { return &PreferenceRepo{db: db} }

func (r *PreferenceRepo) Put(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO preferences(key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=CURRENT_TIMESTAMP;
	`, key, value)
	return err
}

// Get returns ErrNotFound when the key is absent.
func (r *PreferenceRepo) Get(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return v, err
}

func (r *PreferenceRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM preferences WHERE key = ?`, key)
	return err
}
