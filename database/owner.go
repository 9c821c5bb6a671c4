package database

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// EnsureOwner upserts the admin account used to reach the owner API. Called
// at boot when credentials are configured, so a fresh deployment is usable
// without manual SQL.
func (s *Store) EnsureOwner(ctx context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "db.ensure_owner.hash")
	}

	_, err = s.ExecContext(ctx, `
		INSERT INTO owner (username, password_hash) VALUES (?, ?)
		ON CONFLICT (username) DO UPDATE SET password_hash = excluded.password_hash`,
		username,
		hash,
	)
	return errors.Wrap(err, "db.ensure_owner")
}
