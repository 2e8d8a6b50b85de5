// Package credential stores user names with bcrypt password hashes and verifies sign-in
// attempts against them.
package credential

import (
	"context"
	"errors"

	"gitlab.com/dirk.krummacker/contact-manager/internal/apperror"
	"gitlab.com/dirk.krummacker/contact-manager/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// Repository loads and saves the complete credential mapping.
type Repository interface {
	Load(ctx context.Context) (model.Credentials, error)
	Save(ctx context.Context, credentials model.Credentials) error
}

// Store implements the credential operations on top of a Repository.
type Store struct {
	repo Repository
	cost int
}

// NewStore creates a Store. A cost of 0 selects bcrypt.DefaultCost.
func NewStore(repo Repository, cost int) *Store {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Store{repo: repo, cost: cost}
}

// Load returns all credentials.
func (s *Store) Load(ctx context.Context) (model.Credentials, error) {
	return s.repo.Load(ctx)
}

// Save replaces all credentials.
func (s *Store) Save(ctx context.Context, credentials model.Credentials) error {
	return s.repo.Save(ctx, credentials)
}

// Hash returns a salted bcrypt hash of password.
func (s *Store) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches the stored hash of username. Unknown users do not
// match. A stored hash that bcrypt cannot parse is reported as a storage error.
func (s *Store) Verify(ctx context.Context, username, password string) (bool, error) {
	credentials, err := s.repo.Load(ctx)
	if err != nil {
		return false, err
	}
	hash, ok := credentials[username]
	if !ok {
		return false, nil
	}
	err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	}
	return false, apperror.Storage("verify", username, err)
}

// Exists reports whether a credential is stored for username.
func (s *Store) Exists(ctx context.Context, username string) (bool, error) {
	credentials, err := s.repo.Load(ctx)
	if err != nil {
		return false, err
	}
	_, ok := credentials[username]
	return ok, nil
}

// Register stores hash for username, replacing any previous credential of that user. Callers
// that must not overwrite accounts check Exists first.
func (s *Store) Register(ctx context.Context, username, hash string) error {
	credentials, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	credentials[username] = hash
	return s.repo.Save(ctx, credentials)
}
