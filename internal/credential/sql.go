package credential

import (
	"context"
	"sort"

	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/contact-manager/internal/apperror"
	"gitlab.com/dirk.krummacker/contact-manager/internal/model"
)

// credentialRow is one row of the credentials table.
type credentialRow struct {
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
}

// SQLRepository keeps credentials in the credentials table of a MySQL database.
type SQLRepository struct {
	db *sqlx.DB
}

// NewSQLRepository creates a SQLRepository. The database argument can be a real database for
// production use or a mock database within unit tests.
func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// Load selects all credentials.
func (r *SQLRepository) Load(ctx context.Context) (model.Credentials, error) {
	var rows []credentialRow
	err := r.db.SelectContext(ctx, &rows, `SELECT username, password_hash FROM credentials`)
	if err != nil {
		return nil, apperror.Storage("load", "credentials", err)
	}
	credentials := make(model.Credentials, len(rows))
	for _, row := range rows {
		credentials[row.Username] = row.PasswordHash
	}
	return credentials, nil
}

// Save replaces the content of the credentials table within one transaction. Rows are inserted
// in user name order.
func (r *SQLRepository) Save(ctx context.Context, credentials model.Credentials) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperror.Storage("save", "credentials", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM credentials`); err != nil {
		return apperror.Storage("save", "credentials", err)
	}
	usernames := make([]string, 0, len(credentials))
	for username := range credentials {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)
	for _, username := range usernames {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO credentials (username, password_hash) VALUES (?, ?)`,
			username, credentials[username])
		if err != nil {
			return apperror.Storage("save", "credentials", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return apperror.Storage("save", "credentials", err)
	}
	return nil
}
