package contact

import (
	"context"
	"sort"

	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/contact-manager/internal/apperror"
	"gitlab.com/dirk.krummacker/contact-manager/internal/model"
)

// SQLRepository keeps contacts in the contacts table of a MySQL database, keyed by user name
// and id.
type SQLRepository struct {
	db *sqlx.DB
}

// NewSQLRepository creates a SQLRepository. The database argument can be a real database for
// production use or a mock database within unit tests.
func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// Init does nothing: all users share the contacts table, so an empty contact book is simply
// the absence of rows.
func (r *SQLRepository) Init(context.Context, string) error {
	return nil
}

// Load selects the contacts of user.
func (r *SQLRepository) Load(ctx context.Context, user string) (model.Contacts, error) {
	var rows []model.Contact
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, first, last, email, phone
		FROM contacts
		WHERE username = ?`, user)
	if err != nil {
		return nil, apperror.Storage("load", "contacts/"+user, err)
	}
	contacts := make(model.Contacts, len(rows))
	for _, row := range rows {
		contacts[row.Id] = row
	}
	return contacts, nil
}

// Save replaces the contacts of user within one transaction. Rows are inserted in id order.
func (r *SQLRepository) Save(ctx context.Context, user string, contacts model.Contacts) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperror.Storage("save", "contacts/"+user, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM contacts WHERE username = ?`, user); err != nil {
		return apperror.Storage("save", "contacts/"+user, err)
	}
	ids := make([]int64, 0, len(contacts))
	for id := range contacts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		c := contacts[id]
		_, err := tx.ExecContext(ctx, `
			INSERT INTO contacts (username, id, first, last, email, phone)
			VALUES (?, ?, ?, ?, ?, ?)`,
			user, id, c.First, c.Last, c.Email, c.Phone)
		if err != nil {
			return apperror.Storage("save", "contacts/"+user, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return apperror.Storage("save", "contacts/"+user, err)
	}
	return nil
}
