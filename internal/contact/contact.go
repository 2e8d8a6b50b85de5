// Package contact manages the contact book of each signed-in user.
package contact

import (
	"context"
	"errors"
	"sort"
	"strings"

	"gitlab.com/dirk.krummacker/contact-manager/internal/apperror"
	"gitlab.com/dirk.krummacker/contact-manager/internal/model"
	"gitlab.com/dirk.krummacker/contact-manager/internal/validate"
	pub "gitlab.com/dirk.krummacker/contact-manager/pkg/model"
)

// errInvalidUser is reported for user names that must not be turned into storage locations.
var errInvalidUser = errors.New("invalid user name")

// Repository loads and saves the contacts of one user at a time.
type Repository interface {
	// Init creates an empty contact book for user unless one exists already.
	Init(ctx context.Context, user string) error
	Load(ctx context.Context, user string) (model.Contacts, error)
	Save(ctx context.Context, user string, contacts model.Contacts) error
}

// Store implements the contact operations on top of a Repository.
type Store struct {
	repo Repository
}

// NewStore creates a Store.
func NewStore(repo Repository) *Store {
	return &Store{repo: repo}
}

// checkUser guards the repositories against names that could escape the user's storage area.
func checkUser(user string) error {
	if !validate.ValidUsername(user) {
		return apperror.Storage("open", user, errInvalidUser)
	}
	return nil
}

// EnsureInitialized creates the storage area of user if it does not exist yet.
func (s *Store) EnsureInitialized(ctx context.Context, user string) error {
	if err := checkUser(user); err != nil {
		return err
	}
	return s.repo.Init(ctx, user)
}

// Load returns all contacts of user.
func (s *Store) Load(ctx context.Context, user string) (model.Contacts, error) {
	if err := s.EnsureInitialized(ctx, user); err != nil {
		return nil, err
	}
	return s.repo.Load(ctx, user)
}

// Save replaces all contacts of user.
func (s *Store) Save(ctx context.Context, user string, contacts model.Contacts) error {
	if err := checkUser(user); err != nil {
		return err
	}
	return s.repo.Save(ctx, user, contacts)
}

// Add validates form and stores it as a new contact of user. A *apperror.ValidationError is
// returned for invalid input, in which case nothing is stored.
func (s *Store) Add(ctx context.Context, user string, form pub.ContactForm) (model.Contact, error) {
	if err := apperror.Validation(validate.ContactError(form)); err != nil {
		return model.Contact{}, err
	}
	contacts, err := s.Load(ctx, user)
	if err != nil {
		return model.Contact{}, err
	}
	contact := normalize(NextId(contacts), form)
	contacts[contact.Id] = contact
	if err := s.Save(ctx, user, contacts); err != nil {
		return model.Contact{}, err
	}
	return contact, nil
}

// Update validates form and replaces the contact with the given id. It returns
// apperror.ErrNotFound if user has no such contact.
func (s *Store) Update(ctx context.Context, user string, id int64, form pub.ContactForm) (model.Contact, error) {
	if err := apperror.Validation(validate.ContactError(form)); err != nil {
		return model.Contact{}, err
	}
	contacts, err := s.Load(ctx, user)
	if err != nil {
		return model.Contact{}, err
	}
	if _, ok := contacts[id]; !ok {
		return model.Contact{}, apperror.ErrNotFound
	}
	contact := normalize(id, form)
	contacts[id] = contact
	if err := s.Save(ctx, user, contacts); err != nil {
		return model.Contact{}, err
	}
	return contact, nil
}

// Delete removes the contact with the given id. Deleting a missing contact is not an error.
func (s *Store) Delete(ctx context.Context, user string, id int64) error {
	contacts, err := s.Load(ctx, user)
	if err != nil {
		return err
	}
	delete(contacts, id)
	return s.Save(ctx, user, contacts)
}

// Get returns the contact with the given id, or apperror.ErrNotFound.
func (s *Store) Get(ctx context.Context, user string, id int64) (model.Contact, error) {
	contacts, err := s.Load(ctx, user)
	if err != nil {
		return model.Contact{}, err
	}
	contact, ok := contacts[id]
	if !ok {
		return model.Contact{}, apperror.ErrNotFound
	}
	return contact, nil
}

// List returns the contacts of user sorted by first name. Contacts with the same first name
// keep their id order.
func (s *Store) List(ctx context.Context, user string) ([]model.Contact, error) {
	contacts, err := s.Load(ctx, user)
	if err != nil {
		return nil, err
	}
	list := make([]model.Contact, 0, len(contacts))
	for _, contact := range contacts {
		list = append(list, contact)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].First != list[j].First {
			return list[i].First < list[j].First
		}
		return list[i].Id < list[j].Id
	})
	return list, nil
}

// NextId returns the id for a new contact: the number of existing contacts plus one, unless a
// contact already holds that id. After deletions that can happen, and the id continues after
// the highest id in use instead.
func NextId(contacts model.Contacts) int64 {
	id := int64(len(contacts)) + 1
	if _, taken := contacts[id]; !taken {
		return id
	}
	for existing := range contacts {
		if existing >= id {
			id = existing + 1
		}
	}
	return id
}

// Capitalize upper-cases the first letter of s and leaves the rest as it is.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func normalize(id int64, form pub.ContactForm) model.Contact {
	return model.Contact{
		Id:    id,
		First: Capitalize(form.First),
		Last:  Capitalize(form.Last),
		Email: form.Email,
		Phone: form.Phone,
	}
}
