package contact

import (
	"context"
	"path/filepath"

	"gitlab.com/dirk.krummacker/contact-manager/internal/filestore"
	"gitlab.com/dirk.krummacker/contact-manager/internal/model"
)

// contactsFile is the name of the contact book inside a user's directory.
const contactsFile = "contacts.yml"

// FileRepository keeps the contacts of every user in <root>/<user>/contacts.yml.
type FileRepository struct {
	root string
}

// NewFileRepository creates a FileRepository below root.
func NewFileRepository(root string) *FileRepository {
	return &FileRepository{root: root}
}

func (r *FileRepository) path(user string) string {
	return filepath.Join(r.root, user, contactsFile)
}

// Init writes an empty contact book for user if the file does not exist.
func (r *FileRepository) Init(_ context.Context, user string) error {
	if filestore.Exists(r.path(user)) {
		return nil
	}
	return filestore.WriteYAML(r.path(user), model.Contacts{})
}

// Load reads the contact book of user. The ids are taken from the mapping keys.
func (r *FileRepository) Load(_ context.Context, user string) (model.Contacts, error) {
	contacts := model.Contacts{}
	if _, err := filestore.ReadYAML(r.path(user), &contacts); err != nil {
		return nil, err
	}
	if contacts == nil {
		contacts = model.Contacts{}
	}
	for id, contact := range contacts {
		contact.Id = id
		contacts[id] = contact
	}
	return contacts, nil
}

// Save overwrites the contact book of user.
func (r *FileRepository) Save(_ context.Context, user string, contacts model.Contacts) error {
	return filestore.WriteYAML(r.path(user), contacts)
}
