package credential

import (
	"context"

	"gitlab.com/dirk.krummacker/contact-manager/internal/filestore"
	"gitlab.com/dirk.krummacker/contact-manager/internal/model"
)

// FileRepository keeps all credentials in a single YAML file.
type FileRepository struct {
	path string
}

// NewFileRepository creates a FileRepository for the YAML file at path. The file does not need
// to exist yet.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Load reads the credential file. A missing file means there are no users yet.
func (r *FileRepository) Load(_ context.Context) (model.Credentials, error) {
	credentials := model.Credentials{}
	if _, err := filestore.ReadYAML(r.path, &credentials); err != nil {
		return nil, err
	}
	if credentials == nil {
		credentials = model.Credentials{}
	}
	return credentials, nil
}

// Save overwrites the credential file.
func (r *FileRepository) Save(_ context.Context, credentials model.Credentials) error {
	return filestore.WriteYAML(r.path, credentials)
}
