// Package filestore reads and writes whole YAML documents on disk. A write replaces the file in
// one rename, so a crash leaves either the old or the new document behind.
package filestore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gitlab.com/dirk.krummacker/contact-manager/internal/apperror"
	"gopkg.in/yaml.v3"
)

// Exists reports whether path names a regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ReadYAML decodes the YAML document at path into out. found is false if the file does not
// exist, in which case out is left untouched. An empty file decodes to nothing.
func ReadYAML(path string, out any) (found bool, err error) {
	data, err := os.ReadFile(path) // nosemgrep
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, apperror.Storage("read", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return true, apperror.Storage("decode", path, err)
	}
	return true, nil
}

// WriteYAML replaces the file at path with the YAML encoding of in. Missing parent directories
// are created.
func WriteYAML(path string, in any) error {
	data, err := yaml.Marshal(in)
	if err != nil {
		return apperror.Storage("encode", path, err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperror.Storage("mkdir", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return apperror.Storage("write", path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperror.Storage("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		return apperror.Storage("write", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return apperror.Storage("write", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return apperror.Storage("rename", path, err)
	}
	return nil
}
