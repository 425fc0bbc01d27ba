package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Config describes where uploads land and what may be uploaded. It is built
// from application config and passed in explicitly rather than read from
// globals.
type Config struct {
	UploadFolder      string
	AllowedExtensions []string
}

// Allowed reports whether the filename carries an accepted extension.
func (c Config) Allowed(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return false
	}
	for _, allowed := range c.AllowedExtensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// TempPath is the staging folder for files consumed by imports.
func (c Config) TempPath() string {
	return filepath.Join(c.UploadFolder, "temp")
}

// SaveTemp writes an uploaded stream into the temp folder under a
// collision-free name and returns the full path.
func (c Config) SaveTemp(r io.Reader, filename string) (string, error) {
	dir := c.TempPath()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, uuid.New().String()+"_"+filepath.Base(filename))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("save %s: %w", filepath.Base(filename), err)
	}
	return path, nil
}

// Remove discards a consumed file; a missing file is not an error.
func Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
