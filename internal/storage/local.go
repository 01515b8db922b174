package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore keeps uploaded files on disk under one directory per project.
// Writes stream through a bounded copy buffer so large uploads never load
// fully into memory.
type LocalStore struct {
	baseDir string
	bufSize int
}

func NewLocalStore(baseDir string, bufSize int) *LocalStore {
	if bufSize <= 0 {
		bufSize = 512 * 1024
	}
	return &LocalStore{baseDir: baseDir, bufSize: bufSize}
}

// ProjectDir returns the storage directory for a project, creating it on
// first use.
func (s *LocalStore) ProjectDir(projectID string) (string, error) {
	dir := filepath.Join(s.baseDir, filepath.Base(projectID))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create project dir: %w", err)
	}
	return dir, nil
}

// Write streams r into the project's directory under name and returns the
// number of bytes written. name is reduced to its base to keep callers from
// escaping the project directory.
func (s *LocalStore) Write(projectID, name string, r io.Reader) (int64, error) {
	dir, err := s.ProjectDir(projectID)
	if err != nil {
		return 0, err
	}

	path := filepath.Join(dir, filepath.Base(name))
	f, err := os.Create(path) // #nosec G304 -- path is project dir + sanitized basename
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	buf := make([]byte, s.bufSize)
	n, err := io.CopyBuffer(f, r, buf)
	if err != nil {
		return n, fmt.Errorf("write file: %w", err)
	}
	return n, nil
}

// ReadContent loads the full content of a stored file.
func (s *LocalStore) ReadContent(projectID, name string) (string, error) {
	path := filepath.Join(s.baseDir, filepath.Base(projectID), filepath.Base(name))
	data, err := os.ReadFile(path) // #nosec G304 -- path components are sanitized basenames
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(data), nil
}

// Remove deletes a stored file. Missing files are not an error.
func (s *LocalStore) Remove(projectID, name string) error {
	path := filepath.Join(s.baseDir, filepath.Base(projectID), filepath.Base(name))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
