// Package storage provides the file-transport collaborator used by the
// document registry. Blob I/O always happens outside row-mutating
// transactions; the document row is the authoritative success signal.
package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore stores and retrieves document blobs by opaque reference.
type FileStore interface {
	// Store writes the blob and returns its reference.
	Store(data []byte, fileName string) (string, error)
	// URL returns a location the blob can be fetched from.
	URL(ref string) string
	// Remove deletes the blob. Removing a missing blob is not an error.
	Remove(ref string) error
}

// LocalStore keeps blobs on the local filesystem under a base directory.
type LocalStore struct {
	baseDir string
}

// NewLocalStore creates the base directory if needed.
func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// Store writes the blob under a random name, preserving the original
// extension so content sniffing keeps working downstream.
func (s *LocalStore) Store(data []byte, fileName string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	ref := hex.EncodeToString(buf) + filepath.Ext(fileName)
	if err := os.WriteFile(filepath.Join(s.baseDir, ref), data, 0o644); err != nil {
		return "", err
	}
	return ref, nil
}

// URL returns the serving path for a stored blob.
func (s *LocalStore) URL(ref string) string {
	return "/files/" + ref
}

// Remove deletes the blob file.
func (s *LocalStore) Remove(ref string) error {
	err := os.Remove(filepath.Join(s.baseDir, ref))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Path returns the on-disk location of a stored blob.
func (s *LocalStore) Path(ref string) string {
	return filepath.Join(s.baseDir, ref)
}
