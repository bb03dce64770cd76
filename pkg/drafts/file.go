package drafts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/topicsheet/pkg/errors"
)

// FileStore keeps drafts as JSON files, one directory per owner. File names
// are hashes of the draft name; the name itself is stored in the file.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based draft store.
// If baseDir is empty, defaults to ~/.config/topicsheet/drafts/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "topicsheet", "drafts")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create drafts dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) ownerDir(owner string) string {
	return filepath.Join(s.baseDir, owner)
}

func (s *FileStore) draftPath(owner, name string) string {
	sum := sha256.Sum256([]byte(name))
	return filepath.Join(s.ownerDir(owner), hex.EncodeToString(sum[:16])+".json")
}

func (s *FileStore) Put(ctx context.Context, d *Draft) error {
	if err := errors.ValidateOwnerID(d.Owner); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	dir := s.ownerDir(d.Owner)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create owner dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".draft-*")
	if err != nil {
		return fmt.Errorf("write draft file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write draft file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write draft file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.draftPath(d.Owner, d.Name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write draft file: %w", err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, owner, name string) (*Draft, error) {
	if err := errors.ValidateOwnerID(owner); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, err := readDraft(s.draftPath(owner, name))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if d.Name != name || d.Owner != owner {
		return nil, ErrNotFound
	}
	return d, nil
}

func (s *FileStore) List(ctx context.Context, owner string) ([]Summary, error) {
	if err := errors.ValidateOwnerID(owner); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.ownerDir(owner))
	if os.IsNotExist(err) {
		return []Summary{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read drafts dir: %w", err)
	}

	list := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		d, err := readDraft(filepath.Join(s.ownerDir(owner), entry.Name()))
		if err != nil {
			continue
		}
		list = append(list, Summary{Name: d.Name, UpdatedAt: d.UpdatedAt})
	}
	sortSummaries(list)
	return list, nil
}

func (s *FileStore) Delete(ctx context.Context, owner, name string) error {
	if err := errors.ValidateOwnerID(owner); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.draftPath(owner, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove draft file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for draft files.
func (s *FileStore) Path() string {
	return s.baseDir
}

func readDraft(path string) (*Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse draft %s: %w", filepath.Base(path), err)
	}
	return &d, nil
}

var _ Store = (*FileStore)(nil)
