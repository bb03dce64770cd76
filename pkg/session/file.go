package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/topicsheet/pkg/errors"
)

const ownerFileName = "owner"

// CLIOwner returns the owner ID the CLI saves drafts under. The ID is read
// from dir/owner and created on first use.
// If dir is empty, defaults to ~/.config/topicsheet/
func CLIOwner(dir string) (string, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".config", "topicsheet")
	}
	path := filepath.Join(dir, ownerFileName)

	data, err := os.ReadFile(path)
	if err == nil {
		owner := strings.TrimSpace(string(data))
		if err := errors.ValidateOwnerID(owner); err != nil {
			return "", fmt.Errorf("owner file %s: %w", path, err)
		}
		return owner, nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("read owner file: %w", err)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	owner := NewOwnerID()
	if err := os.WriteFile(path, []byte(owner+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("write owner file: %w", err)
	}
	return owner, nil
}
