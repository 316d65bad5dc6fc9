package credential

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Runner executes an external command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Keychain reads the credentials from the macOS login keychain via the
// security(1) tool.
type Keychain struct {
	Service string
	run     Runner
}

func NewKeychain() *Keychain {
	return &Keychain{Service: ServiceName, run: execRunner}
}

// NewKeychainWithRunner is like NewKeychain but executes through run.
func NewKeychainWithRunner(run Runner) *Keychain {
	return &Keychain{Service: ServiceName, run: run}
}

func (k *Keychain) Lookup(ctx context.Context) (string, error) {
	out, err := k.run(ctx, "security", "find-generic-password", "-s", k.Service, "-w")
	if err != nil {
		return "", fmt.Errorf("keychain lookup: %w", err)
	}
	return string(out), nil
}

// CredentialsFile reads the JSON credentials file Claude Code keeps on
// platforms without a keychain.
type CredentialsFile struct {
	Path string
}

// NewCredentialsFile returns a strategy for path, or for
// ~/.claude/.credentials.json when path is empty.
func NewCredentialsFile(path string) *CredentialsFile {
	if path == "" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, ".claude", ".credentials.json")
	}
	return &CredentialsFile{Path: path}
}

func (f *CredentialsFile) Lookup(ctx context.Context) (string, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("credentials file %s: not found", f.Path)
	}
	if err != nil {
		return "", fmt.Errorf("read credentials file: %w", err)
	}
	return string(data), nil
}
