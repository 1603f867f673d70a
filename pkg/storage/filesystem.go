package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WorkspaceDir is where reviewdesk keeps its files, relative to the working
// directory.
const WorkspaceDir = ".reviewdesk"

// Well-known files inside the workspace directory.
const (
	SettingsFile = "settings.yaml"
	SeedFile     = "seed.yaml"
	EventsFile   = "events.jsonl"
)

// FilesystemWorkspace anchors the on-disk side of a reviewdesk workspace:
// settings, seed data, and the audit event log.
type FilesystemWorkspace struct {
	root string
}

func NewFilesystemWorkspace(root string) *FilesystemWorkspace {
	return &FilesystemWorkspace{root: root}
}

// Root returns the workspace root directory.
func (w *FilesystemWorkspace) Root() string {
	return w.root
}

// Dir returns the .reviewdesk directory path.
func (w *FilesystemWorkspace) Dir() string {
	return filepath.Join(w.root, WorkspaceDir)
}

// ResolvePath ensures the path is within the workspace directory and prevents
// traversal.
func (w *FilesystemWorkspace) ResolvePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	baseDir := w.Dir()
	fullPath := filepath.Join(baseDir, filename)
	cleanPath := filepath.Clean(fullPath)

	// Check for traversal and require a direct child of the workspace dir
	if !strings.HasPrefix(cleanPath, baseDir) || filepath.Dir(cleanPath) != baseDir {
		return "", fmt.Errorf("invalid file path: %s", filename)
	}

	return cleanPath, nil
}

// Initialize creates the workspace directory.
func (w *FilesystemWorkspace) Initialize() error {
	if err := os.MkdirAll(w.Dir(), 0700); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", WorkspaceDir, err)
	}
	return nil
}

// IsInitialized reports whether the workspace directory exists.
func (w *FilesystemWorkspace) IsInitialized() bool {
	_, err := os.Stat(w.Dir())
	return err == nil
}

// ReadFile reads a well-known workspace file. Returns (nil, nil) when the file
// does not exist yet.
func (w *FilesystemWorkspace) ReadFile(filename string) ([]byte, error) {
	path, err := w.ResolvePath(filename)
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- Path is resolved and validated via ResolvePath
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return data, nil
}

// WriteFile writes a well-known workspace file with restricted permissions.
func (w *FilesystemWorkspace) WriteFile(filename string, data []byte) error {
	if err := w.Initialize(); err != nil {
		return err
	}
	path, err := w.ResolvePath(filename)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
