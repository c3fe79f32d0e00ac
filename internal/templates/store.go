package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// TemplatesFileName is the file the JSON store keeps user templates in.
const TemplatesFileName = "capture_templates.json"

// Store persists user-defined templates.
type Store interface {
	List(ctx context.Context) ([]CaptureTemplate, error)
	Save(ctx context.Context, t CaptureTemplate) error
}

// DefaultPath returns <UserConfigDir>/CaptureConsole/<file>.
func DefaultPath(file string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "CaptureConsole", file), nil
}

// JSONStore keeps templates as an indented JSON array in one file.
type JSONStore struct {
	path string
	mu   sync.Mutex
}

// NewJSONStore creates a store backed by path. The file is created on first save.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the backing file path.
func (s *JSONStore) Path() string {
	return s.path
}

// List returns the stored templates. A missing file is an empty list.
func (s *JSONStore) List(ctx context.Context) ([]CaptureTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save appends t to the file.
func (s *JSONStore) Save(ctx context.Context, t CaptureTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	templates, err := s.load()
	if err != nil {
		return err
	}
	templates = append(templates, t)

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create templates directory: %w", err)
	}
	data, err := json.MarshalIndent(templates, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal templates: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write templates file: %w", err)
	}
	return nil
}

func (s *JSONStore) load() ([]CaptureTemplate, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []CaptureTemplate{}, nil
		}
		return nil, fmt.Errorf("failed to read templates file: %w", err)
	}

	var templates []CaptureTemplate
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal templates: %w", err)
	}
	return templates, nil
}
