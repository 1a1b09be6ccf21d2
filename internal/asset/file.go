package asset

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the on-disk layout read by FileStore.
type ProjectFile struct {
	Project  string   `yaml:"project"`
	Template string   `yaml:"template"`
	Assets   []Record `yaml:"assets"`
}

// FileStore serves asset lookups from a YAML project file. It is loaded once
// and never written.
type FileStore struct {
	project  string
	template string
	assets   map[string]Record
}

// LoadFile reads a project file from path.
func LoadFile(path string) (*FileStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading asset store %s: %w", path, err)
	}

	var pf ProjectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing asset store %s: %w", path, err)
	}

	if errs := validateProjectFile(&pf); len(errs) > 0 {
		return nil, fmt.Errorf("asset store %s is invalid:\n  - %s", path, strings.Join(errs, "\n  - "))
	}

	return NewFileStore(pf), nil
}

// NewFileStore builds a FileStore from an in-memory project file.
func NewFileStore(pf ProjectFile) *FileStore {
	assets := make(map[string]Record, len(pf.Assets))
	for _, a := range pf.Assets {
		assets[a.Name] = a
	}
	return &FileStore{project: pf.Project, template: pf.Template, assets: assets}
}

func (s *FileStore) FindAsset(_ context.Context, name string) (Record, error) {
	rec, ok := s.assets[name]
	if !ok {
		return Record{}, fmt.Errorf("%w: %q", ErrAssetNotFound, name)
	}
	return rec, nil
}

func (s *FileStore) PublishTemplate(_ context.Context) (string, error) {
	if s.template == "" {
		return "", fmt.Errorf("project %q has no publish template", s.project)
	}
	return s.template, nil
}

func validateProjectFile(pf *ProjectFile) []string {
	var errs []string
	if strings.TrimSpace(pf.Template) == "" {
		errs = append(errs, "'template' is required")
	}
	seen := make(map[string]bool)
	for i, a := range pf.Assets {
		if a.Name == "" {
			errs = append(errs, fmt.Sprintf("asset[%d]: 'name' is required", i))
			continue
		}
		if seen[a.Name] {
			errs = append(errs, fmt.Sprintf("asset '%s': duplicate name", a.Name))
		}
		seen[a.Name] = true
		if a.Silo == "" {
			errs = append(errs, fmt.Sprintf("asset '%s': 'silo' is required", a.Name))
		}
	}
	return errs
}
