// Package store loads the category table kept next to the configuration.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/revol-ver/internal/logging"

	"gopkg.in/yaml.v3"
)

// categoriesDocument is the layout of a category file:
//
//	categories:
//	  6f1d2c3b-4a5e-4f60-8a7b-9c0d1e2f3a4b: Hobbies
type categoriesDocument struct {
	Categories map[string]string `yaml:"categories"`
}

// CategoryStore loads custom category labels from a YAML file.
type CategoryStore struct {
	CategoriesFile string
	logger         logging.Logger
}

// NewCategoryStore creates a store for the given file. An empty name means
// there is no category file.
func NewCategoryStore(categoriesFile string, logger logging.Logger) *CategoryStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &CategoryStore{CategoriesFile: categoriesFile, logger: logger}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *CategoryStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join(".revol-ver", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".revol-ver", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadCategoryMap reads the category file. Both the documented layout and a
// bare id-to-label mapping are accepted. A missing file yields an empty table.
func (s *CategoryStore) LoadCategoryMap() (map[string]string, error) {
	if s.CategoriesFile == "" {
		return map[string]string{}, nil
	}

	filePath, err := s.FindConfigFile(s.CategoriesFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Categories file not found", logging.F(logging.FieldFile, s.CategoriesFile))
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("error resolving categories file: %w", err)
	}

	data, err := os.ReadFile(filePath) // #nosec G304 -- path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("error reading categories file: %w", err)
	}

	var doc categoriesDocument
	if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.Categories) > 0 {
		s.logger.Debug("Loaded categories",
			logging.F(logging.FieldCount, len(doc.Categories)),
			logging.F(logging.FieldFile, filePath))
		return doc.Categories, nil
	}

	var flat map[string]string
	if err := yaml.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("error parsing categories file %s: %w", filePath, err)
	}
	if flat == nil {
		flat = map[string]string{}
	}
	s.logger.Debug("Loaded categories",
		logging.F(logging.FieldCount, len(flat)),
		logging.F(logging.FieldFile, filePath))
	return flat, nil
}
