package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/revol-ver/internal/categorizer"
	"fjacquet/revol-ver/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	err := os.WriteFile(path, []byte(content), 0600)
	require.NoError(t, err)
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "test.yaml")
	writeFile(t, testFile, "categories: {}")

	store := NewCategoryStore("", logging.NewMockLogger())

	file, err := store.FindConfigFile(testFile)
	assert.NoError(t, err)
	assert.Equal(t, testFile, file)

	_, err = store.FindConfigFile(filepath.Join(dir, "nonexistent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadCategoryMap(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    map[string]string
	}{
		{
			name: "categories section",
			content: `categories:
  6f1d2c3b-4a5e-4f60-8a7b-9c0d1e2f3a4b: Hobbies
  0b1e6f3a-5c2d-4e8f-9a7b-1c2d3e4f5a6b: Food
`,
			want: map[string]string{
				"6f1d2c3b-4a5e-4f60-8a7b-9c0d1e2f3a4b": "Hobbies",
				"0b1e6f3a-5c2d-4e8f-9a7b-1c2d3e4f5a6b": "Food",
			},
		},
		{
			name:    "bare mapping",
			content: "6f1d2c3b-4a5e-4f60-8a7b-9c0d1e2f3a4b: Hobbies\n",
			want:    map[string]string{"6f1d2c3b-4a5e-4f60-8a7b-9c0d1e2f3a4b": "Hobbies"},
		},
		{
			name:    "empty file",
			content: "",
			want:    map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "categories.yaml")
			writeFile(t, path, tt.content)

			got, err := NewCategoryStore(path, logging.NewMockLogger()).LoadCategoryMap()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadCategoryMap_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	writeFile(t, path, "- just\n- a list\n")

	_, err := NewCategoryStore(path, logging.NewMockLogger()).LoadCategoryMap()
	assert.Error(t, err)
}

func TestLoadCategoryMap_NoFile(t *testing.T) {
	categories, err := NewCategoryStore("", logging.NewMockLogger()).LoadCategoryMap()
	require.NoError(t, err)
	assert.Empty(t, categories)

	logger := logging.NewMockLogger()
	categories, err = NewCategoryStore(filepath.Join(t.TempDir(), "missing.yaml"), logger).LoadCategoryMap()
	require.NoError(t, err)
	assert.Empty(t, categories)
	assert.True(t, logger.HasEntry("WARN", "Categories file not found"))
}

func TestStoresSatisfyCategorizerInterface(t *testing.T) {
	var _ categorizer.CategoryStoreInterface = (*CategoryStore)(nil)
	var _ categorizer.CategoryStoreInterface = (*MockCategoryStore)(nil)

	mock := &MockCategoryStore{Categories: map[string]string{"a": "b"}}
	got, err := mock.LoadCategoryMap()
	require.NoError(t, err)
	got["c"] = "d"
	assert.Len(t, mock.Categories, 1, "callers get a copy")

	mock.LoadCategoryMapError = errors.New("boom")
	_, err = mock.LoadCategoryMap()
	assert.EqualError(t, err, "boom")
}
