package store

// MockCategoryStore is a mock implementation of CategoryStore for testing.
type MockCategoryStore struct {
	Categories map[string]string

	LoadCategoryMapError error
}

// LoadCategoryMap returns a copy of the mock categories.
func (m *MockCategoryStore) LoadCategoryMap() (map[string]string, error) {
	if m.LoadCategoryMapError != nil {
		return nil, m.LoadCategoryMapError
	}
	result := make(map[string]string, len(m.Categories))
	for k, v := range m.Categories {
		result[k] = v
	}
	return result, nil
}
