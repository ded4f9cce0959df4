package categorizer

// CategoryStoreInterface defines where category tables are loaded from.
// This allows for dependency injection and easier testing.
type CategoryStoreInterface interface {
	LoadCategoryMap() (map[string]string, error)
}
