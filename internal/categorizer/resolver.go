// Package categorizer turns Revolut category tokens into display labels.
//
// Revolut returns either a built-in label such as "groceries" or the identifier
// of a user-defined category. Identifiers must be present in the configured
// category table; an unknown identifier fails the record instead of leaking a
// raw id into the outputs.
package categorizer

import (
	"strings"

	"fjacquet/revol-ver/internal/logging"
	"fjacquet/revol-ver/internal/parsererror"
)

// identifierSegments is the number of hyphen separated groups of a category id.
const identifierSegments = 5

// CategoryMap maps lower-cased category identifiers to labels.
type CategoryMap map[string]string

// BuildCategoryMap merges category tables into a fresh map with lower-cased keys.
// Later tables override earlier ones.
func BuildCategoryMap(tables ...map[string]string) CategoryMap {
	size := 0
	for _, table := range tables {
		size += len(table)
	}
	categories := make(CategoryMap, size)
	for _, table := range tables {
		for id, label := range table {
			categories[strings.ToLower(strings.TrimSpace(id))] = label
		}
	}
	return categories
}

// IsIdentifier reports whether token has the five-group shape of a category id.
func IsIdentifier(token string) bool {
	return len(strings.Split(token, "-")) == identifierSegments
}

// Resolver resolves category tokens against a read-only CategoryMap.
type Resolver struct {
	categories CategoryMap
	logger     logging.Logger
}

// NewResolver creates a Resolver. The map is copied so later changes by the
// caller do not leak into a running pipeline.
func NewResolver(categories map[string]string, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Resolver{
		categories: BuildCategoryMap(categories),
		logger:     logger,
	}
}

// NewResolverFromStore creates a Resolver from the store's table, overridden
// by the overrides table (usually the config file's categories section).
func NewResolverFromStore(store CategoryStoreInterface, overrides map[string]string, logger logging.Logger) (*Resolver, error) {
	var fromStore map[string]string
	if store != nil {
		var err error
		fromStore, err = store.LoadCategoryMap()
		if err != nil {
			return nil, err
		}
	}
	resolver := NewResolver(nil, logger)
	resolver.categories = BuildCategoryMap(fromStore, overrides)
	resolver.logger.Debug("Loaded category table", logging.F(logging.FieldCount, len(resolver.categories)))
	return resolver, nil
}

// Resolve returns the label for token. Labels pass through unchanged.
// An identifier missing from the table yields a *parsererror.CategoryResolutionError
// carrying record for context.
func (r *Resolver) Resolve(token string, record map[string]any) (string, error) {
	if !IsIdentifier(token) {
		return token, nil
	}

	label, ok := r.categories[strings.ToLower(token)]
	if !ok {
		return "", &parsererror.CategoryResolutionError{Token: token, Record: record}
	}

	r.logger.Debug("Resolved category ID",
		logging.F(logging.FieldCategory, label),
		logging.F("category_id", token))
	return label, nil
}

// Len returns the number of known category identifiers.
func (r *Resolver) Len() int {
	return len(r.categories)
}
