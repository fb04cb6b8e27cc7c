package repository

import (
	"encoding/json"
	"fmt"
)

// envelope is the versioned document a collection is persisted as. The
// version tag exists so the stored shape can evolve without guessing.
type envelope[T any] struct {
	Version int `json:"version"`
	Items   []T `json:"items"`
}

// schemaVersion is written into every persisted envelope and export.
const schemaVersion = 1

// decodeCollection parses a stored value into a collection. It accepts
// the versioned envelope as well as a bare top-level JSON array, the
// format the original browser client wrote, so pre-versioning documents
// still load. Anything else decodes to nil; callers treat that as an
// empty collection.
func decodeCollection[T any](raw string) []T {
	var env envelope[T]
	if err := json.Unmarshal([]byte(raw), &env); err == nil && env.Items != nil {
		return env.Items
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err == nil {
		return items
	}
	return nil
}

// encodeCollection serializes the full collection into its versioned
// envelope.
func encodeCollection[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(envelope[T]{Version: schemaVersion, Items: items})
	if err != nil {
		return "", fmt.Errorf("failed to encode collection: %w", err)
	}
	return string(raw), nil
}
