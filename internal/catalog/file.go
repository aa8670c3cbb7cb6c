package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadFile reads catalog content from a JSON seed file. Used by local/dev
// mode and by cmd/seed_catalog before inserting the content into Postgres.
func LoadFile(path string) (*Catalog, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(data)
}

// ReadFile parses a JSON seed file into raw catalog data without building
// the indexes.
func ReadFile(path string) (*Data, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var d Data
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}
	return &d, nil
}
