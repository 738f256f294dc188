package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/zalepa/valdata/dataset"
)

// WriteJSON writes ds, turnout and directory included, to path.
func WriteJSON(path string, ds *dataset.Dataset) error {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadJSON reads a dataset written by WriteJSON.
func LoadJSON(path string) (*dataset.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ds dataset.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ds.Reindex()
	return &ds, nil
}
