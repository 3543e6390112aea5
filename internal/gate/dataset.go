package gate

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

// Dataset is a flat set of named metric values, the unit both gate inputs
// arrive in.
type Dataset map[string]float64

// ParseDataset decodes a JSON object of metric name to numeric value.
func ParseDataset(data []byte) (Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	return ds, nil
}

// LoadDataset reads a dataset from a JSON file.
func LoadDataset(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return ParseDataset(data)
}
