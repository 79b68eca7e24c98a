package render

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/redbco/redb-dbdoc/internal/filter"
	"github.com/redbco/redb-dbdoc/internal/model"
)

// Snapshot is the machine-readable form of one block: the collected catalog
// and the filters that selected it.
type Snapshot struct {
	Filters *filter.Spec    `yaml:"filters,omitempty"`
	Catalog *model.Document `yaml:"catalog"`
}

// YAML encodes doc and filters as a Snapshot.
func YAML(doc *model.Document, filters *filter.Spec) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Snapshot{Filters: filters, Catalog: doc}); err != nil {
		return "", fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode catalog: %w", err)
	}
	return buf.String(), nil
}
