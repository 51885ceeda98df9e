package domain

import (
	"fmt"
	"strings"
	"time"
)

// IndexSpec describes a single-field or compound index
type IndexSpec struct {
	Keys []SortKey `json:"keys" msgpack:"keys"`
}

// NewIndexSpec builds an index over the given keys.
func NewIndexSpec(keys ...SortKey) IndexSpec {
	return IndexSpec{Keys: keys}
}

// Name returns the conventional index name, e.g. "author_1_published_year_-1".
func (s IndexSpec) Name() string {
	parts := make([]string, 0, len(s.Keys)*2)
	for _, k := range s.Keys {
		parts = append(parts, k.Field, fmt.Sprintf("%d", k.Direction()))
	}
	return strings.Join(parts, "_")
}

// Fields returns the indexed field names in key order.
func (s IndexSpec) Fields() []string {
	fields := make([]string, len(s.Keys))
	for i, k := range s.Keys {
		fields[i] = k.Field
	}
	return fields
}

// Validate rejects empty specs and unknown fields.
func (s IndexSpec) Validate() error {
	if len(s.Keys) == 0 {
		return fmt.Errorf("index requires at least one key")
	}
	for _, k := range s.Keys {
		if !IsBookField(k.Field) {
			return fmt.Errorf("%w: index on %s", ErrUnknownField, k.Field)
		}
	}
	return nil
}

// ExplainStats is the execution summary of a single query plan. An empty
// IndexName means the engine scanned the whole collection.
type ExplainStats struct {
	ExecutionTime time.Duration `json:"execution_time"`
	DocsExamined  int64         `json:"docs_examined"`
	DocsReturned  int64         `json:"docs_returned"`
	IndexName     string        `json:"index_name,omitempty"`
}
