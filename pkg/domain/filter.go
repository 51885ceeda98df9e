package domain

import (
	"fmt"
	"strings"
)

// Op is a comparison operator in a filter condition
type Op int

const (
	OpEq Op = iota
	OpGt
)

func (o Op) String() string {
	switch o {
	case OpEq:
		return "$eq"
	case OpGt:
		return "$gt"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Condition compares one field against a literal value
type Condition struct {
	Field string
	Op    Op
	Value interface{}
}

func (c Condition) String() string {
	return fmt.Sprintf("%s %s %v", c.Field, c.Op, c.Value)
}

// Filter is a conjunction of conditions. An empty filter matches everything.
type Filter []Condition

// Eq matches documents whose field equals value.
func Eq(field string, value interface{}) Filter {
	return Filter{{Field: field, Op: OpEq, Value: value}}
}

// Gt matches documents whose field is strictly greater than value.
func Gt(field string, value interface{}) Filter {
	return Filter{{Field: field, Op: OpGt, Value: value}}
}

// And combines filters into a single conjunction.
func And(filters ...Filter) Filter {
	var out Filter
	for _, f := range filters {
		out = append(out, f...)
	}
	return out
}

// Validate rejects conditions on fields outside the book schema.
func (f Filter) Validate() error {
	for _, c := range f {
		if !IsBookField(c.Field) {
			return fmt.Errorf("%w: %s", ErrUnknownField, c.Field)
		}
		if c.Op != OpEq && c.Op != OpGt {
			return fmt.Errorf("unsupported operator %s", c.Op)
		}
	}
	return nil
}

func (f Filter) String() string {
	if len(f) == 0 {
		return "{}"
	}
	parts := make([]string, len(f))
	for i, c := range f {
		parts[i] = c.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// SortKey orders results by one field
type SortKey struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc,omitempty"`
}

// Asc sorts ascending by field.
func Asc(field string) SortKey { return SortKey{Field: field} }

// Desc sorts descending by field.
func Desc(field string) SortKey { return SortKey{Field: field, Desc: true} }

// Direction returns 1 for ascending and -1 for descending keys.
func (k SortKey) Direction() int {
	if k.Desc {
		return -1
	}
	return 1
}

// FindOptions shapes the result of a find
type FindOptions struct {
	Sort       []SortKey
	Skip       int
	Limit      int // zero means no limit
	Projection []string
}

// Validate checks sort and projection field names and the skip/limit bounds.
func (o *FindOptions) Validate() error {
	if o == nil {
		return nil
	}
	for _, k := range o.Sort {
		if !IsBookField(k.Field) {
			return fmt.Errorf("%w: sort on %s", ErrUnknownField, k.Field)
		}
	}
	for _, f := range o.Projection {
		if !IsBookField(f) {
			return fmt.Errorf("%w: projection of %s", ErrUnknownField, f)
		}
	}
	if o.Skip < 0 {
		return fmt.Errorf("skip cannot be negative")
	}
	if o.Limit < 0 {
		return fmt.Errorf("limit cannot be negative")
	}
	return nil
}
