package storage

import (
	"sort"
	"strings"

	"github.com/adfharrison1/bookshelf/pkg/domain"
)

// MatchesFilter checks if a document satisfies every condition of filter
func MatchesFilter(doc domain.Document, filter domain.Filter) bool {
	for _, c := range filter {
		actualValue, exists := doc[c.Field]
		if !exists {
			return false
		}

		switch c.Op {
		case domain.OpEq:
			if !ValuesMatch(actualValue, c.Value) {
				return false
			}
		case domain.OpGt:
			cmp, ok := CompareValues(actualValue, c.Value)
			if !ok || cmp <= 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// ValuesMatch compares two values for equality; numbers compare by value
// regardless of their Go type, strings compare exactly.
func ValuesMatch(actual, expected interface{}) bool {
	if actual == nil && expected == nil {
		return true
	}
	if actual == nil || expected == nil {
		return false
	}

	if actualNum, ok1 := domain.ToFloat64(actual); ok1 {
		if expectedNum, ok2 := domain.ToFloat64(expected); ok2 {
			return actualNum == expectedNum
		}
		return false
	}

	switch a := actual.(type) {
	case string:
		e, ok := expected.(string)
		return ok && a == e
	case bool:
		e, ok := expected.(bool)
		return ok && a == e
	}
	return actual == expected
}

// CompareValues orders two values of the same kind (numbers, strings or
// booleans). ok is false when the values are not comparable.
func CompareValues(a, b interface{}) (cmp int, ok bool) {
	if af, ok1 := domain.ToFloat64(a); ok1 {
		bf, ok2 := domain.ToFloat64(b)
		if !ok2 {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv), true
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0, true
			case !av:
				return -1, true
			default:
				return 1, true
			}
		}
	}
	return 0, false
}

// SortDocuments stably sorts documents by keys. Documents missing a key
// field sort before documents that have it.
func SortDocuments(docs []domain.Document, keys []domain.SortKey) {
	sort.SliceStable(docs, func(i, j int) bool {
		for _, k := range keys {
			cmp := compareField(docs[i], docs[j], k.Field)
			if cmp == 0 {
				continue
			}
			if k.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func compareField(a, b domain.Document, field string) int {
	av, aok := a[field]
	bv, bok := b[field]
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}
	cmp, _ := CompareValues(av, bv)
	return cmp
}

// Project copies doc keeping only fields. With no fields the whole document
// is copied; with fields the identifier and sequence are suppressed.
func Project(doc domain.Document, fields []string) domain.Document {
	if len(fields) == 0 {
		return doc.Copy()
	}
	out := make(domain.Document, len(fields))
	for _, f := range fields {
		if v, ok := doc[f]; ok {
			out[f] = v
		}
	}
	return out
}
