package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adfharrison1/bookshelf/pkg/domain"
)

func TestMatchesFilter(t *testing.T) {
	doc := domain.Document{"title": "1984", "published_year": int64(1949), "in_stock": true, "price": 10.99}

	tests := []struct {
		name   string
		filter domain.Filter
		want   bool
	}{
		{"empty filter", nil, true},
		{"string equality", domain.Eq("title", "1984"), true},
		{"string equality is case sensitive", domain.Eq("title", "nineteen"), false},
		{"numeric equality across types", domain.Eq("published_year", 1949), true},
		{"bool equality", domain.Eq("in_stock", true), true},
		{"bool mismatch", domain.Eq("in_stock", false), false},
		{"greater than", domain.Gt("published_year", 1900), true},
		{"greater than is strict", domain.Gt("published_year", 1949), false},
		{"missing field", domain.Eq("genre", "Fiction"), false},
		{"missing field with gt", domain.Gt("pages", 1), false},
		{"gt across kinds", domain.Gt("title", 5), false},
		{"conjunction", domain.And(domain.Eq("in_stock", true), domain.Gt("price", 10)), true},
		{"conjunction fails", domain.And(domain.Eq("in_stock", true), domain.Gt("price", 11)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesFilter(doc, tt.filter))
		})
	}
}

func TestValuesMatch(t *testing.T) {
	assert.True(t, ValuesMatch(42, 42))
	assert.True(t, ValuesMatch(42, 42.0))
	assert.True(t, ValuesMatch(uint16(1960), int64(1960)))
	assert.True(t, ValuesMatch(nil, nil))
	assert.False(t, ValuesMatch(nil, 1))
	assert.False(t, ValuesMatch("Alice", "alice"))
	assert.False(t, ValuesMatch("42", 42))
	assert.False(t, ValuesMatch(42, 43))
}

func TestCompareValues(t *testing.T) {
	cmp, ok := CompareValues(7.99, 19.99)
	assert.True(t, ok)
	assert.Equal(t, -1, cmp)

	cmp, ok = CompareValues("b", "a")
	assert.True(t, ok)
	assert.Equal(t, 1, cmp)

	cmp, ok = CompareValues(false, true)
	assert.True(t, ok)
	assert.Equal(t, -1, cmp)

	_, ok = CompareValues("a", 1)
	assert.False(t, ok)
}

func TestSortDocuments_StableAndMissingFirst(t *testing.T) {
	docs := []domain.Document{
		{"name": "a", "price": 10.99},
		{"name": "b", "price": 9.99},
		{"name": "c"},
		{"name": "d", "price": 10.99},
	}

	SortDocuments(docs, []domain.SortKey{domain.Asc("price")})
	names := func() []string {
		out := make([]string, len(docs))
		for i, d := range docs {
			out[i] = d["name"].(string)
		}
		return out
	}
	assert.Equal(t, []string{"c", "b", "a", "d"}, names())

	SortDocuments(docs, []domain.SortKey{domain.Desc("price")})
	assert.Equal(t, []string{"a", "d", "b", "c"}, names())
}

func TestProject(t *testing.T) {
	doc := domain.Document{"_id": "x", "_seq": int64(1), "title": "T", "author": "A", "price": 1.5}

	projected := Project(doc, []string{"title", "price"})
	assert.Equal(t, domain.Document{"title": "T", "price": 1.5}, projected)

	full := Project(doc, nil)
	assert.Equal(t, doc, full)
	full["title"] = "changed"
	assert.Equal(t, "T", doc["title"], "projection must copy")
}
