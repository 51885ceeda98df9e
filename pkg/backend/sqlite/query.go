package sqlite

import (
	"fmt"
	"strings"

	"github.com/adfharrison1/bookshelf/pkg/domain"
)

// whereClause renders filter as a parameterised WHERE clause. Field names
// must already be validated; they double as column names.
func whereClause(filter domain.Filter) (string, []any) {
	if len(filter) == 0 {
		return "", nil
	}
	parts := make([]string, len(filter))
	args := make([]any, len(filter))
	for i, c := range filter {
		op := "="
		if c.Op == domain.OpGt {
			op = ">"
		}
		parts[i] = fmt.Sprintf("%s %s ?", quote(c.Field), op)
		args[i] = bindValue(c.Value)
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

// bindValue stores booleans the way the in_stock column holds them.
func bindValue(v any) any {
	if b, ok := v.(bool); ok {
		if b {
			return int64(1)
		}
		return int64(0)
	}
	return v
}

// orderClause sorts by the requested keys, then by insertion order.
func orderClause(keys []domain.SortKey) string {
	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		dir := "ASC"
		if k.Desc {
			dir = "DESC"
		}
		parts = append(parts, quote(k.Field)+" "+dir)
	}
	parts = append(parts, "seq ASC")
	return " ORDER BY " + strings.Join(parts, ", ")
}

// limitClause translates skip/limit; SQLite needs a LIMIT before OFFSET.
func limitClause(skip, limit int) string {
	if skip == 0 && limit == 0 {
		return ""
	}
	if limit == 0 {
		return fmt.Sprintf(" LIMIT -1 OFFSET %d", skip)
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, skip)
}

// selectColumns returns the columns to read: the projection when one is
// given, otherwise the identifier and every book field.
func selectColumns(projection []string) []string {
	if len(projection) > 0 {
		return projection
	}
	return append([]string{"id"}, domain.BookFields...)
}

func columnList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quote(c)
	}
	return strings.Join(quoted, ", ")
}

// destinations returns scan targets inside b for the given columns.
func destinations(b *domain.Book, cols []string) []any {
	dest := make([]any, len(cols))
	for i, c := range cols {
		switch c {
		case "id":
			dest[i] = &b.ID
		case domain.FieldTitle:
			dest[i] = &b.Title
		case domain.FieldAuthor:
			dest[i] = &b.Author
		case domain.FieldGenre:
			dest[i] = &b.Genre
		case domain.FieldPublishedYear:
			dest[i] = &b.PublishedYear
		case domain.FieldPrice:
			dest[i] = &b.Price
		case domain.FieldInStock:
			dest[i] = &b.InStock
		case domain.FieldPages:
			dest[i] = &b.Pages
		case domain.FieldPublisher:
			dest[i] = &b.Publisher
		}
	}
	return dest
}

// indexNameFromPlan extracts the index from an EXPLAIN QUERY PLAN detail
// such as "SEARCH books USING INDEX title_1 (title=?)".
func indexNameFromPlan(detail string) string {
	for _, marker := range []string{"USING COVERING INDEX ", "USING INDEX "} {
		if i := strings.Index(detail, marker); i >= 0 {
			rest := detail[i+len(marker):]
			if j := strings.IndexByte(rest, ' '); j >= 0 {
				rest = rest[:j]
			}
			return strings.Trim(rest, `"`)
		}
	}
	return ""
}
