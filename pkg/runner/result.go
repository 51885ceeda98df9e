package runner

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/adfharrison1/bookshelf/pkg/domain"
	"github.com/adfharrison1/bookshelf/pkg/report"
)

// Result is the typed outcome of one step.
type Result interface {
	Render(w io.Writer)
}

// CountResult is the number of records matching a filter.
type CountResult struct {
	Filter domain.Filter
	Count  int64
}

func (r CountResult) Render(w io.Writer) {
	fmt.Fprintf(w, "%s matching %s\n", plural(r.Count, "book"), r.Filter)
}

// UpdateResult holds the record after an update, nil when nothing matched.
type UpdateResult struct {
	Filter domain.Filter
	Book   *domain.Book
}

func (r UpdateResult) Render(w io.Writer) {
	if r.Book == nil {
		fmt.Fprintf(w, "No book matched %s\n", r.Filter)
		return
	}
	fmt.Fprintf(w, "Updated %q: price is now %s\n", r.Book.Title, money(r.Book.Price))
}

// DeleteResult is the number of removed records.
type DeleteResult struct {
	Filter  domain.Filter
	Deleted int64
}

func (r DeleteResult) Render(w io.Writer) {
	fmt.Fprintf(w, "Deleted %s matching %s\n", plural(r.Deleted, "book"), r.Filter)
}

// BooksResult is a list of records, optionally restricted to Fields.
type BooksResult struct {
	Books  []domain.Book
	Fields []string
	Page   *domain.PageOptions
}

func (r BooksResult) Render(w io.Writer) {
	if r.Page != nil {
		fmt.Fprintf(w, "Page %d (page size %d)\n", r.Page.Page, r.Page.PageSize)
	}
	fields := r.Fields
	if len(fields) == 0 {
		fields = []string{domain.FieldTitle, domain.FieldAuthor, domain.FieldGenre, domain.FieldPublishedYear, domain.FieldPrice}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(fields, "\t")))
	for _, b := range r.Books {
		cells := make([]string, len(fields))
		for i, f := range fields {
			cells[i] = cell(b, f)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
	fmt.Fprintf(w, "(%s)\n", plural(int64(len(r.Books)), "book"))
}

// GenreResult is the average price per genre.
type GenreResult struct {
	Stats []report.GenreStats
}

func (r GenreResult) Render(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GENRE\tAVERAGE PRICE\tBOOKS")
	for _, g := range r.Stats {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", g.Genre, money(g.AveragePrice), g.TotalBooks)
	}
	tw.Flush()
}

// AuthorResult is the author with the most books.
type AuthorResult struct {
	Top   report.AuthorCount
	Found bool
}

func (r AuthorResult) Render(w io.Writer) {
	if !r.Found {
		fmt.Fprintln(w, "No authors found")
		return
	}
	fmt.Fprintf(w, "%s with %s\n", r.Top.Author, plural(int64(r.Top.Count), "book"))
}

// DecadeResult is the number of books per decade.
type DecadeResult struct {
	Decades []report.DecadeCount
}

func (r DecadeResult) Render(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DECADE\tBOOKS")
	for _, d := range r.Decades {
		fmt.Fprintf(tw, "%s\t%d\n", d.Label(), d.Count)
	}
	tw.Flush()
}

// IndexResult lists the indexes that now exist.
type IndexResult struct {
	Names []string
}

func (r IndexResult) Render(w io.Writer) {
	for _, name := range r.Names {
		fmt.Fprintf(w, "Index ready: %s\n", name)
	}
}

// ExplainResult is the execution summary of a lookup.
type ExplainResult struct {
	Filter domain.Filter
	Stats  domain.ExplainStats
}

func (r ExplainResult) Render(w io.Writer) {
	plan := "collection scan"
	if r.Stats.IndexName != "" {
		plan = "index " + r.Stats.IndexName
	}
	fmt.Fprintf(w, "Query %s used %s\n", r.Filter, plan)
	fmt.Fprintf(w, "Execution time: %s\n", r.Stats.ExecutionTime)
	fmt.Fprintf(w, "Documents examined: %s\n", humanize.Comma(r.Stats.DocsExamined))
	fmt.Fprintf(w, "Documents returned: %s\n", humanize.Comma(r.Stats.DocsReturned))
}

func cell(b domain.Book, field string) string {
	switch field {
	case domain.FieldTitle:
		return b.Title
	case domain.FieldAuthor:
		return b.Author
	case domain.FieldGenre:
		return b.Genre
	case domain.FieldPublishedYear:
		return fmt.Sprint(b.PublishedYear)
	case domain.FieldPrice:
		return money(b.Price)
	case domain.FieldInStock:
		if b.InStock {
			return "yes"
		}
		return "no"
	case domain.FieldPages:
		return humanize.Comma(int64(b.Pages))
	case domain.FieldPublisher:
		return b.Publisher
	}
	return ""
}

func money(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func plural(n int64, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(n) + " " + noun + "s"
}
