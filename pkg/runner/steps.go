package runner

import (
	"context"

	"github.com/adfharrison1/bookshelf/pkg/domain"
	"github.com/adfharrison1/bookshelf/pkg/report"
)

// Constants of the default query run.
const (
	FictionGenre       = "Fiction"
	PublishedAfterYear = 1950
	TargetAuthor       = "George Orwell"
	UpdateTitle        = "1984"
	UpdatedPrice       = 15.99
	DeleteTitle        = "Moby Dick"
	InStockAfterYear   = 2010
	ExplainTitle       = "1984"
)

// ProjectionFields are the fields kept by the projection step.
var ProjectionFields = []string{domain.FieldTitle, domain.FieldAuthor, domain.FieldPrice}

// DefaultPage is the page shown by the pagination step.
var DefaultPage = domain.PageOptions{Page: 1, PageSize: domain.DefaultPageSize}

// DefaultIndexes are created by the create-indexes step.
var DefaultIndexes = []domain.IndexSpec{
	domain.NewIndexSpec(domain.Asc(domain.FieldTitle)),
	domain.NewIndexSpec(domain.Asc(domain.FieldAuthor), domain.Desc(domain.FieldPublishedYear)),
}

// DefaultSteps returns the standard query run in execution order.
func DefaultSteps() []Step {
	return []Step{
		CountStep("books-by-genre", "Books in the Fiction genre", domain.Eq(domain.FieldGenre, FictionGenre)),
		CountStep("books-published-after", "Books published after 1950", domain.Gt(domain.FieldPublishedYear, PublishedAfterYear)),
		CountStep("books-by-author", "Books by George Orwell", domain.Eq(domain.FieldAuthor, TargetAuthor)),
		UpdatePriceStep("update-price", "Update the price of 1984", UpdateTitle, UpdatedPrice),
		DeleteStep("delete-by-title", "Delete Moby Dick", domain.Eq(domain.FieldTitle, DeleteTitle)),
		CountStep("in-stock-after", "In-stock books published after 2010",
			domain.And(domain.Eq(domain.FieldInStock, true), domain.Gt(domain.FieldPublishedYear, InStockAfterYear))),
		FindStep("projection", "Titles, authors and prices", &domain.FindOptions{Projection: ProjectionFields}),
		FindStep("sort-price-asc", "Books by price, cheapest first", &domain.FindOptions{Sort: []domain.SortKey{domain.Asc(domain.FieldPrice)}}),
		FindStep("sort-price-desc", "Books by price, most expensive first", &domain.FindOptions{Sort: []domain.SortKey{domain.Desc(domain.FieldPrice)}}),
		PageStep("pagination", "First page of five books", DefaultPage),
		{Name: "avg-price-by-genre", Description: "Average price by genre", Run: averagePriceByGenre},
		{Name: "top-author", Description: "Author with the most books", Run: topAuthor},
		{Name: "books-by-decade", Description: "Books per decade", Run: booksByDecade},
		IndexStep("create-indexes", "Create title and author/year indexes", DefaultIndexes...),
		ExplainStep("explain-title-lookup", "Explain a lookup by title", domain.Eq(domain.FieldTitle, ExplainTitle)),
	}
}

// CountStep counts the records matching filter.
func CountStep(name, description string, filter domain.Filter) Step {
	return Step{Name: name, Description: description, Run: func(ctx context.Context, store domain.BookStore) (Result, error) {
		n, err := store.Count(ctx, filter)
		if err != nil {
			return nil, err
		}
		return CountResult{Filter: filter, Count: n}, nil
	}}
}

// UpdatePriceStep sets the price of the first book with the given title.
func UpdatePriceStep(name, description, title string, price float64) Step {
	filter := domain.Eq(domain.FieldTitle, title)
	return Step{Name: name, Description: description, Run: func(ctx context.Context, store domain.BookStore) (Result, error) {
		b, err := store.UpdateOne(ctx, filter, domain.Document{domain.FieldPrice: price})
		if err != nil {
			return nil, err
		}
		return UpdateResult{Filter: filter, Book: b}, nil
	}}
}

// DeleteStep removes the first record matching filter; no match is not an error.
func DeleteStep(name, description string, filter domain.Filter) Step {
	return Step{Name: name, Description: description, Run: func(ctx context.Context, store domain.BookStore) (Result, error) {
		n, err := store.DeleteOne(ctx, filter)
		if err != nil {
			return nil, err
		}
		return DeleteResult{Filter: filter, Deleted: n}, nil
	}}
}

// FindStep lists every record shaped by opts.
func FindStep(name, description string, opts *domain.FindOptions) Step {
	return Step{Name: name, Description: description, Run: func(ctx context.Context, store domain.BookStore) (Result, error) {
		books, err := store.Find(ctx, nil, opts)
		if err != nil {
			return nil, err
		}
		res := BooksResult{Books: books}
		if opts != nil {
			res.Fields = opts.Projection
		}
		return res, nil
	}}
}

// PageStep lists one page of records in natural order.
func PageStep(name, description string, page domain.PageOptions) Step {
	return Step{Name: name, Description: description, Run: func(ctx context.Context, store domain.BookStore) (Result, error) {
		if err := page.Validate(); err != nil {
			return nil, err
		}
		books, err := store.Find(ctx, nil, page.FindOptions())
		if err != nil {
			return nil, err
		}
		return BooksResult{Books: books, Page: &page}, nil
	}}
}

// IndexStep creates each index in turn.
func IndexStep(name, description string, specs ...domain.IndexSpec) Step {
	return Step{Name: name, Description: description, Run: func(ctx context.Context, store domain.BookStore) (Result, error) {
		names := make([]string, 0, len(specs))
		for _, spec := range specs {
			n, err := store.CreateIndex(ctx, spec)
			if err != nil {
				return nil, err
			}
			names = append(names, n)
		}
		return IndexResult{Names: names}, nil
	}}
}

// ExplainStep reports how the engine evaluates filter.
func ExplainStep(name, description string, filter domain.Filter) Step {
	return Step{Name: name, Description: description, Run: func(ctx context.Context, store domain.BookStore) (Result, error) {
		stats, err := store.Explain(ctx, filter)
		if err != nil {
			return nil, err
		}
		return ExplainResult{Filter: filter, Stats: *stats}, nil
	}}
}

func averagePriceByGenre(ctx context.Context, store domain.BookStore) (Result, error) {
	books, err := store.Find(ctx, nil, &domain.FindOptions{Projection: []string{domain.FieldGenre, domain.FieldPrice}})
	if err != nil {
		return nil, err
	}
	return GenreResult{Stats: report.AveragePriceByGenre(books)}, nil
}

func topAuthor(ctx context.Context, store domain.BookStore) (Result, error) {
	books, err := store.Find(ctx, nil, &domain.FindOptions{Projection: []string{domain.FieldAuthor}})
	if err != nil {
		return nil, err
	}
	top, ok := report.TopAuthor(books)
	return AuthorResult{Top: top, Found: ok}, nil
}

func booksByDecade(ctx context.Context, store domain.BookStore) (Result, error) {
	books, err := store.Find(ctx, nil, &domain.FindOptions{Projection: []string{domain.FieldPublishedYear}})
	if err != nil {
		return nil, err
	}
	return DecadeResult{Decades: report.BooksByDecade(books)}, nil
}
