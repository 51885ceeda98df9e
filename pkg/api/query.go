package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/adfharrison1/bookshelf/pkg/domain"
)

// parseFilter builds a filter from the genre, author, title, in_stock and
// published_after query parameters.
func parseFilter(q url.Values) (domain.Filter, error) {
	var filter domain.Filter
	for _, field := range []string{domain.FieldGenre, domain.FieldAuthor, domain.FieldTitle} {
		if v := q.Get(field); v != "" {
			filter = append(filter, domain.Eq(field, v)...)
		}
	}
	if v := q.Get(domain.FieldInStock); v != "" {
		inStock, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("in_stock must be true or false, got %q", v)
		}
		filter = append(filter, domain.Eq(domain.FieldInStock, inStock)...)
	}
	if v := q.Get("published_after"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("published_after must be a year, got %q", v)
		}
		filter = append(filter, domain.Gt(domain.FieldPublishedYear, year)...)
	}
	return filter, nil
}

// parseFindOptions reads sort, page, page_size and fields. A leading "-"
// on the sort field sorts descending.
func parseFindOptions(q url.Values) (*domain.FindOptions, error) {
	opts := &domain.FindOptions{}

	if v := q.Get("page"); v != "" || q.Get("page_size") != "" {
		page := domain.DefaultPageOptions()
		var err error
		if v != "" {
			if page.Page, err = strconv.Atoi(v); err != nil {
				return nil, fmt.Errorf("%w: page must be an integer", domain.ErrInvalidPage)
			}
		}
		if s := q.Get("page_size"); s != "" {
			if page.PageSize, err = strconv.Atoi(s); err != nil {
				return nil, fmt.Errorf("%w: page_size must be an integer", domain.ErrInvalidPage)
			}
		}
		if err := page.Validate(); err != nil {
			return nil, err
		}
		opts = page.FindOptions()
	}

	if v := q.Get("sort"); v != "" {
		if strings.HasPrefix(v, "-") {
			opts.Sort = []domain.SortKey{domain.Desc(strings.TrimPrefix(v, "-"))}
		} else {
			opts.Sort = []domain.SortKey{domain.Asc(v)}
		}
	}

	if v := q.Get("fields"); v != "" {
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				opts.Projection = append(opts.Projection, f)
			}
		}
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}
