// Package report computes the grouped summaries shown by the query run and
// the inspection API. Grouping happens in Go over the records a BookStore
// returns, so every backend produces identical output.
package report

import (
	"fmt"
	"sort"

	"github.com/adfharrison1/bookshelf/pkg/domain"
)

// GenreStats is the mean price and record count for one genre.
type GenreStats struct {
	Genre        string  `json:"genre"`
	AveragePrice float64 `json:"average_price"`
	TotalBooks   int     `json:"total_books"`
}

// AuthorCount is the number of records written by one author.
type AuthorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}

// DecadeCount is the number of records published in one decade.
type DecadeCount struct {
	Decade int `json:"decade"`
	Count  int `json:"count"`
}

// Label renders the decade as "1950s".
func (d DecadeCount) Label() string {
	return fmt.Sprintf("%ds", d.Decade)
}

// AveragePriceByGenre groups books by genre and sorts the groups by mean
// price descending, then genre ascending.
func AveragePriceByGenre(books []domain.Book) []GenreStats {
	type acc struct {
		sum   float64
		count int
	}
	groups := make(map[string]*acc)
	for _, b := range books {
		a, ok := groups[b.Genre]
		if !ok {
			a = &acc{}
			groups[b.Genre] = a
		}
		a.sum += b.Price
		a.count++
	}

	out := make([]GenreStats, 0, len(groups))
	for genre, a := range groups {
		out = append(out, GenreStats{
			Genre:        genre,
			AveragePrice: a.sum / float64(a.count),
			TotalBooks:   a.count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AveragePrice != out[j].AveragePrice {
			return out[i].AveragePrice > out[j].AveragePrice
		}
		return out[i].Genre < out[j].Genre
	})
	return out
}

// CountByAuthor groups books by author, highest count first and ties in
// author order.
func CountByAuthor(books []domain.Book) []AuthorCount {
	counts := make(map[string]int)
	for _, b := range books {
		counts[b.Author]++
	}
	out := make([]AuthorCount, 0, len(counts))
	for author, n := range counts {
		out = append(out, AuthorCount{Author: author, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Author < out[j].Author
	})
	return out
}

// TopAuthor returns the author with the most books. ok is false for an
// empty input.
func TopAuthor(books []domain.Book) (top AuthorCount, ok bool) {
	counts := CountByAuthor(books)
	if len(counts) == 0 {
		return AuthorCount{}, false
	}
	return counts[0], true
}

// DecadeOf floors a year to its decade; -5 belongs to -10.
func DecadeOf(year int) int {
	d := year / 10
	if year%10 < 0 {
		d--
	}
	return d * 10
}

// BooksByDecade counts books per publication decade in ascending decade order.
func BooksByDecade(books []domain.Book) []DecadeCount {
	counts := make(map[int]int)
	for _, b := range books {
		counts[DecadeOf(b.PublishedYear)]++
	}
	out := make([]DecadeCount, 0, len(counts))
	for decade, n := range counts {
		out = append(out, DecadeCount{Decade: decade, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Decade < out[j].Decade })
	return out
}
