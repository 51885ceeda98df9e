package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/bookshelf/pkg/domain"
	"github.com/adfharrison1/bookshelf/pkg/fixture"
)

func TestAveragePriceByGenre_Synthetic(t *testing.T) {
	books := []domain.Book{
		{Title: "a", Genre: "Test", Price: 10},
		{Title: "b", Genre: "Test", Price: 20},
		{Title: "c", Genre: "Test", Price: 30},
	}
	got := AveragePriceByGenre(books)
	require.Len(t, got, 1)
	assert.Equal(t, "Test", got[0].Genre)
	assert.InDelta(t, 20.0, got[0].AveragePrice, 1e-9)
	assert.Equal(t, 3, got[0].TotalBooks)
}

func TestAveragePriceByGenre_Ordering(t *testing.T) {
	books := []domain.Book{
		{Genre: "B", Price: 10},
		{Genre: "A", Price: 10},
		{Genre: "C", Price: 30},
	}
	got := AveragePriceByGenre(books)
	require.Len(t, got, 3)
	assert.Equal(t, "C", got[0].Genre)
	assert.Equal(t, "A", got[1].Genre)
	assert.Equal(t, "B", got[2].Genre)
}

func TestAveragePriceByGenre_Fixture(t *testing.T) {
	got := AveragePriceByGenre(fixture.Books())

	total := 0
	for _, g := range got {
		total += g.TotalBooks
	}
	assert.Equal(t, fixture.Size, total)
	// The Lord of the Rings and The Hobbit make Fantasy the priciest genre.
	assert.Equal(t, "Fantasy", got[0].Genre)
	assert.InDelta(t, 17.49, got[0].AveragePrice, 1e-9)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].AveragePrice, got[i].AveragePrice)
	}
}

func TestTopAuthor(t *testing.T) {
	_, ok := TopAuthor(nil)
	assert.False(t, ok)

	top, ok := TopAuthor([]domain.Book{
		{Author: "Zed"}, {Author: "Amy"}, {Author: "Zed"}, {Author: "Amy"}, {Author: "Bob"},
	})
	require.True(t, ok)
	assert.Equal(t, AuthorCount{Author: "Amy", Count: 2}, top)

	// George Orwell and J.R.R. Tolkien both have two fixture books.
	top, ok = TopAuthor(fixture.Books())
	require.True(t, ok)
	assert.Equal(t, AuthorCount{Author: "George Orwell", Count: 2}, top)
}

func TestDecadeOf(t *testing.T) {
	tests := []struct {
		year, want int
	}{
		{1956, 1950},
		{1960, 1960},
		{1969, 1960},
		{0, 0},
		{-1, -10},
		{-10, -10},
		{-11, -20},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DecadeOf(tt.year), "year %d", tt.year)
	}
}

func TestBooksByDecade(t *testing.T) {
	got := BooksByDecade([]domain.Book{
		{PublishedYear: 1960},
		{PublishedYear: 1956},
		{PublishedYear: 1951},
	})
	require.Len(t, got, 2)
	assert.Equal(t, DecadeCount{Decade: 1950, Count: 2}, got[0])
	assert.Equal(t, "1950s", got[0].Label())
	assert.Equal(t, "1960s", got[1].Label())

	all := BooksByDecade(fixture.Books())
	assert.Equal(t, 1810, all[0].Decade)
	total := 0
	for i, d := range all {
		total += d.Count
		if i > 0 {
			assert.Less(t, all[i-1].Decade, d.Decade)
		}
	}
	assert.Equal(t, fixture.Size, total)
}
