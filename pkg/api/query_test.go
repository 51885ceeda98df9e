package api

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/bookshelf/pkg/domain"
)

func TestParseFilter(t *testing.T) {
	q, err := url.ParseQuery("genre=Fiction&in_stock=true&published_after=2010&unrelated=x")
	require.NoError(t, err)

	filter, err := parseFilter(q)
	require.NoError(t, err)
	assert.Equal(t, domain.And(
		domain.Eq(domain.FieldGenre, "Fiction"),
		domain.Eq(domain.FieldInStock, true),
		domain.Gt(domain.FieldPublishedYear, 2010),
	), filter)

	filter, err = parseFilter(url.Values{})
	require.NoError(t, err)
	assert.Empty(t, filter)
}

func TestParseFindOptions(t *testing.T) {
	opts, err := parseFindOptions(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, &domain.FindOptions{}, opts)

	q, _ := url.ParseQuery("page=3&sort=-price&fields=title,%20author")
	opts, err = parseFindOptions(q)
	require.NoError(t, err)
	assert.Equal(t, &domain.FindOptions{
		Sort:       []domain.SortKey{domain.Desc(domain.FieldPrice)},
		Skip:       10,
		Limit:      5,
		Projection: []string{domain.FieldTitle, domain.FieldAuthor},
	}, opts)

	q, _ = url.ParseQuery("page=two")
	_, err = parseFindOptions(q)
	assert.ErrorIs(t, err, domain.ErrInvalidPage)
}
