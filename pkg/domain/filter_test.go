package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Build(t *testing.T) {
	f := And(Eq(FieldInStock, true), Gt(FieldPublishedYear, 2010))
	require.Len(t, f, 2)
	assert.Equal(t, Condition{Field: FieldInStock, Op: OpEq, Value: true}, f[0])
	assert.Equal(t, OpGt, f[1].Op)
	assert.Equal(t, "{in_stock $eq true, published_year $gt 2010}", f.String())
	assert.Equal(t, "{}", Filter(nil).String())
}

func TestFilter_Validate(t *testing.T) {
	assert.NoError(t, Eq(FieldGenre, "Fiction").Validate())
	assert.True(t, errors.Is(Eq("isbn", "x").Validate(), ErrUnknownField))
	assert.Error(t, Filter{{Field: FieldTitle, Op: Op(9)}}.Validate())
}

func TestFindOptions_Validate(t *testing.T) {
	var nilOpts *FindOptions
	assert.NoError(t, nilOpts.Validate())
	assert.NoError(t, (&FindOptions{Sort: []SortKey{Desc(FieldPrice)}, Limit: 5}).Validate())
	assert.ErrorIs(t, (&FindOptions{Sort: []SortKey{Asc("_id")}}).Validate(), ErrUnknownField)
	assert.ErrorIs(t, (&FindOptions{Projection: []string{"nope"}}).Validate(), ErrUnknownField)
	assert.Error(t, (&FindOptions{Skip: -1}).Validate())
	assert.Error(t, (&FindOptions{Limit: -1}).Validate())
}

func TestIndexSpec_Name(t *testing.T) {
	assert.Equal(t, "title_1", NewIndexSpec(Asc(FieldTitle)).Name())
	spec := NewIndexSpec(Asc(FieldAuthor), Desc(FieldPublishedYear))
	assert.Equal(t, "author_1_published_year_-1", spec.Name())
	assert.Equal(t, []string{FieldAuthor, FieldPublishedYear}, spec.Fields())
	assert.NoError(t, spec.Validate())
	assert.Error(t, NewIndexSpec().Validate())
}

func TestPageOptions(t *testing.T) {
	p := PageOptions{Page: 2, PageSize: 5}
	require.NoError(t, p.Validate())
	assert.Equal(t, 5, p.Skip())
	assert.Equal(t, &FindOptions{Skip: 5, Limit: 5}, p.FindOptions())

	assert.Equal(t, 0, DefaultPageOptions().Skip())
	assert.ErrorIs(t, PageOptions{Page: 0, PageSize: 5}.Validate(), ErrInvalidPage)
	assert.ErrorIs(t, PageOptions{Page: 1, PageSize: 0}.Validate(), ErrInvalidPage)
	assert.ErrorIs(t, PageOptions{Page: 1, PageSize: MaxPageSize + 1}.Validate(), ErrInvalidPage)
}

func TestErrors_Unwrap(t *testing.T) {
	base := errors.New("boom")

	ie := &InsertError{Op: "insert", Collection: "books", Err: base}
	assert.ErrorIs(t, ie, base)
	assert.Equal(t, "insert books: boom", ie.Error())

	qe := &QueryError{Step: "books-by-genre", Err: base}
	assert.ErrorIs(t, qe, base)
	assert.Equal(t, "query books-by-genre: boom", qe.Error())
}
