package seeder

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/bookshelf/pkg/backend/memory"
	"github.com/adfharrison1/bookshelf/pkg/domain"
	"github.com/adfharrison1/bookshelf/pkg/fixture"
	"github.com/adfharrison1/bookshelf/pkg/storage"
)

func newStore() domain.BookStore {
	return memory.NewStore(storage.NewStorageEngine(), "books")
}

// failingStore rejects every write.
type failingStore struct {
	domain.BookStore
	err error
}

func (f failingStore) DeleteMany(ctx context.Context, filter domain.Filter) (int64, error) {
	return 0, f.err
}

func (f failingStore) InsertMany(ctx context.Context, books []domain.Book) ([]domain.Book, error) {
	return nil, f.err
}

func TestRun_SeedsFixture(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	var out bytes.Buffer

	inserted, err := Run(ctx, store, fixture.Books(), &out)
	require.NoError(t, err)
	assert.Len(t, inserted, fixture.Size)

	n, err := store.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)

	all, err := store.Find(ctx, nil, nil)
	require.NoError(t, err)
	for i := range all {
		assert.NotEmpty(t, all[i].ID)
		all[i].ID = ""
	}
	assert.ElementsMatch(t, fixture.Books(), all)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 13)
	assert.Equal(t, "12 books successfully inserted!", lines[0])
	assert.Equal(t, `1. "To Kill a Mockingbird" by Harper Lee (1960)`, lines[1])
	assert.Equal(t, `12. "Wuthering Heights" by Emily Brontë (1847)`, lines[12])
}

func TestRun_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newStore()

	for i := 0; i < 3; i++ {
		_, err := Run(ctx, store, fixture.Books(), &bytes.Buffer{})
		require.NoError(t, err)
	}
	n, err := store.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(fixture.Size), n)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	store := newStore()

	n, err := Clear(ctx, store)
	require.NoError(t, err, "clearing an empty collection is fine")
	assert.Zero(t, n)

	_, err = Seed(ctx, store, fixture.Books())
	require.NoError(t, err)
	n, err = Clear(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)

	count, err := store.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSeed_InvalidBatch(t *testing.T) {
	ctx := context.Background()
	store := newStore()

	books := fixture.Books()
	books[2].Pages = 0
	_, err := Seed(ctx, store, books)

	var insertErr *domain.InsertError
	require.ErrorAs(t, err, &insertErr)
	assert.Equal(t, "insert", insertErr.Op)
	assert.Equal(t, "books", insertErr.Collection)
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)

	n, err := store.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRun_ClearFailure(t *testing.T) {
	refused := errors.New("connection refused")
	var out bytes.Buffer

	_, err := Run(context.Background(), failingStore{err: refused}, fixture.Books(), &out)

	var insertErr *domain.InsertError
	require.ErrorAs(t, err, &insertErr)
	assert.Equal(t, "clear", insertErr.Op)
	assert.ErrorIs(t, err, refused)
	assert.Empty(t, out.String())
}
