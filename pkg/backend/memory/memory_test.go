package memory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/bookshelf/pkg/domain"
	"github.com/adfharrison1/bookshelf/pkg/fixture"
	"github.com/adfharrison1/bookshelf/pkg/storage"
)

func openStore(t *testing.T, options ...storage.StorageOption) (*Session, domain.BookStore) {
	t.Helper()
	sess, err := NewConnector("books", options...).Connect(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close(context.Background()) })
	return sess.(*Session), sess.Books()
}

func TestStore_InsertAndFind(t *testing.T) {
	_, store := openStore(t)
	ctx := context.Background()

	inserted, err := store.InsertMany(ctx, fixture.Books())
	require.NoError(t, err)
	require.Len(t, inserted, fixture.Size)
	for _, b := range inserted {
		assert.NotEmpty(t, b.ID)
	}

	all, err := store.Find(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, all, fixture.Size)
	for i, b := range fixture.Books() {
		b.ID = inserted[i].ID
		assert.Equal(t, b, all[i])
	}

	n, err := store.Count(ctx, domain.Eq(domain.FieldGenre, "Fiction"))
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	stats := store.(*Store).Stats()
	assert.Equal(t, []string{"books"}, stats["collection_names"])
	assert.EqualValues(t, fixture.Size, stats["collection_documents"])
}

func TestStore_InsertManyRejectsInvalidBatch(t *testing.T) {
	_, store := openStore(t)
	ctx := context.Background()

	books := fixture.Books()
	books[5].Price = -1
	_, err := store.InsertMany(ctx, books)
	require.ErrorIs(t, err, domain.ErrInvalidDocument)

	n, err := store.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n, "nothing from a failed batch is stored")
}

func TestStore_RejectsUnknownFields(t *testing.T) {
	_, store := openStore(t)
	ctx := context.Background()

	_, err := store.Count(ctx, domain.Eq("isbn", "123"))
	assert.ErrorIs(t, err, domain.ErrUnknownField)

	_, err = store.Find(ctx, nil, &domain.FindOptions{Projection: []string{"isbn"}})
	assert.ErrorIs(t, err, domain.ErrUnknownField)

	_, err = store.UpdateOne(ctx, domain.Eq(domain.FieldTitle, "1984"), domain.Document{"_id": "x"})
	assert.ErrorIs(t, err, domain.ErrUnknownField)
}

func TestStore_UpdateOne(t *testing.T) {
	_, store := openStore(t)
	ctx := context.Background()
	_, err := store.InsertMany(ctx, fixture.Books())
	require.NoError(t, err)

	before, err := store.Find(ctx, domain.Eq(domain.FieldTitle, "1984"), nil)
	require.NoError(t, err)
	require.Len(t, before, 1)

	updated, err := store.UpdateOne(ctx, domain.Eq(domain.FieldTitle, "1984"), domain.Document{domain.FieldPrice: 15.99})
	require.NoError(t, err)
	require.NotNil(t, updated)

	want := before[0]
	want.Price = 15.99
	assert.Equal(t, want, *updated)

	none, err := store.UpdateOne(ctx, domain.Eq(domain.FieldTitle, "Missing"), domain.Document{domain.FieldPrice: 1.0})
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestStore_DeleteAndIndexes(t *testing.T) {
	_, store := openStore(t)
	ctx := context.Background()
	_, err := store.InsertMany(ctx, fixture.Books())
	require.NoError(t, err)

	name, err := store.CreateIndex(ctx, domain.NewIndexSpec(domain.Asc(domain.FieldTitle)))
	require.NoError(t, err)
	assert.Equal(t, "title_1", name)

	stats, err := store.Explain(ctx, domain.Eq(domain.FieldTitle, "1984"))
	require.NoError(t, err)
	assert.Equal(t, "title_1", stats.IndexName)
	assert.Equal(t, int64(1), stats.DocsExamined)
	assert.Equal(t, int64(1), stats.DocsReturned)

	n, err := store.DeleteOne(ctx, domain.Eq(domain.FieldTitle, "Moby Dick"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = store.DeleteOne(ctx, domain.Eq(domain.FieldTitle, "Moby Dick"))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = store.DeleteMany(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(fixture.Size-1), n)
}

func TestSession_PersistsAcrossConnections(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "books.godb")
	conn := NewConnector("books", storage.WithDataFile(path))

	sess, err := conn.Connect(ctx)
	require.NoError(t, err)
	_, err = sess.Books().InsertMany(ctx, fixture.Books())
	require.NoError(t, err)
	_, err = sess.Books().CreateIndex(ctx, domain.NewIndexSpec(domain.Asc(domain.FieldTitle)))
	require.NoError(t, err)
	require.NoError(t, sess.Close(ctx))

	sess, err = conn.Connect(ctx)
	require.NoError(t, err)
	defer sess.Close(ctx)

	n, err := sess.Books().Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(fixture.Size), n)

	stats, err := sess.Books().Explain(ctx, domain.Eq(domain.FieldTitle, "1984"))
	require.NoError(t, err)
	assert.Equal(t, "title_1", stats.IndexName)
}

func TestConnect_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewConnector("books").Connect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
