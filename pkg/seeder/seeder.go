// Package seeder resets a book collection to a known state.
package seeder

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/adfharrison1/bookshelf/pkg/domain"
)

// CollectionName reports the collection behind store, for error messages.
func CollectionName(store domain.BookStore) string {
	if named, ok := store.(interface{ Name() string }); ok {
		return named.Name()
	}
	return "books"
}

// Clear removes every record from the collection.
func Clear(ctx context.Context, store domain.BookStore) (int64, error) {
	n, err := store.DeleteMany(ctx, nil)
	if err != nil {
		return 0, &domain.InsertError{Op: "clear", Collection: CollectionName(store), Err: err}
	}
	zap.S().Debugf("Cleared %d records from %s", n, CollectionName(store))
	return n, nil
}

// Seed inserts books as one batch and returns the stored records.
func Seed(ctx context.Context, store domain.BookStore, books []domain.Book) ([]domain.Book, error) {
	inserted, err := store.InsertMany(ctx, books)
	if err != nil {
		return nil, &domain.InsertError{Op: "insert", Collection: CollectionName(store), Err: err}
	}
	zap.S().Infof("Inserted %d records into %s", len(inserted), CollectionName(store))
	return inserted, nil
}

// Reset clears the collection and seeds it with books.
func Reset(ctx context.Context, store domain.BookStore, books []domain.Book) ([]domain.Book, error) {
	if _, err := Clear(ctx, store); err != nil {
		return nil, err
	}
	return Seed(ctx, store, books)
}

// Run resets the collection and prints a summary of what was inserted.
func Run(ctx context.Context, store domain.BookStore, books []domain.Book, out io.Writer) ([]domain.Book, error) {
	inserted, err := Reset(ctx, store, books)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "%d books successfully inserted!\n", len(inserted))
	for i, b := range inserted {
		fmt.Fprintf(out, "%d. %q by %s (%d)\n", i+1, b.Title, b.Author, b.PublishedYear)
	}
	return inserted, nil
}
