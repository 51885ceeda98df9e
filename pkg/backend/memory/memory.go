// Package memory serves books from the in-process document engine.
package memory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/adfharrison1/bookshelf/pkg/domain"
	"github.com/adfharrison1/bookshelf/pkg/storage"
)

// Connector opens sessions on a fresh storage engine. When a data file is
// configured the snapshot is restored on Connect and written on Close.
type Connector struct {
	collection string
	options    []storage.StorageOption
}

// NewConnector creates a connector for the named collection.
func NewConnector(collection string, options ...storage.StorageOption) *Connector {
	return &Connector{collection: collection, options: options}
}

// Connect implements domain.Connector.
func (c *Connector) Connect(ctx context.Context) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	engine := storage.NewStorageEngine(c.options...)
	if err := engine.Restore(); err != nil {
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}
	engine.StartBackgroundWorkers()
	zap.S().Debugf("Memory engine ready, collection %s, data file %q", c.collection, engine.DataFile())
	return &Session{engine: engine, store: NewStore(engine, c.collection)}, nil
}

// Session owns one storage engine.
type Session struct {
	engine *storage.StorageEngine
	store  *Store
}

// Books implements domain.Session.
func (s *Session) Books() domain.BookStore { return s.store }

// Engine exposes the underlying engine.
func (s *Session) Engine() *storage.StorageEngine { return s.engine }

// Close stops background workers and writes the snapshot.
func (s *Session) Close(ctx context.Context) error {
	s.engine.StopBackgroundWorkers()
	if err := s.engine.Snapshot(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Store adapts one engine collection to domain.BookStore.
type Store struct {
	engine     *storage.StorageEngine
	collection string
}

// NewStore wraps an existing engine.
func NewStore(engine *storage.StorageEngine, collection string) *Store {
	return &Store{engine: engine, collection: collection}
}

// Name returns the collection name.
func (s *Store) Name() string { return s.collection }

// Count implements domain.BookStore.
func (s *Store) Count(ctx context.Context, filter domain.Filter) (int64, error) {
	if err := check(ctx, filter); err != nil {
		return 0, err
	}
	return s.engine.Count(s.collection, filter)
}

// Find implements domain.BookStore.
func (s *Store) Find(ctx context.Context, filter domain.Filter, opts *domain.FindOptions) ([]domain.Book, error) {
	if err := check(ctx, filter); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	docs, err := s.engine.Find(s.collection, filter, opts)
	if err != nil {
		return nil, err
	}
	return toBooks(docs), nil
}

// InsertMany implements domain.BookStore. The batch is validated up front
// and stored atomically.
func (s *Store) InsertMany(ctx context.Context, books []domain.Book) ([]domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := domain.ValidateAll(books); err != nil {
		return nil, err
	}
	docs := make([]domain.Document, len(books))
	for i, b := range books {
		docs[i] = b.ToDocument()
	}
	stored, err := s.engine.InsertMany(s.collection, docs)
	if err != nil {
		return nil, err
	}
	return toBooks(stored), nil
}

// DeleteMany implements domain.BookStore.
func (s *Store) DeleteMany(ctx context.Context, filter domain.Filter) (int64, error) {
	if err := check(ctx, filter); err != nil {
		return 0, err
	}
	return s.engine.DeleteMany(s.collection, filter)
}

// DeleteOne implements domain.BookStore.
func (s *Store) DeleteOne(ctx context.Context, filter domain.Filter) (int64, error) {
	if err := check(ctx, filter); err != nil {
		return 0, err
	}
	return s.engine.DeleteOne(s.collection, filter)
}

// UpdateOne implements domain.BookStore.
func (s *Store) UpdateOne(ctx context.Context, filter domain.Filter, set domain.Document) (*domain.Book, error) {
	if err := check(ctx, filter); err != nil {
		return nil, err
	}
	set, err := domain.NormalizeUpdate(set)
	if err != nil {
		return nil, err
	}
	doc, err := s.engine.UpdateOne(s.collection, filter, set)
	if err != nil || doc == nil {
		return nil, err
	}
	b := domain.BookFromDocument(doc)
	return &b, nil
}

// CreateIndex implements domain.BookStore.
func (s *Store) CreateIndex(ctx context.Context, spec domain.IndexSpec) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.engine.CreateIndex(s.collection, spec)
}

// Explain implements domain.BookStore.
func (s *Store) Explain(ctx context.Context, filter domain.Filter) (*domain.ExplainStats, error) {
	if err := check(ctx, filter); err != nil {
		return nil, err
	}
	return s.engine.Explain(s.collection, filter)
}

func check(ctx context.Context, filter domain.Filter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return filter.Validate()
}

func toBooks(docs []domain.Document) []domain.Book {
	books := make([]domain.Book, len(docs))
	for i, d := range docs {
		books[i] = domain.BookFromDocument(d)
	}
	return books
}

// Stats reports engine memory and collection statistics.
func (s *Store) Stats() map[string]interface{} {
	stats := s.engine.GetMemoryStats()
	stats["collection_names"] = s.engine.CollectionNames()
	if info, err := s.engine.GetCollectionInfo(s.collection); err == nil {
		stats["collection_documents"] = info.DocumentCount
		stats["collection_indexes"] = len(s.engine.GetIndexes(s.collection))
	}
	return stats
}
