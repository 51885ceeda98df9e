package domain

import "context"

// BookStore is the contract between the bookshelf and a storage engine
// holding one collection of books. UpdateOne and DeleteOne act on the first
// match in natural (insertion) order.
type BookStore interface {
	Count(ctx context.Context, filter Filter) (int64, error)
	Find(ctx context.Context, filter Filter, opts *FindOptions) ([]Book, error)
	InsertMany(ctx context.Context, books []Book) ([]Book, error)
	DeleteMany(ctx context.Context, filter Filter) (int64, error)
	DeleteOne(ctx context.Context, filter Filter) (int64, error)
	// UpdateOne returns the post-update record, or nil when nothing matched.
	UpdateOne(ctx context.Context, filter Filter, set Document) (*Book, error)
	// CreateIndex is idempotent and returns the index name.
	CreateIndex(ctx context.Context, spec IndexSpec) (string, error)
	Explain(ctx context.Context, filter Filter) (*ExplainStats, error)
}

// Session is an open connection to a storage engine
type Session interface {
	Books() BookStore
	Close(ctx context.Context) error
}

// Connector establishes sessions
type Connector interface {
	Connect(ctx context.Context) (Session, error)
}
