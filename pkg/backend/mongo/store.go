package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adfharrison1/bookshelf/pkg/domain"
)

// Store implements domain.BookStore on one collection.
type Store struct {
	coll *mongo.Collection
}

// Name returns the collection name.
func (s *Store) Name() string { return s.coll.Name() }

// Count implements domain.BookStore.
func (s *Store) Count(ctx context.Context, filter domain.Filter) (int64, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}
	n, err := s.coll.CountDocuments(ctx, filterDoc(filter))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", s.Name(), err)
	}
	return n, nil
}

// Find implements domain.BookStore.
func (s *Store) Find(ctx context.Context, filter domain.Filter, opts *domain.FindOptions) ([]domain.Book, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &domain.FindOptions{}
	}

	findOpts := options.Find().SetSort(sortDoc(opts.Sort))
	if opts.Skip > 0 {
		findOpts.SetSkip(int64(opts.Skip))
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}
	if p := projectionDoc(opts.Projection); p != nil {
		findOpts.SetProjection(p)
	}

	cursor, err := s.coll.Find(ctx, filterDoc(filter), findOpts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", s.Name(), err)
	}
	defer cursor.Close(ctx)

	books := []domain.Book{}
	for cursor.Next(ctx) {
		var r record
		if err := cursor.Decode(&r); err != nil {
			return nil, fmt.Errorf("decode book: %w", err)
		}
		books = append(books, r.book())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}

// InsertMany implements domain.BookStore. The whole batch is validated
// before anything is sent; the server insert itself is ordered but not
// transactional.
func (s *Store) InsertMany(ctx context.Context, books []domain.Book) ([]domain.Book, error) {
	if err := domain.ValidateAll(books); err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return []domain.Book{}, nil
	}

	docs := make([]interface{}, len(books))
	out := make([]domain.Book, len(books))
	for i, b := range books {
		r, err := recordFromBook(b)
		if err != nil {
			return nil, fmt.Errorf("record %d (%q): invalid id: %w", i, b.Title, err)
		}
		docs[i] = r
		out[i] = r.book()
	}
	if _, err := s.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return nil, fmt.Errorf("insert into %s: %w", s.Name(), err)
	}
	return out, nil
}

// DeleteMany implements domain.BookStore.
func (s *Store) DeleteMany(ctx context.Context, filter domain.Filter) (int64, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}
	res, err := s.coll.DeleteMany(ctx, filterDoc(filter))
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", s.Name(), err)
	}
	return res.DeletedCount, nil
}

// DeleteOne implements domain.BookStore. The first match by _id is
// removed, which is insertion order for generated ObjectIDs.
func (s *Store) DeleteOne(ctx context.Context, filter domain.Filter) (int64, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}
	var first record
	err := s.coll.FindOne(ctx, filterDoc(filter),
		options.FindOne().SetSort(sortDoc(nil)).SetProjection(bson.D{{Key: "_id", Value: 1}}),
	).Decode(&first)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("find first match: %w", err)
	}
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: first.ID}})
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", s.Name(), err)
	}
	return res.DeletedCount, nil
}

// UpdateOne implements domain.BookStore.
func (s *Store) UpdateOne(ctx context.Context, filter domain.Filter, set domain.Document) (*domain.Book, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	set, err := domain.NormalizeUpdate(set)
	if err != nil {
		return nil, err
	}

	update := bson.D{{Key: "$set", Value: bson.M(set)}}
	opts := options.FindOneAndUpdate().
		SetSort(sortDoc(nil)).
		SetReturnDocument(options.After)

	var r record
	err = s.coll.FindOneAndUpdate(ctx, filterDoc(filter), update, opts).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", s.Name(), err)
	}
	b := r.book()
	return &b, nil
}

// CreateIndex implements domain.BookStore.
func (s *Store) CreateIndex(ctx context.Context, spec domain.IndexSpec) (string, error) {
	if err := spec.Validate(); err != nil {
		return "", err
	}
	model := mongo.IndexModel{
		Keys:    indexKeys(spec),
		Options: options.Index().SetName(spec.Name()),
	}
	name, err := s.coll.Indexes().CreateOne(ctx, model)
	if err != nil {
		return "", fmt.Errorf("create index %s: %w", spec.Name(), err)
	}
	return name, nil
}

type explainResult struct {
	QueryPlanner struct {
		WinningPlan bson.M `bson:"winningPlan"`
	} `bson:"queryPlanner"`
	ExecutionStats struct {
		ExecutionTimeMillis int64 `bson:"executionTimeMillis"`
		TotalDocsExamined   int64 `bson:"totalDocsExamined"`
		NReturned           int64 `bson:"nReturned"`
	} `bson:"executionStats"`
}

// Explain runs the find command under explain with executionStats
// verbosity.
func (s *Store) Explain(ctx context.Context, filter domain.Filter) (*domain.ExplainStats, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	cmd := bson.D{
		{Key: "explain", Value: bson.D{
			{Key: "find", Value: s.Name()},
			{Key: "filter", Value: filterDoc(filter)},
		}},
		{Key: "verbosity", Value: "executionStats"},
	}
	var res explainResult
	if err := s.coll.Database().RunCommand(ctx, cmd).Decode(&res); err != nil {
		return nil, fmt.Errorf("explain on %s: %w", s.Name(), err)
	}
	return &domain.ExplainStats{
		ExecutionTime: time.Duration(res.ExecutionStats.ExecutionTimeMillis) * time.Millisecond,
		DocsExamined:  res.ExecutionStats.TotalDocsExamined,
		DocsReturned:  res.ExecutionStats.NReturned,
		IndexName:     findIndexName(res.QueryPlanner.WinningPlan),
	}, nil
}
