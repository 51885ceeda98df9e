package api

import (
	"context"

	"github.com/adfharrison1/bookshelf/pkg/domain"
)

// MockStore fails every call with err and counts calls
type MockStore struct {
	err   error
	calls int
}

func (m *MockStore) Count(ctx context.Context, filter domain.Filter) (int64, error) {
	m.calls++
	return 0, m.err
}

func (m *MockStore) Find(ctx context.Context, filter domain.Filter, opts *domain.FindOptions) ([]domain.Book, error) {
	m.calls++
	return nil, m.err
}

func (m *MockStore) InsertMany(ctx context.Context, books []domain.Book) ([]domain.Book, error) {
	m.calls++
	return nil, m.err
}

func (m *MockStore) DeleteMany(ctx context.Context, filter domain.Filter) (int64, error) {
	m.calls++
	return 0, m.err
}

func (m *MockStore) DeleteOne(ctx context.Context, filter domain.Filter) (int64, error) {
	m.calls++
	return 0, m.err
}

func (m *MockStore) UpdateOne(ctx context.Context, filter domain.Filter, set domain.Document) (*domain.Book, error) {
	m.calls++
	return nil, m.err
}

func (m *MockStore) CreateIndex(ctx context.Context, spec domain.IndexSpec) (string, error) {
	m.calls++
	return "", m.err
}

func (m *MockStore) Explain(ctx context.Context, filter domain.Filter) (*domain.ExplainStats, error) {
	m.calls++
	return nil, m.err
}
