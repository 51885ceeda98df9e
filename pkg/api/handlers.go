package api

import (
	"github.com/adfharrison1/bookshelf/pkg/domain"
	"github.com/adfharrison1/bookshelf/pkg/fixture"
)

// Handler provides HTTP handlers for the bookshelf inspection API
type Handler struct {
	store   domain.BookStore
	fixture func() []domain.Book
}

// NewHandler creates a handler serving store. POST /seed resets it to the
// canonical fixture.
func NewHandler(store domain.BookStore) *Handler {
	return &Handler{
		store:   store,
		fixture: fixture.Books,
	}
}
