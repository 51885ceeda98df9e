package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/adfharrison1/bookshelf/pkg/domain"
	"github.com/adfharrison1/bookshelf/pkg/report"
)

func (h *Handler) allBooks(w http.ResponseWriter, r *http.Request, fields ...string) ([]domain.Book, bool) {
	books, err := h.store.Find(r.Context(), nil, &domain.FindOptions{Projection: fields})
	if err != nil {
		zap.S().Errorf("Loading books for report failed: %v", err)
		writeStoreError(w, err)
		return nil, false
	}
	return books, true
}

// HandleGenreReport returns the average price per genre
func (h *Handler) HandleGenreReport(w http.ResponseWriter, r *http.Request) {
	books, ok := h.allBooks(w, r, domain.FieldGenre, domain.FieldPrice)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report.AveragePriceByGenre(books))
}

// HandleTopAuthor returns the author with the most books
func (h *Handler) HandleTopAuthor(w http.ResponseWriter, r *http.Request) {
	books, ok := h.allBooks(w, r, domain.FieldAuthor)
	if !ok {
		return
	}
	top, found := report.TopAuthor(books)
	if !found {
		WriteJSONError(w, http.StatusNotFound, "collection is empty")
		return
	}
	writeJSON(w, http.StatusOK, top)
}

// DecadeEntry is one row of GET /reports/decades
type DecadeEntry struct {
	Decade int    `json:"decade"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
}

// HandleDecadeReport returns the number of books per decade
func (h *Handler) HandleDecadeReport(w http.ResponseWriter, r *http.Request) {
	books, ok := h.allBooks(w, r, domain.FieldPublishedYear)
	if !ok {
		return
	}
	decades := report.BooksByDecade(books)
	out := make([]DecadeEntry, len(decades))
	for i, d := range decades {
		out[i] = DecadeEntry{Decade: d.Decade, Label: d.Label(), Count: d.Count}
	}
	writeJSON(w, http.StatusOK, out)
}
