package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/adfharrison1/bookshelf/pkg/domain"
)

// HandleFindBooks handles GET requests listing books with optional
// filtering, sorting, paging and projection
func (h *Handler) HandleFindBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := parseFilter(q)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	opts, err := parseFindOptions(q)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	books, err := h.store.Find(r.Context(), filter, opts)
	if err != nil {
		zap.S().Errorf("Find with filter %s failed: %v", filter, err)
		writeStoreError(w, err)
		return
	}

	zap.S().Infof("Found %d books with filter %s", len(books), filter)
	if len(opts.Projection) == 0 {
		writeJSON(w, http.StatusOK, books)
		return
	}
	docs := make([]domain.Document, len(books))
	for i, b := range books {
		docs[i] = b.Project(opts.Projection...)
	}
	writeJSON(w, http.StatusOK, docs)
}

// CountResponse is the body of GET /books/count
type CountResponse struct {
	Count int64 `json:"count"`
}

// HandleCountBooks handles GET requests counting books matching the filter
func (h *Handler) HandleCountBooks(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := h.store.Count(r.Context(), filter)
	if err != nil {
		zap.S().Errorf("Count with filter %s failed: %v", filter, err)
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: n})
}
