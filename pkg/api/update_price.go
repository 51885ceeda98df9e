package api

import (
	"net/http"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/adfharrison1/bookshelf/pkg/domain"
)

// PriceUpdateRequest is the body of PATCH /books/price
type PriceUpdateRequest struct {
	Price *float64 `json:"price"`
}

// HandleUpdatePrice handles PATCH requests setting the price of the first
// book with the given title
func (h *Handler) HandleUpdatePrice(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		WriteJSONError(w, http.StatusBadRequest, "title query parameter is required")
		return
	}

	var req PriceUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		zap.S().Warnf("Decoding price update body failed: %v", err)
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Price == nil {
		WriteJSONError(w, http.StatusBadRequest, "price is required")
		return
	}

	book, err := h.store.UpdateOne(r.Context(), domain.Eq(domain.FieldTitle, title), domain.Document{domain.FieldPrice: *req.Price})
	if err != nil {
		zap.S().Errorf("Price update for %q failed: %v", title, err)
		writeStoreError(w, err)
		return
	}
	if book == nil {
		WriteJSONError(w, http.StatusNotFound, "no book titled "+title)
		return
	}

	zap.S().Infof("Updated price of %q to %.2f", title, book.Price)
	writeJSON(w, http.StatusOK, book)
}
