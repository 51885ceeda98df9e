package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/adfharrison1/bookshelf/pkg/domain"
)

// DeleteResponse is the body of DELETE /books
type DeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

// HandleDeleteBook handles DELETE requests removing the first book with
// the given title. Deleting a missing title is not an error.
func (h *Handler) HandleDeleteBook(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		WriteJSONError(w, http.StatusBadRequest, "title query parameter is required")
		return
	}

	n, err := h.store.DeleteOne(r.Context(), domain.Eq(domain.FieldTitle, title))
	if err != nil {
		zap.S().Errorf("Delete of %q failed: %v", title, err)
		writeStoreError(w, err)
		return
	}

	zap.S().Infof("Deleted %d books titled %q", n, title)
	writeJSON(w, http.StatusOK, DeleteResponse{Deleted: n})
}
