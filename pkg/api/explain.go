package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/adfharrison1/bookshelf/pkg/domain"
)

// ExplainResponse is the body of GET /explain
type ExplainResponse struct {
	Filter          string  `json:"filter"`
	ExecutionTime   string  `json:"execution_time"`
	ExecutionTimeMs float64 `json:"execution_time_ms"`
	DocsExamined    int64   `json:"docs_examined"`
	DocsReturned    int64   `json:"docs_returned"`
	IndexName       string  `json:"index_name,omitempty"`
}

// HandleExplain reports how a lookup by title is executed
func (h *Handler) HandleExplain(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		WriteJSONError(w, http.StatusBadRequest, "title query parameter is required")
		return
	}

	filter := domain.Eq(domain.FieldTitle, title)
	stats, err := h.store.Explain(r.Context(), filter)
	if err != nil {
		zap.S().Errorf("Explain of %s failed: %v", filter, err)
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ExplainResponse{
		Filter:          filter.String(),
		ExecutionTime:   stats.ExecutionTime.String(),
		ExecutionTimeMs: float64(stats.ExecutionTime.Microseconds()) / 1000,
		DocsExamined:    stats.DocsExamined,
		DocsReturned:    stats.DocsReturned,
		IndexName:       stats.IndexName,
	})
}
