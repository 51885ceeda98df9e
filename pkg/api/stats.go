package api

import (
	"net/http"
)

// statsProvider is implemented by stores that can describe their engine.
type statsProvider interface {
	Stats() map[string]interface{}
}

// HandleStats returns engine statistics when the backend exposes them
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	sp, ok := h.store.(statsProvider)
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "backend does not report statistics")
		return
	}
	writeJSON(w, http.StatusOK, sp.Stats())
}
