package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/adfharrison1/bookshelf/pkg/seeder"
)

// SeedResponse is the body of POST /seed
type SeedResponse struct {
	Inserted int `json:"inserted"`
}

// HandleSeed resets the collection to the canonical fixture
func (h *Handler) HandleSeed(w http.ResponseWriter, r *http.Request) {
	inserted, err := seeder.Reset(r.Context(), h.store, h.fixture())
	if err != nil {
		zap.S().Errorf("Seeding failed: %v", err)
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, SeedResponse{Inserted: len(inserted)})
}
