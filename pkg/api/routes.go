package api

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API routes with the given router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HandleHealth).Methods("GET")

	// Books
	router.HandleFunc("/books", h.HandleFindBooks).Methods("GET")
	router.HandleFunc("/books", h.HandleDeleteBook).Methods("DELETE")
	router.HandleFunc("/books/count", h.HandleCountBooks).Methods("GET")
	router.HandleFunc("/books/price", h.HandleUpdatePrice).Methods("PATCH")

	router.HandleFunc("/seed", h.HandleSeed).Methods("POST")

	// Reports
	router.HandleFunc("/reports/genres", h.HandleGenreReport).Methods("GET")
	router.HandleFunc("/reports/top-author", h.HandleTopAuthor).Methods("GET")
	router.HandleFunc("/reports/decades", h.HandleDecadeReport).Methods("GET")

	router.HandleFunc("/explain", h.HandleExplain).Methods("GET")
	router.HandleFunc("/stats", h.HandleStats).Methods("GET")
}
