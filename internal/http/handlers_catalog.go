package http

import (
	"net/http"

	"terapis/internal/catalog"
)

func (s *Server) handleCatalogSearch(w http.ResponseWriter, r *http.Request) {
	results := s.catalog.Search(r.URL.Query().Get("q"))
	if results == nil {
		results = []catalog.Treatment{}
	}
	NewResponse().JSON(map[string]any{"treatments": results}).Write(w)
}

func (s *Server) handleCatalogOptions(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	options := s.catalog.FindByName(name)
	if len(options) == 0 {
		errorResponse(catalog.ErrUnknownTreatment).Write(w)
		return
	}
	NewResponse().JSON(map[string]any{"name": name, "options": options}).Write(w)
}

// handleCatalogPrefill fills empty duration and nominal of an entry form
// from the selected treatment. Nothing is persisted.
func (s *Server) handleCatalogPrefill(w http.ResponseWriter, r *http.Request) {
	in, ok := parseTransactionInput(w, r)
	if !ok {
		return
	}
	out, err := s.catalog.Prefill(in)
	if err != nil {
		errorResponse(err).Write(w)
		return
	}
	NewResponse().JSON(out).Write(w)
}
