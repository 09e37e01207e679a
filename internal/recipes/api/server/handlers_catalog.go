package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type createItemRequest struct {
	Name string `json:"name"`
}

func assignedOnlyParam(r *http.Request) bool {
	v := r.URL.Query().Get("assigned_only")

	return v == "1" || v == "true"
}

// GET /recipe/tags.
func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalog.ListTags(r.Context(), callerFrom(r.Context()).ID, assignedOnlyParam(r))
	if err != nil {
		s.serviceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, items)
}

// POST /recipe/tags.
func (s *Server) createTag(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	item, err := s.catalog.CreateTag(r.Context(), callerFrom(r.Context()).ID, req.Name)
	if err != nil {
		s.serviceError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// GET /recipe/ingredients.
func (s *Server) listIngredients(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalog.ListIngredients(r.Context(), callerFrom(r.Context()).ID, assignedOnlyParam(r))
	if err != nil {
		s.serviceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, items)
}

// POST /recipe/ingredients.
func (s *Server) createIngredient(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	item, err := s.catalog.CreateIngredient(r.Context(), callerFrom(r.Context()).ID, req.Name)
	if err != nil {
		s.serviceError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, item)
}
