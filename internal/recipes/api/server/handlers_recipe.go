package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/Leopold1975/recipes_control/internal/recipes/services/recipeservice"
	"github.com/go-chi/chi/v5"
)

const maxImageSize = 10 << 20

func recipeIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "recipeID"), 10, 64)

	return id, err == nil
}

// GET /recipe/recipes.
func (s *Server) listRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.recipes.List(r.Context(), callerFrom(r.Context()).ID)
	if err != nil {
		s.serviceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, recipes)
}

// POST /recipe/recipes.
func (s *Server) createRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipeservice.CreateRecipeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	recipe, err := s.recipes.Create(r.Context(), callerFrom(r.Context()).ID, req)
	if err != nil {
		s.serviceError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, recipe)
}

// GET /recipe/recipes/{id}.
func (s *Server) getRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeIDParam(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	rd, err := s.recipes.Get(r.Context(), callerFrom(r.Context()).ID, id)
	if err != nil {
		s.serviceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, rd)
}

// PUT /recipe/recipes/{id}.
func (s *Server) replaceRecipe(w http.ResponseWriter, r *http.Request) {
	s.updateRecipe(w, r, false)
}

// PATCH /recipe/recipes/{id}.
func (s *Server) patchRecipe(w http.ResponseWriter, r *http.Request) {
	s.updateRecipe(w, r, true)
}

func (s *Server) updateRecipe(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := recipeIDParam(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	var req recipeservice.UpdateRecipeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	recipe, err := s.recipes.Update(r.Context(), callerFrom(r.Context()).ID, id, req, partial)
	if err != nil {
		s.serviceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, recipe)
}

// DELETE /recipe/recipes/{id}.
func (s *Server) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeIDParam(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	if err := s.recipes.Delete(r.Context(), callerFrom(r.Context()).ID, id); err != nil {
		s.serviceError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// POST /recipe/recipes/{id}/upload-image.
func (s *Server) uploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeIDParam(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		handleError(w, fmt.Errorf("parse multipart error: %w", err), http.StatusBadRequest)

		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		handleError(w, fmt.Errorf("image field error: %w", err), http.StatusBadRequest)

		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handleError(w, fmt.Errorf("read image error: %w", err), http.StatusBadRequest)

		return
	}

	recipe, err := s.recipes.UploadImage(r.Context(), callerFrom(r.Context()).ID, id, data)
	if err != nil {
		s.serviceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, UploadImageResponse{ID: recipe.ID, Image: recipe.Image})
}
