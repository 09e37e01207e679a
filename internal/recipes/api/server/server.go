package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Leopold1975/recipes_control/internal/pkg/config"
	"github.com/Leopold1975/recipes_control/internal/recipes/domain/models"
	"github.com/Leopold1975/recipes_control/internal/recipes/services/authservice"
	"github.com/Leopold1975/recipes_control/internal/recipes/services/recipeservice"
	"github.com/Leopold1975/recipes_control/internal/recipes/services/validation"
	"github.com/Leopold1975/recipes_control/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type Server struct {
	serv    *http.Server
	auth    AuthService
	catalog CatalogService
	recipes RecipeService
}

type AuthService interface {
	Register(context.Context, authservice.RegisterRequest) (models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, token string) (models.User, error)
	Profile(ctx context.Context, userID int64) (models.User, error)
	UpdateProfile(context.Context, int64, authservice.UpdateProfileRequest) (models.User, error)
}

type CatalogService interface {
	ListTags(ctx context.Context, ownerID int64, assignedOnly bool) ([]models.Item, error)
	CreateTag(ctx context.Context, ownerID int64, name string) (models.Item, error)
	ListIngredients(ctx context.Context, ownerID int64, assignedOnly bool) ([]models.Item, error)
	CreateIngredient(ctx context.Context, ownerID int64, name string) (models.Item, error)
}

type RecipeService interface {
	List(ctx context.Context, ownerID int64) ([]models.Recipe, error)
	Get(ctx context.Context, ownerID, id int64) (models.RecipeDetail, error)
	Create(context.Context, int64, recipeservice.CreateRecipeRequest) (models.Recipe, error)
	Update(ctx context.Context, ownerID, id int64,
		req recipeservice.UpdateRecipeRequest, partial bool) (models.Recipe, error)
	Delete(ctx context.Context, ownerID, id int64) error
	UploadImage(ctx context.Context, ownerID, id int64, data []byte) (models.Recipe, error)
	Shutdown(context.Context) error
}

func New(cfg config.Server, as AuthService, cs CatalogService, rcs RecipeService, lg logger.Logger) *Server {
	s := Server{ //nolint:exhaustruct
		auth:    as,
		catalog: cs,
		recipes: rcs,
	}

	r := chi.NewRouter()
	r.Use(loggingMiddleware(lg))

	r.Post("/users/create", s.createUser)
	r.Post("/users/token", s.createToken)

	r.Group(func(r chi.Router) {
		r.Use(s.tokenAuth)

		r.Get("/users/profile", s.getProfile)
		r.Patch("/users/profile", s.updateProfile)
		r.Put("/users/profile", s.updateProfile)

		r.Route("/recipe", func(r chi.Router) {
			r.Get("/tags", s.listTags)
			r.Post("/tags", s.createTag)
			r.Get("/ingredients", s.listIngredients)
			r.Post("/ingredients", s.createIngredient)

			r.Get("/recipes", s.listRecipes)
			r.Post("/recipes", s.createRecipe)

			r.Route("/recipes/{recipeID}", func(r chi.Router) {
				r.Get("/", s.getRecipe)
				r.Put("/", s.replaceRecipe)
				r.Patch("/", s.patchRecipe)
				r.Delete("/", s.deleteRecipe)
				r.Post("/upload-image", s.uploadImage)
			})
		})
	})

	s.serv = &http.Server{ //nolint:exhaustruct
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &s
}

// Handler exposes the routed handler, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.serv.Handler
}

func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error)

	go func() {
		if err := s.serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			close(errCh)
		}
	}()

	select {
	case <-ctx.Done():
		ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
		defer cancel()

		if err := s.Shutdown(ctxS); err != nil { //nolint:contextcheck
			return fmt.Errorf("context error: %w server error %w", ctxS.Err(), err)
		}

		if !errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("context cancelled error: %w", ctx.Err())
		}

		return nil
	case err := <-errCh:
		return fmt.Errorf("listen and serve error: %w", err)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctxS, cancel := context.WithTimeout(ctx, s.serv.IdleTimeout)
	defer cancel()

	if err := s.serv.Shutdown(ctxS); err != nil {
		return fmt.Errorf("shutdown server error: %w", err)
	}

	return nil
}

// POST /users/create.
func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req authservice.RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	u, err := s.auth.Register(r.Context(), req)
	if err != nil {
		s.serviceError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, ProfileResponse{Email: u.Email, Name: u.Name})
}

// POST /users/token.
func (s *Server) createToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	token, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.serviceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, AuthTokenResponse{Token: token})
}

// GET /users/profile.
func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	u, err := s.auth.Profile(r.Context(), callerFrom(r.Context()).ID)
	if err != nil {
		s.serviceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{Email: u.Email, Name: u.Name})
}

// PATCH/PUT /users/profile.
func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req authservice.UpdateProfileRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	u, err := s.auth.UpdateProfile(r.Context(), callerFrom(r.Context()).ID, req)
	if err != nil {
		s.serviceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{Email: u.Email, Name: u.Name})
}

func (s *Server) serviceError(w http.ResponseWriter, err error) {
	vErr := new(validation.Error)

	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, vErr.Fields)
	case errors.Is(err, authservice.ErrInvalidCredentials):
		writeJSON(w, http.StatusBadRequest,
			map[string][]string{validation.NonFieldKey: {err.Error()}})
	case errors.Is(err, authservice.ErrInvalidToken):
		handleError(w, err, http.StatusUnauthorized)
	case errors.Is(err, recipeservice.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	default:
		handleError(w, err, http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(code)

	enc := json.NewEncoder(w)
	if err := enc.Encode(body); err != nil {
		w.Write(Error{err.Error()}.ToJSON()) //nolint:errcheck
	}
}

func handleError(w http.ResponseWriter, err error, code int) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(code)

	e := Error{err.Error()}

	w.Write(e.ToJSON()) //nolint:errcheck
}
