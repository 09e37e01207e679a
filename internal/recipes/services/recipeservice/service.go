package recipeservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder

	"github.com/Leopold1975/recipes_control/internal/recipes/domain/models"
	"github.com/Leopold1975/recipes_control/internal/recipes/repository/imagestore"
	repo "github.com/Leopold1975/recipes_control/internal/recipes/repository/reciperepo"
	"github.com/Leopold1975/recipes_control/internal/recipes/services/validation"
	"github.com/Leopold1975/recipes_control/pkg/logger"
)

var ErrNotFound = errors.New("recipe not found")

type Repository interface {
	List(ctx context.Context, ownerID int64) ([]models.Recipe, error)
	Get(ctx context.Context, ownerID, id int64) (models.RecipeDetail, error)
	Create(ctx context.Context, r models.Recipe, tagIDs, ingredientIDs []int64) (int64, error)
	Update(ctx context.Context, req repo.UpdateRequest) error
	Delete(ctx context.Context, ownerID, id int64) error
	SetImage(ctx context.Context, ownerID, id int64, ref string) error
	Shutdown(ctx context.Context) error
}

type ImageStore interface {
	Save(ctx context.Context, key string, data []byte) (string, error)
}

type RecipeService struct {
	recipeRepo Repository
	images     ImageStore
	lg         logger.Logger
}

func New(recipeRepo Repository, images ImageStore, lg logger.Logger) *RecipeService {
	return &RecipeService{
		recipeRepo: recipeRepo,
		images:     images,
		lg:         lg,
	}
}

func (rs *RecipeService) List(ctx context.Context, ownerID int64) ([]models.Recipe, error) {
	recipes, err := rs.recipeRepo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list recipes error: %w", err)
	}

	return recipes, nil
}

func (rs *RecipeService) Get(ctx context.Context, ownerID, id int64) (models.RecipeDetail, error) {
	rd, err := rs.recipeRepo.Get(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.RecipeDetail{}, ErrNotFound
		}

		return models.RecipeDetail{}, fmt.Errorf("get recipe error: %w", err)
	}

	return rd, nil
}

// Create persists a recipe for the caller. Tag and ingredient ids may
// reference any user's items; ownership of referenced items is not
// checked, matching how the service has always behaved.
func (rs *RecipeService) Create(ctx context.Context, ownerID int64, req CreateRecipeRequest) (models.Recipe, error) {
	vErr := &validation.Error{Fields: make(map[string][]string)}

	if req.Title == "" {
		vErr.Add("title", "this field is required")
	}

	if req.PrepTimeMins == nil {
		vErr.Add("prep_time_mins", "this field is required")
	}

	if req.CookTimeMins == nil {
		vErr.Add("cook_time_mins", "this field is required")
	}

	switch {
	case req.Price == nil:
		vErr.Add("price", "this field is required")
	case !validPrice(string(*req.Price)):
		vErr.Add("price", "a valid price is required")
	}

	if !vErr.Empty() {
		return models.Recipe{}, vErr
	}

	r := models.Recipe{ //nolint:exhaustruct
		Title:        req.Title,
		PrepTimeMins: *req.PrepTimeMins,
		CookTimeMins: *req.CookTimeMins,
		Price:        *req.Price,
		Link:         req.Link,
		UserID:       ownerID,
	}

	id, err := rs.recipeRepo.Create(ctx, r, req.Tags, req.Ingredients)
	if err != nil {
		if errors.Is(err, repo.ErrBadReference) {
			return models.Recipe{}, validation.NonField("invalid tag or ingredient identifier")
		}

		return models.Recipe{}, fmt.Errorf("create recipe error: %w", err)
	}

	rd, err := rs.recipeRepo.Get(ctx, ownerID, id)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("get recipe error: %w", err)
	}

	return rd.Flat(), nil
}

// Update applies a partial update, or a full replace when partial is
// false. A full replace reverts omitted fields to their defaults,
// clearing the tag and ingredient relations when they are not resupplied.
func (rs *RecipeService) Update(ctx context.Context, ownerID, id int64,
	req UpdateRecipeRequest, partial bool,
) (models.Recipe, error) {
	vErr := &validation.Error{Fields: make(map[string][]string)}

	if !partial {
		if req.Title == nil {
			vErr.Add("title", "this field is required")
		}

		if req.PrepTimeMins == nil {
			vErr.Add("prep_time_mins", "this field is required")
		}

		if req.CookTimeMins == nil {
			vErr.Add("cook_time_mins", "this field is required")
		}

		if req.Price == nil {
			vErr.Add("price", "this field is required")
		}

		if req.Link == nil {
			link := ""
			req.Link = &link
		}
	}

	if req.Title != nil && *req.Title == "" {
		vErr.Add("title", "this field may not be blank")
	}

	if req.Price != nil && !validPrice(string(*req.Price)) {
		vErr.Add("price", "a valid price is required")
	}

	if !vErr.Empty() {
		return models.Recipe{}, vErr
	}

	upd := repo.UpdateRequest{
		OwnerID:      ownerID,
		ID:           id,
		Title:        req.Title,
		PrepTimeMins: req.PrepTimeMins,
		CookTimeMins: req.CookTimeMins,
		Price:        (*string)(req.Price),
		Link:         req.Link,
		Tags:         req.Tags,
		Ingredients:  req.Ingredients,
		Replace:      !partial,
	}

	if err := rs.recipeRepo.Update(ctx, upd); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return models.Recipe{}, ErrNotFound
		case errors.Is(err, repo.ErrBadReference):
			return models.Recipe{}, validation.NonField("invalid tag or ingredient identifier")
		}

		return models.Recipe{}, fmt.Errorf("update recipe error: %w", err)
	}

	rd, err := rs.recipeRepo.Get(ctx, ownerID, id)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("get recipe error: %w", err)
	}

	return rd.Flat(), nil
}

func (rs *RecipeService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := rs.recipeRepo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}

		return fmt.Errorf("delete recipe error: %w", err)
	}

	return nil
}

// UploadImage validates the payload as a decodable image and stores it
// under a random key. The file is written before the row commits, so a
// crash in between orphans the file; a replaced image's old file is
// orphaned as well.
func (rs *RecipeService) UploadImage(ctx context.Context, ownerID, id int64, data []byte) (models.Recipe, error) {
	rd, err := rs.recipeRepo.Get(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Recipe{}, ErrNotFound
		}

		return models.Recipe{}, fmt.Errorf("get recipe error: %w", err)
	}

	_, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return models.Recipe{}, validation.New("image", "upload a valid image")
	}

	ext := "." + format
	if format == "jpeg" {
		ext = ".jpg"
	}

	key := imagestore.RandomKey(ext)

	ref, err := rs.images.Save(ctx, key, data)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("save image error: %w", err)
	}

	if err := rs.recipeRepo.SetImage(ctx, ownerID, id, ref); err != nil {
		return models.Recipe{}, fmt.Errorf("set image error: %w", err)
	}

	if rd.Image != "" {
		rs.lg.Warnf("recipe %d image replaced, previous file %s orphaned", id, rd.Image)
	}

	rd.Image = ref

	return rd.Flat(), nil
}

func (rs *RecipeService) Shutdown(ctx context.Context) error {
	if err := rs.recipeRepo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown recipe repo error: %w", err)
	}

	return nil
}
