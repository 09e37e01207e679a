package catalogservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/Leopold1975/recipes_control/internal/recipes/domain/models"
	"github.com/Leopold1975/recipes_control/internal/recipes/services/validation"
)

// Repository is the ownership-scoped store shared by tags and
// ingredients; the owner filter lives in the store, not here.
type Repository interface {
	List(ctx context.Context, ownerID int64, assignedOnly bool) ([]models.Item, error)
	Create(ctx context.Context, item models.Item) (models.Item, error)
}

type CatalogService struct {
	tags        Repository
	ingredients Repository
}

func New(tags, ingredients Repository) *CatalogService {
	return &CatalogService{
		tags:        tags,
		ingredients: ingredients,
	}
}

func (cs *CatalogService) ListTags(ctx context.Context, ownerID int64, assignedOnly bool) ([]models.Item, error) {
	return cs.list(ctx, cs.tags, ownerID, assignedOnly)
}

func (cs *CatalogService) CreateTag(ctx context.Context, ownerID int64, name string) (models.Item, error) {
	return cs.create(ctx, cs.tags, ownerID, name)
}

func (cs *CatalogService) ListIngredients(ctx context.Context, ownerID int64, assignedOnly bool) ([]models.Item, error) {
	return cs.list(ctx, cs.ingredients, ownerID, assignedOnly)
}

func (cs *CatalogService) CreateIngredient(ctx context.Context, ownerID int64, name string) (models.Item, error) {
	return cs.create(ctx, cs.ingredients, ownerID, name)
}

func (cs *CatalogService) list(ctx context.Context, repo Repository,
	ownerID int64, assignedOnly bool,
) ([]models.Item, error) {
	items, err := repo.List(ctx, ownerID, assignedOnly)
	if err != nil {
		return nil, fmt.Errorf("list items error: %w", err)
	}

	return items, nil
}

// create assigns ownership from the caller; any owner in the request
// body is ignored.
func (cs *CatalogService) create(ctx context.Context, repo Repository,
	ownerID int64, name string,
) (models.Item, error) {
	if strings.TrimSpace(name) == "" {
		return models.Item{}, validation.New("name", "this field may not be blank")
	}

	item, err := repo.Create(ctx, models.Item{ //nolint:exhaustruct
		Name:   name,
		UserID: ownerID,
	})
	if err != nil {
		return models.Item{}, fmt.Errorf("create item error: %w", err)
	}

	return item, nil
}
