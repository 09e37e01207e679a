package catalogservice_test

import (
	"context"
	"testing"

	"github.com/Leopold1975/recipes_control/internal/recipes/domain/models"
	"github.com/Leopold1975/recipes_control/internal/recipes/services/catalogservice"
	"github.com/Leopold1975/recipes_control/internal/recipes/services/validation"
	"github.com/stretchr/testify/require"
)

type fakeCatalogRepo struct {
	items  []models.Item
	nextID int64

	lastOwnerID      int64
	lastAssignedOnly bool
}

func (f *fakeCatalogRepo) List(_ context.Context, ownerID int64, assignedOnly bool) ([]models.Item, error) {
	f.lastOwnerID = ownerID
	f.lastAssignedOnly = assignedOnly

	out := make([]models.Item, 0)

	for _, it := range f.items {
		if it.UserID == ownerID {
			out = append(out, it)
		}
	}

	return out, nil
}

func (f *fakeCatalogRepo) Create(_ context.Context, item models.Item) (models.Item, error) {
	f.nextID++
	item.ID = f.nextID
	f.items = append(f.items, item)

	return item, nil
}

func TestCreateTagAssignsOwner(t *testing.T) {
	tags := &fakeCatalogRepo{}
	cs := catalogservice.New(tags, &fakeCatalogRepo{})

	item, err := cs.CreateTag(context.Background(), 42, "Vegan")
	require.NoError(t, err)
	require.NotZero(t, item.ID)
	require.Equal(t, int64(42), item.UserID, "owner is server-assigned from the caller")
	require.Equal(t, "Vegan", item.Name)
}

func TestCreateBlankName(t *testing.T) {
	cs := catalogservice.New(&fakeCatalogRepo{}, &fakeCatalogRepo{})

	for _, name := range []string{"", "   ", "\t"} {
		_, err := cs.CreateIngredient(context.Background(), 1, name)

		vErr := new(validation.Error)
		require.ErrorAs(t, err, &vErr)
		require.Contains(t, vErr.Fields, "name")
	}
}

func TestListScopesToCaller(t *testing.T) {
	tags := &fakeCatalogRepo{}
	cs := catalogservice.New(tags, &fakeCatalogRepo{})

	_, err := cs.CreateTag(context.Background(), 1, "Dessert")
	require.NoError(t, err)
	_, err = cs.CreateTag(context.Background(), 2, "Breakfast")
	require.NoError(t, err)

	items, err := cs.ListTags(context.Background(), 1, false)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Dessert", items[0].Name)
	require.Equal(t, int64(1), tags.lastOwnerID)
}

func TestListAssignedOnlyPassthrough(t *testing.T) {
	ingredients := &fakeCatalogRepo{}
	cs := catalogservice.New(&fakeCatalogRepo{}, ingredients)

	_, err := cs.ListIngredients(context.Background(), 7, true)
	require.NoError(t, err)
	require.True(t, ingredients.lastAssignedOnly)
}
