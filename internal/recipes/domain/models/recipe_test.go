package models_test

import (
	"encoding/json"
	"testing"

	"github.com/Leopold1975/recipes_control/internal/recipes/domain/models"
	"github.com/stretchr/testify/require"
)

func TestDecimalAcceptsNumberAndString(t *testing.T) {
	var payload struct {
		Price models.Decimal `json:"price"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"price": 20}`), &payload))
	require.Equal(t, models.Decimal("20"), payload.Price)

	require.NoError(t, json.Unmarshal([]byte(`{"price": "20.50"}`), &payload))
	require.Equal(t, models.Decimal("20.50"), payload.Price)

	b, err := json.Marshal(payload)
	require.NoError(t, err)
	require.JSONEq(t, `{"price": "20.50"}`, string(b))
}

func TestRecipeDetailFlat(t *testing.T) {
	rd := models.RecipeDetail{
		ID:           3,
		Title:        "Sample Recipe",
		PrepTimeMins: 5,
		CookTimeMins: 15,
		Price:        "20.00",
		Tags:         []models.Item{{ID: 1, Name: "Vegan", UserID: 1}},
		Ingredients:  []models.Item{{ID: 2, Name: "Salt", UserID: 1}},
	}

	r := rd.Flat()
	require.Equal(t, rd.ID, r.ID)
	require.Equal(t, []int64{1}, r.Tags)
	require.Equal(t, []int64{2}, r.Ingredients)
}
