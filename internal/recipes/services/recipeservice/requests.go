package recipeservice

import (
	"strings"

	"github.com/Leopold1975/recipes_control/internal/recipes/domain/models"
)

type CreateRecipeRequest struct {
	Title        string          `json:"title"`
	PrepTimeMins *int            `json:"prep_time_mins"` //nolint:tagliatelle
	CookTimeMins *int            `json:"cook_time_mins"` //nolint:tagliatelle
	Price        *models.Decimal `json:"price"`
	Link         string          `json:"link"`
	Tags         []int64         `json:"tags"`
	Ingredients  []int64         `json:"ingredients"`
}

// UpdateRecipeRequest distinguishes "absent" from "zero" with pointers
// so PATCH can leave unmentioned fields alone.
type UpdateRecipeRequest struct {
	Title        *string         `json:"title"`
	PrepTimeMins *int            `json:"prep_time_mins"` //nolint:tagliatelle
	CookTimeMins *int            `json:"cook_time_mins"` //nolint:tagliatelle
	Price        *models.Decimal `json:"price"`
	Link         *string         `json:"link"`
	Tags         *[]int64        `json:"tags"`
	Ingredients  *[]int64        `json:"ingredients"`
}

const (
	priceMaxDigits     = 6
	priceDecimalPlaces = 2
)

// validPrice accepts a fixed-point value storable as NUMERIC(6,2):
// at most 4 integer digits and 2 fractional ones.
func validPrice(s string) bool {
	if s == "" {
		return false
	}

	intPart, fracPart := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot+1:]
	}

	if intPart == "" && fracPart == "" {
		return false
	}

	for _, part := range []string{intPart, fracPart} {
		for _, c := range part {
			if c < '0' || c > '9' {
				return false
			}
		}
	}

	if len(fracPart) > priceDecimalPlaces {
		return false
	}

	return len(intPart) <= priceMaxDigits-priceDecimalPlaces
}
