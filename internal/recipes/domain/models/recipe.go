package models

import (
	"encoding/json"
)

// Decimal carries a fixed-point value as its textual form so that
// NUMERIC columns round-trip without float drift. It accepts both
// JSON numbers and JSON strings on input and always emits a string.
type Decimal string

func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(d)) //nolint:wrapcheck
}

func (d *Decimal) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err //nolint:wrapcheck
		}

		*d = Decimal(s)

		return nil
	}

	*d = Decimal(b)

	return nil
}

type Recipe struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	PrepTimeMins int     `json:"prep_time_mins"` //nolint:tagliatelle
	CookTimeMins int     `json:"cook_time_mins"` //nolint:tagliatelle
	Price        Decimal `json:"price"`
	Link         string  `json:"link"`
	Image        string  `json:"image"`
	UserID       int64   `json:"-"`
	Tags         []int64 `json:"tags"`
	Ingredients  []int64 `json:"ingredients"`
}

// RecipeDetail is the expanded form: related tags and ingredients are
// embedded as full objects rather than bare identifiers.
type RecipeDetail struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	PrepTimeMins int     `json:"prep_time_mins"` //nolint:tagliatelle
	CookTimeMins int     `json:"cook_time_mins"` //nolint:tagliatelle
	Price        Decimal `json:"price"`
	Link         string  `json:"link"`
	Image        string  `json:"image"`
	UserID       int64   `json:"-"`
	Tags         []Item  `json:"tags"`
	Ingredients  []Item  `json:"ingredients"`
}

// Flat converts the expanded form back to the identifier-list form.
func (rd RecipeDetail) Flat() Recipe {
	r := Recipe{
		ID:           rd.ID,
		Title:        rd.Title,
		PrepTimeMins: rd.PrepTimeMins,
		CookTimeMins: rd.CookTimeMins,
		Price:        rd.Price,
		Link:         rd.Link,
		Image:        rd.Image,
		UserID:       rd.UserID,
		Tags:         make([]int64, 0, len(rd.Tags)),
		Ingredients:  make([]int64, 0, len(rd.Ingredients)),
	}

	for _, t := range rd.Tags {
		r.Tags = append(r.Tags, t.ID)
	}

	for _, i := range rd.Ingredients {
		r.Ingredients = append(r.Ingredients, i.ID)
	}

	return r
}
