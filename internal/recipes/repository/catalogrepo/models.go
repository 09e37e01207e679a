package catalogrepo

// Kind binds the shared catalog repository to a concrete table. Tags
// and ingredients are the same shape, so one repository serves both.
type Kind struct {
	Table       string
	AssocTable  string
	AssocColumn string
}

var (
	Tags = Kind{
		Table:       "tags",
		AssocTable:  "recipe_tags",
		AssocColumn: "tag_id",
	}
	Ingredients = Kind{
		Table:       "ingredients",
		AssocTable:  "recipe_ingredients",
		AssocColumn: "ingredient_id",
	}
)
