package reciperepo

import "errors"

var (
	// ErrNotFound covers both a missing recipe and a recipe owned by
	// somebody else; callers cannot tell the two apart.
	ErrNotFound = errors.New("recipe not found")
	// ErrBadReference means a tag or ingredient id in the request does
	// not exist.
	ErrBadReference = errors.New("referenced item does not exist")
)

// UpdateRequest carries a partial or full recipe update. Nil pointer
// fields are left untouched on a partial update; Replace rewrites
// every column and the relation sets (a nil list then means "clear").
type UpdateRequest struct {
	OwnerID      int64
	ID           int64
	Title        *string
	PrepTimeMins *int
	CookTimeMins *int
	Price        *string
	Link         *string
	Tags         *[]int64
	Ingredients  *[]int64
	Replace      bool
}
