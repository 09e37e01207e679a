package imagestore

import (
	"github.com/google/uuid"
)

// RandomKey produces a collision-free object key for an uploaded image.
// The original filename is never used.
func RandomKey(ext string) string {
	return "recipes/" + uuid.NewString() + ext
}
