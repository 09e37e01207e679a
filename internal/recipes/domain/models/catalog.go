package models

// Item is a user-owned catalog entry. Tags and ingredients share this
// shape and differ only by the table they live in.
type Item struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	UserID int64  `json:"-"`
}
