package models

type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	Active       bool   `json:"is_active"`
	Staff        bool   `json:"is_staff"`
	Superuser    bool   `json:"is_superuser"`
}
