package server

type ProfileResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type AuthTokenResponse struct {
	Token string `json:"token"`
}

type UploadImageResponse struct {
	ID    int64  `json:"id"`
	Image string `json:"image"`
}
