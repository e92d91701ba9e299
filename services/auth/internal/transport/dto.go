package transport

type CredentialsRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

type MeResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
