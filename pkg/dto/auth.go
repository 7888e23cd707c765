package dto

// TokenLoginRequest is the SPA-flow body: the client obtained a Microsoft
// Graph access token itself and posts it for verification.
type TokenLoginRequest struct {
	AccessToken string `json:"access_token"`
}

type AuthResponse struct {
	Token   string          `json:"token"`
	Profile ProfileResponse `json:"profile"`
}

type LogoutResponse struct {
	Message string `json:"message"`
}
