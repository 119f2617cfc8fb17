package auth

// LoginRequest trades credentials for a session token.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`

	// seconds until the token expires
	ExpiresIn int `json:"expiresIn"`
}
