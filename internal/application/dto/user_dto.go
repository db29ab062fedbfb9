package dto

// LoginRequest entrada para login.
type LoginRequest struct {
	Login    string `json:"login" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Token string `json:"token"`
}
