package models

// RegisterRequest holds the fields required to create an account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
	FullName string `json:"fullName" validate:"required"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the opaque session token and the identity snapshot.
// The client replays the token on every protected call.
type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// RegisterResponse acknowledges account creation.
type RegisterResponse struct {
	UserID string `json:"user_id"`
}
