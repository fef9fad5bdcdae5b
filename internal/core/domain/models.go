package domain

// User is the public view of a user returned by the API.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// RegisterRequest is the body of POST /api/v1/users.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is the body of POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned after a successful login.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
