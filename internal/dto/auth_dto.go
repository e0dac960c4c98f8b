package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    *string  `json:"email"`
	Roles    []string `json:"roles"`
	Active   bool     `json:"active"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // seconds
	User         UserResponse `json:"user"`
}

// ─── Admin user management ───────────────────────────────────────────────────

type GrantRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user contributor admin super_admin"`
}

type RoleHeadcount struct {
	Role  string `json:"role"`
	Count int64  `json:"count"`
}
