package dto

import "github.com/spec-kit/order-service/internal/domain"

// AuthRequest is the login payload.
type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is the login response. On a failed login the token field
// carries the failure message instead of a token; this mirrors the upstream
// wire contract.
type AuthResponse struct {
	Token string `json:"token"`
}

// UserRequest is the registration payload.
type UserRequest struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// UserResponse is a user without its password hash. Passwords are never
// echoed back.
type UserResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ToUserResponse maps a domain user onto the passwordless DTO.
func ToUserResponse(user domain.User) UserResponse {
	return UserResponse{Username: user.Username, Role: string(user.Role)}
}

// ToUserResponses maps a slice of domain users.
func ToUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, user := range users {
		out[i] = ToUserResponse(user)
	}
	return out
}
