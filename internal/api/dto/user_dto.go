package dto

import "time"

// RegisterRequest payload for new users.
type RegisterRequest struct {
	GivenName  string     `json:"given_name"`
	FamilyName string     `json:"family_name"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Password   string     `json:"password"`
	Birthday   *time.Time `json:"birthday,omitempty"`
	IsStringer bool       `json:"is_stringer"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateProfileRequest is a partial profile update.
type UpdateProfileRequest struct {
	GivenName  *string    `json:"given_name,omitempty"`
	FamilyName *string    `json:"family_name,omitempty"`
	Email      *string    `json:"email,omitempty"`
	Birthday   *time.Time `json:"birthday,omitempty"`
	Password   *string    `json:"password,omitempty"`
	IsStringer *bool      `json:"is_stringer,omitempty"`
}

// UserResponse is the public user representation; the password hash never
// leaves the service.
type UserResponse struct {
	ID         string     `json:"id"`
	GivenName  string     `json:"given_name"`
	FamilyName string     `json:"family_name"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Birthday   *time.Time `json:"birthday"`
	IsStringer bool       `json:"is_stringer"`
	CreatedAt  time.Time  `json:"created_at"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
