package response

import "github.com/shin6949/passkey-sample-be/domain"

type UserResponse struct {
	ID    string          `json:"id"`
	Email string          `json:"email"`
	Name  string          `json:"name"`
	Role  domain.UserRole `json:"role"`
}

func NewUserResponse(user *domain.User) *UserResponse {
	return &UserResponse{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}
}

type EmailCheckResponse struct {
	Exists bool `json:"exists"`
}

type CheckCurrentPasswordResponse struct {
	IsMatch bool `json:"isMatch"`
	// NOTE: delivered through an HttpOnly cookie, never serialised
	AuthorizationToken string `json:"-"`
}
