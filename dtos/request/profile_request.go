package request

type CheckCurrentPasswordRequest struct {
	InputPassword string `json:"inputPassword" validate:"required"`
}

type UpdatePasswordRequest struct {
	NewPassword        string `json:"newPassword" validate:"required,password"`
	NewPasswordConfirm string `json:"newPasswordConfirm" validate:"required"`
}

type UpdateProfileRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Name  string `json:"name" validate:"required,max=100"`
}
