package request

type SignUpRequest struct {
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,password"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
	Name            string `json:"name" validate:"required,max=100"`
}
