package request

type UpdatePasskeyRequest struct {
	UUID string `json:"uuid" validate:"required"`
	Name string `json:"name" validate:"required,max=255"`
}
