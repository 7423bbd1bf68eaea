package response

type ApiResultCode string

const (
	SUCCESS               ApiResultCode = "SUCCESS"
	BAD_REQUEST           ApiResultCode = "BAD_REQUEST"
	DUPLICATE_EMAIL       ApiResultCode = "DUPLICATE_EMAIL"
	PASSWORD_MISMATCH     ApiResultCode = "PASSWORD_MISMATCH"
	INVALID_CREDENTIALS   ApiResultCode = "INVALID_CREDENTIALS"
	INVALID_TOKEN         ApiResultCode = "INVALID_TOKEN"
	TOKEN_NOT_FOUND       ApiResultCode = "TOKEN_NOT_FOUND"
	USER_NOT_FOUND        ApiResultCode = "USER_NOT_FOUND"
	DISABLED_USER         ApiResultCode = "DISABLED_USER"
	PASSKEY_NOT_FOUND     ApiResultCode = "PASSKEY_NOT_FOUND"
	INTERNAL_SERVER_ERROR ApiResultCode = "INTERNAL_SERVER_ERROR"
)

type ApiResponse struct {
	Result ApiResultCode `json:"result"`
	Data   any           `json:"data,omitempty"`
	Error  string        `json:"error,omitempty"`
}
