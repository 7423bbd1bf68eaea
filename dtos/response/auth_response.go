package response

type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type PasskeyLoginOptions struct {
	SessionID string `json:"sessionId"`
	Options   any    `json:"options"`
}
