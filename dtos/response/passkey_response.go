package response

type PasskeyResponse struct {
	UUID     string `json:"uuid"`
	Label    string `json:"label"`
	Created  int64  `json:"created"`
	LastUsed int64  `json:"lastUsed"`
}
