package utils

// AccessToken carries the claims embedded by the identity provider. Token
// issuance (login, refresh, password flows) lives outside this service; we
// only verify and read.
type AccessToken struct {
	ID   uint   `json:"ID"`
	Role string `json:"role"`
}
