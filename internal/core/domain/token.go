package domain

// TokenPair is the credential set handed out on registration and login.
// Both tokens are stateless JWTs: validity is self-contained and nothing is
// tracked server-side after issuance.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Token type discriminator embedded in every JWT. The auth middleware only
// accepts access tokens; the refresh endpoint only accepts refresh tokens.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)
