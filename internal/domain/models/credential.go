// Package models contains domain models for the AskDoc Selection Service.
package models

import "time"

// Credential holds the OAuth token set returned by the remote token endpoint.
// It is owned exclusively by the credential manager and is never persisted in
// plaintext.
type Credential struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	// ExpiresAt is the expiry instant in epoch milliseconds. A nil value
	// means the validity is unknown and the token must be treated as
	// expired.
	ExpiresAt *int64 `json:"expires_at"`
}

// IsValid reports whether the access token is known to still be within its
// validity window at the given instant.
func (c *Credential) IsValid(now time.Time) bool {
	if c == nil || c.AccessToken == "" || c.ExpiresAt == nil {
		return false
	}
	return now.UnixMilli() < *c.ExpiresAt
}

// NewCredential builds a Credential from a token-endpoint response, converting
// the relative expires_in seconds into an absolute epoch-ms deadline.
func NewCredential(accessToken, refreshToken string, expiresIn int64, now time.Time) *Credential {
	cred := &Credential{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}
	if expiresIn > 0 {
		expiresAt := now.UnixMilli() + expiresIn*1000
		cred.ExpiresAt = &expiresAt
	}
	return cred
}
