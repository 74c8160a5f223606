package domain

import "time"

// Principal is the authenticated identity attached to a request after the
// bearer token has been validated. It lives for the request only.
type Principal struct {
	Username    string
	Role        Role
	Authorities []string
}

// RevocationEntry records a token string rejected ahead of its natural expiry.
type RevocationEntry struct {
	Token     string
	ExpiresAt time.Time
	RevokedAt time.Time
}
