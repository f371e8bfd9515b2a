package models

import "time"

// SessionRecord binds one refresh token to one account. The session store
// keeps at most one record per account.
type SessionRecord struct {
	Token     string
	AccountID string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpiredAt reports whether the record has expired at t. The expiry
// instant itself counts as expired, as it does for the token's exp claim.
func (s *SessionRecord) IsExpiredAt(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
// RefreshToken is empty when only the access token was reissued.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
