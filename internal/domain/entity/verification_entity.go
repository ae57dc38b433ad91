package entity

import "time"

// Verification is an ephemeral one-time code bound to an email address.
// It is correlated to a user by email value only, never by reference,
// so an outstanding code simply becomes unredeemable if the email
// changes or the user is deleted. Destroyed on redemption or by the
// periodic sweep once expired, whichever happens first.
type Verification struct {
	ID      string
	Code    string
	Email   string
	Expires time.Time
}

// ExpiredAt reports whether the code is expired at the given instant.
func (v *Verification) ExpiredAt(now time.Time) bool {
	return v.Expires.Before(now)
}
