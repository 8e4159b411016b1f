package domain

import "errors"

var (
	// ErrActuation reports that the unlock publish failed after the
	// caller was already authorized. Actuation is the last, fallible
	// step; the caller sees a failure despite valid access.
	ErrActuation = errors.New("unlock actuation failed")

	// ErrToken reports a signing or clock failure while issuing a
	// session token.
	ErrToken = errors.New("token issuance failed")
)
