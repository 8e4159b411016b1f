package handler

const (
	errInternalServer     = "Internal server error"
	errInvalidCredentials = "Invalid credentials"
	errUserNotFound       = "User not found"
	errNoAccess           = "User has no access at the current time"
	errWindowNotFound     = "Access window not found"
	errDuplicateWindow    = "Access window for this weekday already exists"
	errDuplicateEmail     = "User with this email already exists"
	errUnlockFailed       = "Door could not be unlocked"
)
