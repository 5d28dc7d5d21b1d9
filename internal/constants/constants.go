package constants

// Context keys set by the auth middleware.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
)

// Pagination bounds for list endpoints.
const (
	DefaultPageSize = 100
	MaxPageSize     = 100
)

// MinPasswordLength is the minimum accepted password length at registration.
const MinPasswordLength = 8
