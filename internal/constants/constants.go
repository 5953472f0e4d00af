package constants

// Context keys
const (
	ContextKeyPrincipal = "principal"
)

// Validation limits
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPage         = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
