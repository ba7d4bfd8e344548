package auth

import (
	"errors"
	"fmt"
)

// Failure categories. Every error produced while resolving an identity wraps
// exactly one of these, so callers can branch with errors.Is on the category
// or on the specific failure.
var (
	ErrInput           = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrCorruption      = errors.New("corrupted")
	ErrContext         = errors.New("no auth context")
	ErrCredentialShape = errors.New("invalid credential shape")
)

var (
	ErrMissingAuthorization = fmt.Errorf("%w: missing Authorization header", ErrInput)
	ErrMalformedBasic       = fmt.Errorf("%w: invalid Basic authentication credentials", ErrInput)
	ErrEmptyBearerToken     = fmt.Errorf("%w: empty Bearer token", ErrInput)
	ErrUnsupportedScheme    = fmt.Errorf("%w: unsupported authentication method, use Basic or Bearer", ErrInput)
	ErrInvalidRequestURL    = fmt.Errorf("%w: invalid request URL", ErrInput)
	ErrMissingTenantURL     = fmt.Errorf("%w: tenantUrl is required in single-user mode", ErrInput)

	ErrNoAuthContext     = fmt.Errorf("%w: no authentication context available", ErrContext)
	ErrInvalidCredential = fmt.Errorf("%w: user and password or token are required", ErrCredentialShape)
)
