// pkg/auth/scope.go
package auth

import "context"

// Scope binds one credential to the call graph of one inbound unit of work.
//
// The binding lives in the context handed to body, so it is visible to
// everything body calls with that context (or a context derived from it,
// including goroutines started with it) and to nothing else. Two requests
// bound concurrently have unrelated context chains and cannot observe each
// other's credential. The binding ends when body returns; there is no unbind.
type Scope interface {
	Bind(ctx context.Context, cred Credential, body func(ctx context.Context) error) error
	Read(ctx context.Context) (Credential, error)
}

// scopeKey is allocated per scope so that two scopes never share a binding.
type scopeKey struct{ _ byte }

type contextScope struct {
	key *scopeKey
}

// NewScope returns a Scope backed by context values.
func NewScope() Scope {
	return &contextScope{key: &scopeKey{}}
}

func (s *contextScope) Bind(ctx context.Context, cred Credential, body func(ctx context.Context) error) error {
	if isNil(cred) {
		return ErrInvalidCredential
	}
	return body(context.WithValue(ctx, s.key, cred))
}

func (s *contextScope) Read(ctx context.Context) (Credential, error) {
	if cred, ok := ctx.Value(s.key).(Credential); ok && !isNil(cred) {
		return cred, nil
	}
	return nil, ErrNoAuthContext
}

// isNil also catches typed nil pointers, which would otherwise pass an
// interface nil check and panic on the first method call.
func isNil(cred Credential) bool {
	switch v := cred.(type) {
	case nil:
		return true
	case *Basic:
		return v == nil
	case *Bearer:
		return v == nil
	}
	return false
}
