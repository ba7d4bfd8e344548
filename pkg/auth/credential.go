// pkg/auth/credential.go
package auth

import (
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Credential is one of Basic or Bearer. The set is closed: the unexported
// method keeps other packages from adding cases, and Match forces callers
// to handle both.
type Credential interface {
	// Tenant returns the canonical tenant URL the credential belongs to.
	Tenant() string
	// Scheme returns "basic" or "bearer".
	Scheme() string
	isCredential()
}

// Basic is a user/password pair for one tenant. It is also the persisted
// record format of the credential store.
type Basic struct {
	User      string `json:"user"`
	Password  string `json:"password"`
	TenantURL string `json:"tenantUrl"`
}

func (b Basic) Tenant() string { return b.TenantURL }
func (Basic) Scheme() string   { return "basic" }
func (Basic) isCredential()    {}

// Complete reports whether every field is populated.
func (b Basic) Complete() bool {
	return b.User != "" && b.Password != "" && b.TenantURL != ""
}

// String never includes the password.
func (b Basic) String() string { return "basic " + b.User + "@" + b.TenantURL }

// Bearer is a request-lifetime token. It is never persisted.
type Bearer struct {
	Token     string
	TenantURL string
}

func (b Bearer) Tenant() string { return b.TenantURL }
func (Bearer) Scheme() string   { return "bearer" }
func (Bearer) isCredential()    {}

func (b Bearer) Complete() bool { return b.Token != "" && b.TenantURL != "" }

func (b Bearer) String() string { return "bearer ***@" + b.TenantURL }

// Claims reads the subject and expiry from a JWT bearer token without
// verifying it. ok is false for opaque tokens. The values are only fit for
// logging; the remote platform remains the authority on the token.
func (b Bearer) Claims() (subject string, expires time.Time, ok bool) {
	tok, err := jwt.ParseInsecure([]byte(b.Token))
	if err != nil {
		return "", time.Time{}, false
	}
	return tok.Subject(), tok.Expiration(), true
}

// Match dispatches on the credential's case. A nil credential, or one whose
// fields are not populated, fails with ErrInvalidCredential.
func Match[T any](c Credential, basic func(Basic) (T, error), bearer func(Bearer) (T, error)) (T, error) {
	var zero T
	switch v := c.(type) {
	case Basic:
		if !v.Complete() {
			return zero, ErrInvalidCredential
		}
		return basic(v)
	case *Basic:
		if v == nil || !v.Complete() {
			return zero, ErrInvalidCredential
		}
		return basic(*v)
	case Bearer:
		if !v.Complete() {
			return zero, ErrInvalidCredential
		}
		return bearer(v)
	case *Bearer:
		if v == nil || !v.Complete() {
			return zero, ErrInvalidCredential
		}
		return bearer(*v)
	default:
		return zero, ErrInvalidCredential
	}
}
