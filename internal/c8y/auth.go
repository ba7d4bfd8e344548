package c8y

import (
	"net/http"

	"golang.org/x/oauth2"
)

// Auth decorates outbound requests with one identity.
type Auth interface {
	Scheme() string
	transport(base http.RoundTripper) http.RoundTripper
}

// BasicAuth authenticates as a platform user. User may carry a "tenant/"
// prefix, which the platform accepts as-is.
type BasicAuth struct {
	User     string
	Password string
}

func (BasicAuth) Scheme() string { return "basic" }

func (a BasicAuth) transport(base http.RoundTripper) http.RoundTripper {
	return &basicTransport{user: a.User, password: a.Password, base: base}
}

type basicTransport struct {
	user, password string
	base           http.RoundTripper
}

func (t *basicTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r2 := r.Clone(r.Context())
	r2.SetBasicAuth(t.user, t.password)
	return t.base.RoundTrip(r2)
}

// TokenAuth forwards a bearer token issued by the platform. The token is
// used as given; it is never refreshed.
type TokenAuth struct {
	Token string
}

func (TokenAuth) Scheme() string { return "bearer" }

func (a TokenAuth) transport(base http.RoundTripper) http.RoundTripper {
	return &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: a.Token, TokenType: "Bearer"}),
		Base:   base,
	}
}
