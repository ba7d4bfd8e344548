// Package resolver turns the credential in effect for a call into an
// authenticated platform client.
package resolver

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"c8ymcp/internal/c8y"
	"c8ymcp/pkg/auth"
	"c8ymcp/pkg/metrics"
	"c8ymcp/pkg/tenanturl"
)

// Mode selects where credentials come from.
type Mode int

const (
	// ModeSingleUser reads credentials from the local store, keyed by an
	// explicit tenant URL.
	ModeSingleUser Mode = iota
	// ModeServer reads the credential bound to the inbound request.
	ModeServer
)

func (m Mode) String() string {
	switch m {
	case ModeSingleUser:
		return "single-user"
	case ModeServer:
		return "server"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// CredentialProvider looks up stored credentials by tenant URL.
// *credstore.Store satisfies it.
type CredentialProvider interface {
	Lookup(tenantURL string) (auth.Basic, error)
}

// AuthenticateFunc opens a client for one tenant and identity.
type AuthenticateFunc func(ctx context.Context, tenantURL string, a c8y.Auth) (*c8y.Client, error)

type Option func(*Resolver)

// WithAuthenticator replaces the function that opens platform clients.
func WithAuthenticator(fn AuthenticateFunc) Option {
	return func(r *Resolver) { r.authenticate = fn }
}

// WithTimeout sets the per-request timeout of resolved clients.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		r.authenticate = func(ctx context.Context, tenantURL string, a c8y.Auth) (*c8y.Client, error) {
			return c8y.Authenticate(ctx, tenantURL, a, c8y.WithTimeout(d))
		}
	}
}

type Resolver struct {
	mode         Mode
	scope        auth.Scope
	creds        CredentialProvider
	log          *zap.SugaredLogger
	authenticate AuthenticateFunc
}

// New returns a resolver for mode. Server mode needs scope, single-user
// mode needs creds; the other may be nil.
func New(mode Mode, scope auth.Scope, creds CredentialProvider, log *zap.SugaredLogger, opts ...Option) *Resolver {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	r := &Resolver{
		mode:  mode,
		scope: scope,
		creds: creds,
		log:   log,
		authenticate: func(ctx context.Context, tenantURL string, a c8y.Auth) (*c8y.Client, error) {
			return c8y.Authenticate(ctx, tenantURL, a)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Mode() Mode { return r.mode }

// Resolve returns a freshly authenticated client. In server mode the
// credential bound to ctx is used and explicitTenantURL is ignored; in
// single-user mode explicitTenantURL is required and looked up in the store.
// Clients are never reused between calls.
func (r *Resolver) Resolve(ctx context.Context, explicitTenantURL string) (*c8y.Client, error) {
	cred, err := r.credential(ctx, explicitTenantURL)
	if err != nil {
		metrics.ClientResolve.WithLabelValues(r.mode.String(), "none", "error").Inc()
		return nil, err
	}
	scheme, tenant := "invalid", ""
	c, err := auth.Match(cred,
		func(b auth.Basic) (*c8y.Client, error) {
			scheme, tenant = b.Scheme(), b.TenantURL
			return r.authenticate(ctx, b.TenantURL, c8y.BasicAuth{User: b.User, Password: b.Password})
		},
		func(b auth.Bearer) (*c8y.Client, error) {
			scheme, tenant = b.Scheme(), b.TenantURL
			return r.authenticate(ctx, b.TenantURL, c8y.TokenAuth{Token: b.Token})
		},
	)
	metrics.ClientResolve.WithLabelValues(r.mode.String(), scheme, metrics.Result(err)).Inc()
	if err != nil {
		r.log.Warnw("client resolve failed", "mode", r.mode, "tenant", tenant, "scheme", scheme, "err", err)
		return nil, err
	}
	r.log.Debugw("client resolved", "mode", r.mode, "tenant", tenant, "scheme", scheme)
	return c, nil
}

func (r *Resolver) credential(ctx context.Context, explicitTenantURL string) (auth.Credential, error) {
	switch r.mode {
	case ModeServer:
		if r.scope == nil {
			return nil, auth.ErrNoAuthContext
		}
		return r.scope.Read(ctx)
	case ModeSingleUser:
		tenant := tenanturl.Normalize(explicitTenantURL)
		if tenant == "" {
			return nil, auth.ErrMissingTenantURL
		}
		if r.creds == nil {
			return nil, fmt.Errorf("no credential provider configured")
		}
		b, err := r.creds.Lookup(tenant)
		if err != nil {
			return nil, err
		}
		if b.User == "" || b.Password == "" {
			return nil, auth.ErrInvalidCredential
		}
		if b.TenantURL == "" {
			b.TenantURL = tenant
		}
		return b, nil
	}
	return nil, fmt.Errorf("unknown mode %v", r.mode)
}
