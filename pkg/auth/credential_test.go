package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"c8ymcp/pkg/auth"
)

func scheme(c auth.Credential) (string, error) {
	return auth.Match(c,
		func(b auth.Basic) (string, error) { return "basic:" + b.User, nil },
		func(b auth.Bearer) (string, error) { return "bearer:" + b.Token, nil },
	)
}

func TestMatch(t *testing.T) {
	t.Parallel()

	got, err := scheme(auth.Basic{User: "admin", Password: "secret", TenantURL: "https://t.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "basic:admin", got)

	got, err = scheme(&auth.Bearer{Token: "abc", TenantURL: "https://t.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "bearer:abc", got)
}

func TestMatch_InvalidShapes(t *testing.T) {
	t.Parallel()

	var nilBasic *auth.Basic
	for name, c := range map[string]auth.Credential{
		"nil":              nil,
		"nil pointer":      nilBasic,
		"basic no user":    auth.Basic{Password: "secret", TenantURL: "https://t.example.com"},
		"basic no pass":    auth.Basic{User: "admin", TenantURL: "https://t.example.com"},
		"basic no tenant":  auth.Basic{User: "admin", Password: "secret"},
		"bearer no token":  auth.Bearer{TenantURL: "https://t.example.com"},
		"bearer no tenant": auth.Bearer{Token: "abc"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := scheme(c)
			assert.ErrorIs(t, err, auth.ErrInvalidCredential)
			assert.ErrorIs(t, err, auth.ErrCredentialShape)
		})
	}
}

func TestMatch_PropagatesBranchError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := auth.Match(auth.Bearer{Token: "abc", TenantURL: "https://t"},
		func(auth.Basic) (int, error) { return 0, nil },
		func(auth.Bearer) (int, error) { return 0, boom },
	)
	assert.ErrorIs(t, err, boom)
}

func TestBasic_StringHidesPassword(t *testing.T) {
	t.Parallel()

	b := auth.Basic{User: "admin", Password: "hunter2", TenantURL: "https://t.example.com"}
	assert.NotContains(t, b.String(), "hunter2")
	assert.Contains(t, b.String(), "admin")

	br := auth.Bearer{Token: "tok-123", TenantURL: "https://t.example.com"}
	assert.NotContains(t, br.String(), "tok-123")
}

func TestBearer_Claims(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok, err := jwt.NewBuilder().Subject("admin").Expiration(exp).Build()
	require.NoError(t, err)
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, []byte("not-verified")))
	require.NoError(t, err)

	sub, gotExp, ok := auth.Bearer{Token: string(signed), TenantURL: "https://t"}.Claims()
	require.True(t, ok)
	assert.Equal(t, "admin", sub)
	assert.True(t, exp.Equal(gotExp))

	_, _, ok = auth.Bearer{Token: "opaque", TenantURL: "https://t"}.Claims()
	assert.False(t, ok)
}
