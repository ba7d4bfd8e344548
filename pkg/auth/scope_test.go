package auth_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"c8ymcp/pkg/auth"
)

func TestScope_ReadOutsideBind(t *testing.T) {
	t.Parallel()

	scope := auth.NewScope()
	cred, err := scope.Read(context.Background())
	assert.Nil(t, cred)
	assert.ErrorIs(t, err, auth.ErrNoAuthContext)
	assert.ErrorIs(t, err, auth.ErrContext)
}

func TestScope_BindAndRead(t *testing.T) {
	t.Parallel()

	scope := auth.NewScope()
	want := auth.Basic{User: "admin", Password: "secret", TenantURL: "https://t.example.com"}
	outer := context.Background()

	err := scope.Bind(outer, want, func(ctx context.Context) error {
		got, err := scope.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)

		// descendants, including goroutines, observe the binding
		done := make(chan auth.Credential)
		child, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			c, _ := scope.Read(child)
			done <- c
		}()
		assert.Equal(t, want, <-done)
		return nil
	})
	require.NoError(t, err)

	// released once body returns
	_, err = scope.Read(outer)
	assert.ErrorIs(t, err, auth.ErrNoAuthContext)
}

func TestScope_BodyErrorAndPanicRelease(t *testing.T) {
	t.Parallel()

	scope := auth.NewScope()
	cred := auth.Bearer{Token: "abc", TenantURL: "https://t.example.com"}
	outer := context.Background()

	boom := fmt.Errorf("boom")
	err := scope.Bind(outer, cred, func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)

	assert.Panics(t, func() {
		_ = scope.Bind(outer, cred, func(context.Context) error { panic("body failed") })
	})

	_, err = scope.Read(outer)
	assert.ErrorIs(t, err, auth.ErrNoAuthContext)
}

func TestScope_NestedBindShadows(t *testing.T) {
	t.Parallel()

	scope := auth.NewScope()
	a := auth.Bearer{Token: "a", TenantURL: "https://a.example.com"}
	b := auth.Bearer{Token: "b", TenantURL: "https://b.example.com"}

	err := scope.Bind(context.Background(), a, func(ctx context.Context) error {
		err := scope.Bind(ctx, b, func(inner context.Context) error {
			got, err := scope.Read(inner)
			require.NoError(t, err)
			assert.Equal(t, b, got)
			return nil
		})
		require.NoError(t, err)

		got, err := scope.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, a, got)
		return nil
	})
	require.NoError(t, err)
}

func TestScope_RejectsNilCredential(t *testing.T) {
	t.Parallel()

	var nilBasic *auth.Basic
	var nilBearer *auth.Bearer
	for name, c := range map[string]auth.Credential{
		"nil":         nil,
		"nil *Basic":  nilBasic,
		"nil *Bearer": nilBearer,
	} {
		t.Run(name, func(t *testing.T) {
			called := false
			err := auth.NewScope().Bind(context.Background(), c, func(context.Context) error {
				called = true
				return nil
			})
			assert.ErrorIs(t, err, auth.ErrInvalidCredential)
			assert.False(t, called)
		})
	}
}

func TestScope_DistinctScopesDoNotShare(t *testing.T) {
	t.Parallel()

	s1, s2 := auth.NewScope(), auth.NewScope()
	err := s1.Bind(context.Background(), auth.Bearer{Token: "a", TenantURL: "https://a"}, func(ctx context.Context) error {
		_, err := s2.Read(ctx)
		assert.ErrorIs(t, err, auth.ErrNoAuthContext)
		return nil
	})
	require.NoError(t, err)
}

// Two bindings advance in lock step, each handing control to the other at
// every step, and check their own credential at each resume point.
func TestScope_InterleavedRequestsAreIsolated(t *testing.T) {
	t.Parallel()

	scope := auth.NewScope()
	first := auth.Basic{User: "admin", Password: "secret", TenantURL: "https://t.example.com"}
	second := auth.Bearer{Token: "other-token", TenantURL: "https://u.example.com"}

	const steps = 50
	turnA, turnB := make(chan struct{}), make(chan struct{})

	run := func(cred auth.Credential, mine, theirs chan struct{}, startsFirst bool) func() error {
		return func() error {
			return scope.Bind(context.Background(), cred, func(ctx context.Context) error {
				for i := 0; i < steps; i++ {
					if !startsFirst || i > 0 {
						<-mine
					}
					got, err := scope.Read(ctx)
					if err != nil {
						return err
					}
					if got != cred {
						return fmt.Errorf("step %d: observed %v, want %v", i, got, cred)
					}
					if !startsFirst && i == steps-1 {
						return nil
					}
					theirs <- struct{}{}
				}
				return nil
			})
		}
	}

	var g errgroup.Group
	g.Go(run(first, turnA, turnB, true))
	g.Go(run(second, turnB, turnA, false))
	require.NoError(t, g.Wait())
}

func TestScope_ManyConcurrentBindings(t *testing.T) {
	t.Parallel()

	scope := auth.NewScope()
	var g errgroup.Group
	for i := 0; i < 200; i++ {
		cred := auth.Bearer{Token: fmt.Sprintf("tok-%d", i), TenantURL: fmt.Sprintf("https://t%d.example.com", i)}
		g.Go(func() error {
			return scope.Bind(context.Background(), cred, func(ctx context.Context) error {
				for j := 0; j < 100; j++ {
					got, err := scope.Read(ctx)
					if err != nil {
						return err
					}
					if got != cred {
						return fmt.Errorf("cross-read: got %v want %v", got, cred)
					}
				}
				return nil
			})
		})
	}
	require.NoError(t, g.Wait())
}
