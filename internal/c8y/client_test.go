package c8y_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"c8ymcp/internal/c8y"
)

// fakePlatform accepts admin:secret and the bearer token "tok".
func fakePlatform(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !(ok && user == "admin" && pass == "secret") && r.Header.Get("Authorization") != "Bearer tok" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"security/Unauthorized","message":"Invalid credentials!"}`))
				return
			}
			h(w, r)
		}
	}
	mux.HandleFunc("/user/currentUser", authed(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "admin", "userName": "admin"})
	}))
	mux.HandleFunc("/alarm/alarms", authed(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ACTIVE", r.URL.Query().Get("status"))
		assert.Equal(t, "true", r.URL.Query().Get("withTotalPages"))
		_, _ = w.Write([]byte(`{"alarms":[{"id":"1"},{"id":"2"}],"statistics":{"currentPage":1,"pageSize":2,"totalPages":3}}`))
	}))
	mux.HandleFunc("/inventory/managedObjects/7/childAssets", authed(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"references":[{"managedObject":{"id":"8","name":"pump"}}],"statistics":{"currentPage":1,"pageSize":50}}`))
	}))
	mux.HandleFunc("/inventory/managedObjects/404", authed(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"inventory/Not Found","message":"No managedObject for id '404'!"}`))
	}))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestAuthenticate_Basic(t *testing.T) {
	t.Parallel()
	srv := fakePlatform(t)

	c, err := c8y.Authenticate(context.Background(), srv.URL, c8y.BasicAuth{User: "admin", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "admin", c.CurrentUser().UserName)
	assert.Equal(t, "basic", c.Scheme())
	assert.Equal(t, srv.URL, c.TenantURL())
}

func TestAuthenticate_Bearer(t *testing.T) {
	t.Parallel()
	srv := fakePlatform(t)

	c, err := c8y.Authenticate(context.Background(), srv.URL, c8y.TokenAuth{Token: "tok"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", c.Scheme())
}

func TestAuthenticate_Rejected(t *testing.T) {
	t.Parallel()
	srv := fakePlatform(t)

	_, err := c8y.Authenticate(context.Background(), srv.URL, c8y.BasicAuth{User: "admin", Password: "wrong"})
	require.Error(t, err)
	assert.ErrorIs(t, err, c8y.ErrUnauthorized)
	assert.Contains(t, err.Error(), "Invalid credentials!")

	var apiErr *c8y.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestAuthenticate_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := c8y.Authenticate(context.Background(), "not a url", c8y.TokenAuth{Token: "tok"})
	assert.Error(t, err)
}

func TestAuthenticate_Timeout(t *testing.T) {
	t.Parallel()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()

	_, err := c8y.Authenticate(context.Background(), slow.URL, c8y.TokenAuth{Token: "tok"}, c8y.WithTimeout(50*time.Millisecond))
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	t.Parallel()
	srv := fakePlatform(t)
	c, err := c8y.Authenticate(context.Background(), srv.URL, c8y.BasicAuth{User: "admin", Password: "secret"})
	require.NoError(t, err)

	q := c8y.PageQuery(2, 1)
	q.Set("status", "ACTIVE")
	page, err := c.List(context.Background(), "/alarm/alarms", "alarms", q)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, c8y.Statistics{CurrentPage: 1, PageSize: 2, TotalPages: 3}, page.Statistics)
	assert.True(t, page.Statistics.HasMore())
}

func TestList_FlattensReferences(t *testing.T) {
	t.Parallel()
	srv := fakePlatform(t)
	c, err := c8y.Authenticate(context.Background(), srv.URL, c8y.BasicAuth{User: "admin", Password: "secret"})
	require.NoError(t, err)

	page, err := c.List(context.Background(), "/inventory/managedObjects/7/childAssets", "references", nil)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "pump", page.Items[0]["name"])
	assert.False(t, page.Statistics.HasMore())
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()
	srv := fakePlatform(t)
	c, err := c8y.Authenticate(context.Background(), srv.URL, c8y.BasicAuth{User: "admin", Password: "secret"})
	require.NoError(t, err)

	var out map[string]any
	err = c.Get(context.Background(), "/inventory/managedObjects/404", nil, &out)
	assert.ErrorIs(t, err, c8y.ErrNotFound)
	assert.Equal(t, "HTTP 404 Not Found: No managedObject for id '404'!", err.Error())
}
