package problems_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"c8ymcp/pkg/problems"
)

func TestType(t *testing.T) {
	t.Setenv("PROBLEM_BASE_URL", "https://docs.example.com/problems/")
	assert.Equal(t, "https://docs.example.com/problems/unauthenticated", problems.Type("unauthenticated"))

	t.Setenv("PROBLEM_BASE_URL", "")
	assert.Equal(t, "https://c8y-mcp.invalid/problems/unauthenticated", problems.Type("unauthenticated"))
}

func TestWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	problems.Write(rec, problems.Problem{Type: problems.Type("x"), Title: "X", Status: http.StatusUnauthorized, Detail: "d"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var body problems.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "X", body.Title)
	assert.Equal(t, 401, body.Status)
}
