package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin staff"`
}

func TestValidatorStructCollectsFieldIssues(t *testing.T) {
	v := NewValidator()
	v.Struct(loginPayload{Email: "not-an-email", Password: "short", Role: "root"})

	require.True(t, v.HasIssues())
	assert.Equal(t, []ValidationIssue{
		{Field: "email", Reason: "must be a valid email"},
		{Field: "password", Reason: "must be at least 8"},
		{Field: "role", Reason: "must be one of: admin staff"},
	}, v.Issues())
}

func TestValidatorStructPasses(t *testing.T) {
	v := NewValidator()
	v.Struct(loginPayload{Email: "ops@example.com", Password: "long-enough"})
	assert.False(t, v.HasIssues())
}

func TestValidatorReject(t *testing.T) {
	v := NewValidator()
	v.Required("clientName", "  ", "is required")

	rec := httptest.NewRecorder()
	require.True(t, v.Reject(rec, "req-1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"clientName"`)
	assert.Contains(t, rec.Body.String(), `"validation_error"`)

	assert.False(t, NewValidator().Reject(httptest.NewRecorder(), "req-2"))
}

func TestParsePagination(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/quotes?limit=900&offset=20", nil)
	page := ParsePagination(r, 50, 200)
	assert.Equal(t, Pagination{Limit: 200, Offset: 20}, page)

	r = httptest.NewRequest(http.MethodGet, "/quotes?limit=-1&offset=x", nil)
	assert.Equal(t, Pagination{Limit: 50, Offset: 0}, ParsePagination(r, 50, 200))
}
