package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Email  string  `json:"email" validate:"required,email"`
	Salary float64 `json:"salary" validate:"gte=0"`
}

func TestValidatorStructUsesJSONNames(t *testing.T) {
	v := NewValidator()
	v.Struct(samplePayload{Email: "nope", Salary: -1})

	require.True(t, v.HasIssues())
	assert.Equal(t, []ValidationIssue{
		{Field: "email", Reason: "must be a valid email address"},
		{Field: "salary", Reason: "must be greater than or equal to 0"},
	}, v.Issues())
}

func TestValidatorOptionalDate(t *testing.T) {
	v := NewValidator()
	_, ok := v.OptionalDate("from", "")
	assert.False(t, ok)
	assert.False(t, v.HasIssues())

	_, ok = v.OptionalDate("from", "31/31/2024")
	assert.False(t, ok)
	assert.True(t, v.HasIssues())
}

func TestRejectWritesValidationEnvelope(t *testing.T) {
	v := NewValidator()
	v.Add("status", "must be Active or Inactive")
	rec := httptest.NewRecorder()

	require.True(t, v.Reject(rec, "req-1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"validation_error"`)
	assert.Contains(t, rec.Body.String(), `"status"`)
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","bonus":1}`))
	var payload samplePayload
	assert.Error(t, DecodeJSON(req, &payload))
}

func TestIDParam(t *testing.T) {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("payrollID", "42")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	id, err := IDParam(req, "payrollID")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	rctx.URLParams = chi.RouteParams{}
	rctx.URLParams.Add("payrollID", "abc")
	_, err = IDParam(req, "payrollID")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestPageClampsAndReports(t *testing.T) {
	v := NewValidator()
	page := v.Page(url.Values{"limit": {"900"}, "offset": {"20"}}, 50, 200)
	assert.Equal(t, Page{Limit: 200, Offset: 20}, page)
	assert.False(t, v.HasIssues())

	page = v.Page(url.Values{}, 50, 200)
	assert.Equal(t, Page{Limit: 50}, page)

	v.Page(url.Values{"limit": {"ten"}, "offset": {"-3"}}, 50, 200)
	fields := []string{}
	for _, issue := range v.Issues() {
		fields = append(fields, issue.Field)
	}
	assert.Equal(t, []string{"limit", "offset"}, fields)
}

func TestParseDateTruncatesTimestamps(t *testing.T) {
	d, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-03-01T23:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("03/01/2024")
	assert.Error(t, err)
}
