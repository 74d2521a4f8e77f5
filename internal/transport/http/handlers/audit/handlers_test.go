package audithandler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal/internal/domain/audit"
	"portal/internal/domain/auth"
	"portal/internal/transport/http/middleware"
)

type fakeEvents struct {
	events     []audit.Event
	lastFilter audit.Filter
	lastLimit  int
	countErr   error
}

func (f *fakeEvents) Count(_ context.Context, filter audit.Filter) (int, error) {
	return len(f.events), f.countErr
}

func (f *fakeEvents) List(_ context.Context, filter audit.Filter, _ bool, limit, _ int) ([]audit.Event, error) {
	f.lastFilter = filter
	f.lastLimit = limit
	return f.events, nil
}

func serve(h *Handler, role, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req = req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: "u1", Role: role}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestListEvents(t *testing.T) {
	events := &fakeEvents{events: []audit.Event{{ID: "1", Actor: "user:u1", Action: audit.ActionQuoteCreate, CreatedAt: time.Now()}}}
	h := NewHandler(events, auth.StaticPermissions{})

	rec := serve(h, auth.RoleStaff, "/audit/events")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(h, auth.RoleAdmin, "/audit/events?action=quote.create&limit=1000")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))
	assert.Equal(t, audit.ActionQuoteCreate, events.lastFilter.Action)
	assert.Equal(t, 500, events.lastLimit)

	events.countErr = errors.New("count failed")
	rec = serve(h, auth.RoleAdmin, "/audit/events")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExportEvents(t *testing.T) {
	created := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	events := &fakeEvents{events: []audit.Event{{ID: "7", Actor: "apikey:k1", Action: audit.ActionQuoteCreate, EntityType: "quote", EntityID: "q1", CreatedAt: created}}}
	h := NewHandler(events, auth.StaticPermissions{})

	rec := serve(h, auth.RoleAdmin, "/audit/events/export")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "7,apikey:k1,quote.create,quote,q1,,,2025-05-01T10:00:00Z", lines[1])
}
