package quoteshandler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal/internal/domain/audit"
	"portal/internal/domain/auth"
	"portal/internal/domain/quotes"
	"portal/internal/domain/salary"
	"portal/internal/transport/http/middleware"
)

type fakeQuotes struct {
	created []quotes.CreateInput
	byID    map[string]quotes.Quote
	err     error
}

func (f *fakeQuotes) Create(_ context.Context, in quotes.CreateInput, createdBy string) (quotes.Quote, error) {
	if f.err != nil {
		return quotes.Quote{}, f.err
	}
	f.created = append(f.created, in)
	q := quotes.Quote{
		ID:         fmt.Sprintf("q-%d", len(f.created)),
		ClientName: in.ClientName,
		Year:       2025,
		Total:      decimal.NewFromInt(1000),
		CreatedBy:  createdBy,
		CreatedAt:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	f.byID[q.ID] = q
	return q, nil
}

func (f *fakeQuotes) Get(_ context.Context, id string) (quotes.Quote, error) {
	q, ok := f.byID[id]
	if !ok {
		return quotes.Quote{}, quotes.ErrQuoteNotFound
	}
	return q, nil
}

func (f *fakeQuotes) List(context.Context, int, int) ([]quotes.Quote, error) {
	out := make([]quotes.Quote, 0, len(f.byID))
	for _, q := range f.byID {
		out = append(out, q)
	}
	return out, nil
}

func (f *fakeQuotes) PDF(ctx context.Context, id string) ([]byte, error) {
	if _, err := f.Get(ctx, id); err != nil {
		return nil, err
	}
	return []byte("%PDF-1.3 fake"), nil
}

type memoryIdempotency struct {
	entries map[string]struct {
		hash     string
		response json.RawMessage
	}
}

func newMemoryIdempotency() *memoryIdempotency {
	return &memoryIdempotency{entries: map[string]struct {
		hash     string
		response json.RawMessage
	}{}}
}

func (m *memoryIdempotency) Check(_ context.Context, principal, endpoint, key, hash string) (json.RawMessage, bool, error) {
	entry, ok := m.entries[principal+"|"+endpoint+"|"+key]
	if !ok {
		return nil, false, nil
	}
	if entry.hash != hash {
		return nil, false, middleware.ErrIdempotencyConflict
	}
	return entry.response, true, nil
}

func (m *memoryIdempotency) Save(_ context.Context, principal, endpoint, key, hash string, response json.RawMessage) error {
	m.entries[principal+"|"+endpoint+"|"+key] = struct {
		hash     string
		response json.RawMessage
	}{hash, response}
	return nil
}

type captureAudit struct {
	events []audit.Event
}

func (c *captureAudit) Record(_ context.Context, evt audit.Event, _, _ any) error {
	c.events = append(c.events, evt)
	return nil
}

func setup(user auth.UserContext) (http.Handler, *fakeQuotes, *captureAudit) {
	svc := &fakeQuotes{byID: map[string]quotes.Quote{}}
	recorder := &captureAudit{}
	h := NewHandler(svc, newMemoryIdempotency(), recorder, auth.StaticPermissions{})

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
		})
	})
	h.RegisterRoutes(r)
	r.Route("/automation", h.RegisterAutomationRoutes)
	return r, svc, recorder
}

func post(router http.Handler, path, body, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const validQuote = `{"clientName":"Acme","clientEmail":"ops@acme.test","year":2025,"lines":[{"role":"Tecnico","hours":40,"overtime":{"dayOvertime":2}}]}`

func TestCreateQuote(t *testing.T) {
	router, svc, recorder := setup(auth.UserContext{UserID: "u1", Role: auth.RoleStaff})

	rec := post(router, "/quotes", validQuote, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, svc.created, 1)
	in := svc.created[0]
	assert.Equal(t, "Acme", in.ClientName)
	assert.Equal(t, "Tecnico", in.Lines[0].Role)
	assert.True(t, in.Lines[0].Hours.Equal(decimal.NewFromInt(40)))
	assert.True(t, in.Lines[0].Overtime.DayOvertime.Equal(decimal.NewFromInt(2)))
	require.Len(t, recorder.events, 1)
	assert.Equal(t, audit.ActionQuoteCreate, recorder.events[0].Action)
	assert.Equal(t, "user:u1", recorder.events[0].Actor)
}

func TestCreateQuoteValidation(t *testing.T) {
	router, svc, _ := setup(auth.UserContext{UserID: "u1", Role: auth.RoleStaff})

	rec := post(router, "/quotes", `{"clientName":"","lines":[]}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
	assert.Contains(t, rec.Body.String(), "clientName")

	rec = post(router, "/quotes", `{"clientName":"Acme","lines":[{"role":"Master"}]}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "lines[0].hours")

	svc.err = fmt.Errorf("%w: valid roles are ...", salary.ErrInvalidRole)
	rec = post(router, "/quotes", validQuote, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_role")
}

func TestCreateQuoteIdempotency(t *testing.T) {
	router, svc, _ := setup(auth.UserContext{UserID: "k1", Role: auth.RoleAutomation, Kind: auth.PrincipalAPIKey})

	first := post(router, "/automation/quotes", validQuote, "retry-1")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	replay := post(router, "/automation/quotes", validQuote, "retry-1")
	require.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("Idempotent-Replay"))
	assert.Len(t, svc.created, 1)
	assert.Contains(t, replay.Body.String(), `"id":"q-1"`)

	conflict := post(router, "/automation/quotes", `{"clientName":"Other","lines":[{"role":"Master","hours":1}]}`, "retry-1")
	assert.Equal(t, http.StatusConflict, conflict.Code)
}

func TestGetQuoteAndPDF(t *testing.T) {
	router, _, _ := setup(auth.UserContext{UserID: "u1", Role: auth.RoleStaff})
	require.Equal(t, http.StatusCreated, post(router, "/quotes", validQuote, "").Code)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/quotes/q-1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/quotes/q-1/pdf", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/quotes/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/quotes", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
