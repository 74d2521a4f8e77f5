package apikeyshandler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal/internal/domain/apikeys"
	"portal/internal/domain/audit"
	"portal/internal/domain/auth"
	"portal/internal/transport/http/middleware"
)

type fakeKeys struct {
	keys map[string]apikeys.Key
}

func (f *fakeKeys) Create(_ context.Context, name, createdBy string) (apikeys.Issued, error) {
	key := apikeys.Key{ID: "k1", Name: name, Prefix: "0a1b2c3d", CreatedBy: createdBy}
	f.keys[key.ID] = key
	return apikeys.Issued{Key: key, Token: "pk_0a1b2c3d_secret"}, nil
}

func (f *fakeKeys) List(context.Context) ([]apikeys.Key, error) {
	out := make([]apikeys.Key, 0, len(f.keys))
	for _, k := range f.keys {
		out = append(out, k)
	}
	return out, nil
}

func (f *fakeKeys) Revoke(_ context.Context, id string) error {
	if _, ok := f.keys[id]; !ok {
		return apikeys.ErrKeyNotFound
	}
	delete(f.keys, id)
	return nil
}

type captureAudit struct {
	events []audit.Event
}

func (c *captureAudit) Record(_ context.Context, evt audit.Event, _, _ any) error {
	c.events = append(c.events, evt)
	return nil
}

func serve(h *Handler, role, method, path, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req = req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: "u1", Role: role}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAPIKeyLifecycle(t *testing.T) {
	keys := &fakeKeys{keys: map[string]apikeys.Key{}}
	recorder := &captureAudit{}
	h := NewHandler(keys, recorder, auth.StaticPermissions{})

	rec := serve(h, auth.RoleStaff, http.MethodPost, "/apikeys", `{"name":"n8n"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(h, auth.RoleAdmin, http.MethodPost, "/apikeys", `{"name":"n8n"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"token":"pk_0a1b2c3d_secret"`)
	assert.Equal(t, "user:u1", keys.keys["k1"].CreatedBy)

	rec = serve(h, auth.RoleAdmin, http.MethodGet, "/apikeys", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")

	rec = serve(h, auth.RoleAdmin, http.MethodDelete, "/apikeys/k1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = serve(h, auth.RoleAdmin, http.MethodDelete, "/apikeys/k1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.Len(t, recorder.events, 2)
	assert.Equal(t, audit.ActionAPIKeyCreate, recorder.events[0].Action)
	assert.Equal(t, audit.ActionAPIKeyRevoke, recorder.events[1].Action)
}

func TestCreateAPIKeyRequiresName(t *testing.T) {
	h := NewHandler(&fakeKeys{keys: map[string]apikeys.Key{}}, nil, auth.StaticPermissions{})
	rec := serve(h, auth.RoleAdmin, http.MethodPost, "/apikeys", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}
