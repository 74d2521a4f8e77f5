package shared

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal/internal/domain/audit"
	"portal/internal/requestctx"
)

type captureAudit struct {
	events []audit.Event
	err    error
}

func (c *captureAudit) Record(_ context.Context, evt audit.Event, _, _ any) error {
	c.events = append(c.events, evt)
	return c.err
}

func TestRecordAuditStampsRequestMetadata(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/salary/configs/2025", nil)
	req.RemoteAddr = "203.0.113.7:4000"
	req = req.WithContext(requestctx.WithRequestID(req.Context(), "req-1"))

	rec := &captureAudit{}
	RecordAudit(req, rec, audit.Event{Actor: "user:u1", Action: audit.ActionConfigUpsert}, nil, map[string]int{"year": 2025})

	require.Len(t, rec.events, 1)
	assert.Equal(t, "req-1", rec.events[0].RequestID)
	assert.Equal(t, "203.0.113.7", rec.events[0].IP)
}

func TestRecordAuditSwallowsFailures(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	rec := &captureAudit{err: errors.New("db down")}

	assert.NotPanics(t, func() {
		RecordAudit(req, rec, audit.Event{Action: audit.ActionQuoteCreate}, nil, nil)
	})
	assert.Equal(t, "198.51.100.1", rec.events[0].IP)
	RecordAudit(req, nil, audit.Event{}, nil, nil)
}
