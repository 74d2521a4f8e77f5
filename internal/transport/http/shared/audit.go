package shared

import (
	"context"
	"net"
	"net/http"
	"strings"

	"portal/internal/domain/audit"
	"portal/internal/platform/logger"
	"portal/internal/requestctx"
)

// AuditRecorder appends audit events; audit.Service implements it.
type AuditRecorder interface {
	Record(ctx context.Context, evt audit.Event, before, after any) error
}

// RecordAudit stamps request metadata on evt and records it. Failures are logged only.
func RecordAudit(r *http.Request, recorder AuditRecorder, evt audit.Event, before, after any) {
	if recorder == nil {
		return
	}
	evt.RequestID = requestctx.GetRequestID(r.Context())
	evt.IP = ClientIP(r)
	if err := recorder.Record(r.Context(), evt, before, after); err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Str("action", evt.Action).Str("entityId", evt.EntityID).Msg("audit record failed")
	}
}

func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
