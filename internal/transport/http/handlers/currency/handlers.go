package currencyhandler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"portal/internal/domain/audit"
	"portal/internal/domain/auth"
	"portal/internal/domain/currency"
	"portal/internal/platform/logger"
	"portal/internal/transport/http/api"
	"portal/internal/transport/http/middleware"
	"portal/internal/transport/http/shared"
)

type RateService interface {
	Current(ctx context.Context) (currency.Rate, error)
	Refresh(ctx context.Context) (currency.Rate, error)
}

type Handler struct {
	Service RateService
	Audit   shared.AuditRecorder
	Perms   middleware.PermissionStore
}

func NewHandler(service RateService, recorder shared.AuditRecorder, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Audit: recorder, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/currency", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermSalaryRead, h.Perms)).Get("/rate", h.handleCurrent)
		r.With(middleware.RequirePermission(auth.PermSalaryWrite, h.Perms)).Post("/rate/refresh", h.handleRefresh)
	})
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	rate, err := h.Service.Current(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, rate, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	rate, err := h.Service.Refresh(r.Context())
	if err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Msg("manual exchange rate refresh failed")
		api.Fail(w, http.StatusBadGateway, "rate_refresh_failed", "exchange rate provider unavailable", middleware.GetRequestID(r.Context()))
		return
	}
	shared.RecordAudit(r, h.Audit, audit.Event{
		Actor:      user.Principal(),
		Action:     audit.ActionRateRefresh,
		EntityType: "exchange_rate",
		EntityID:   rate.Base + "/" + rate.Quote,
	}, nil, rate)
	api.Success(w, rate, middleware.GetRequestID(r.Context()))
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, currency.ErrRateUnavailable) {
		api.Fail(w, http.StatusServiceUnavailable, "rate_unavailable", "exchange rate unavailable", middleware.GetRequestID(r.Context()))
		return
	}
	logger.Ctx(r.Context()).Error().Err(err).Msg("exchange rate lookup failed")
	api.Fail(w, http.StatusInternalServerError, "internal_error", "exchange rate lookup failed", middleware.GetRequestID(r.Context()))
}
