package quoteshandler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"portal/internal/domain/audit"
	"portal/internal/domain/auth"
	"portal/internal/domain/currency"
	"portal/internal/domain/quotes"
	"portal/internal/domain/salary"
	"portal/internal/platform/logger"
	"portal/internal/transport/http/api"
	"portal/internal/transport/http/middleware"
	"portal/internal/transport/http/shared"
)

const endpointCreate = "quotes.create"

type QuoteService interface {
	Create(ctx context.Context, in quotes.CreateInput, createdBy string) (quotes.Quote, error)
	Get(ctx context.Context, id string) (quotes.Quote, error)
	List(ctx context.Context, limit, offset int) ([]quotes.Quote, error)
	PDF(ctx context.Context, id string) ([]byte, error)
}

type Handler struct {
	Service     QuoteService
	Idempotency middleware.IdempotencyStore
	Audit       shared.AuditRecorder
	Perms       middleware.PermissionStore
}

func NewHandler(service QuoteService, idempotency middleware.IdempotencyStore, recorder shared.AuditRecorder, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Idempotency: idempotency, Audit: recorder, Perms: perms}
}

type lineRequest struct {
	Role     string               `json:"role" validate:"required"`
	Hours    *decimal.Decimal     `json:"hours" validate:"required"`
	Overtime salary.OvertimeHours `json:"overtime"`
}

type createRequest struct {
	ClientName  string        `json:"clientName" validate:"required,max=200"`
	ClientEmail string        `json:"clientEmail" validate:"omitempty,email"`
	Year        int           `json:"year" validate:"gte=0"`
	Notes       string        `json:"notes" validate:"max=2000"`
	Lines       []lineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/quotes", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermQuotesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermQuotesWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermQuotesRead, h.Perms)).Get("/{id}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermQuotesRead, h.Perms)).Get("/{id}/pdf", h.handlePDF)
	})
}

func (h *Handler) RegisterAutomationRoutes(r chi.Router) {
	r.Route("/quotes", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermQuotesWrite, h.Perms)).Post("/", h.handleCreate)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	list, err := h.Service.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	q, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, q, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := h.Service.PDF(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=quote-"+id+".pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Str("quoteId", id).Msg("quote pdf write failed")
	}
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")
	requestHash := middleware.RequestHash(body)
	if idempotencyKey != "" && h.Idempotency != nil {
		stored, found, err := h.Idempotency.Check(r.Context(), user.Principal(), endpointCreate, idempotencyKey, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key reused with a different payload", middleware.GetRequestID(r.Context()))
			return
		}
		if err != nil {
			logger.Ctx(r.Context()).Warn().Err(err).Msg("idempotency check failed")
		}
		if found {
			w.Header().Set("Idempotent-Replay", "true")
			api.Created(w, stored, middleware.GetRequestID(r.Context()))
			return
		}
	}

	var payload createRequest
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	input := quotes.CreateInput{
		ClientName:  payload.ClientName,
		ClientEmail: payload.ClientEmail,
		Year:        payload.Year,
		Notes:       payload.Notes,
		Lines:       make([]quotes.LineInput, 0, len(payload.Lines)),
	}
	for _, line := range payload.Lines {
		input.Lines = append(input.Lines, quotes.LineInput{Role: line.Role, Hours: *line.Hours, Overtime: line.Overtime})
	}

	q, err := h.Service.Create(r.Context(), input, user.Principal())
	if err != nil {
		writeError(w, r, err)
		return
	}

	if idempotencyKey != "" && h.Idempotency != nil {
		encoded, err := json.Marshal(q)
		if err != nil {
			logger.Ctx(r.Context()).Warn().Err(err).Msg("idempotency encode failed")
		} else if err := h.Idempotency.Save(r.Context(), user.Principal(), endpointCreate, idempotencyKey, requestHash, encoded); err != nil {
			logger.Ctx(r.Context()).Warn().Err(err).Msg("idempotency save failed")
		}
	}

	shared.RecordAudit(r, h.Audit, audit.Event{
		Actor:      user.Principal(),
		Action:     audit.ActionQuoteCreate,
		EntityType: "quote",
		EntityID:   q.ID,
	}, nil, q)
	api.Created(w, q, middleware.GetRequestID(r.Context()))
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, quotes.ErrQuoteNotFound):
		api.Fail(w, http.StatusNotFound, "quote_not_found", "quote not found", reqID)
	case errors.Is(err, quotes.ErrInvalidQuote), errors.Is(err, salary.ErrInvalidInput):
		api.Fail(w, http.StatusBadRequest, "invalid_quote", err.Error(), reqID)
	case errors.Is(err, salary.ErrInvalidRole):
		api.Fail(w, http.StatusBadRequest, "invalid_role", err.Error(), reqID)
	case errors.Is(err, salary.ErrConfigNotFound):
		api.Fail(w, http.StatusNotFound, "config_not_found", err.Error(), reqID)
	case errors.Is(err, salary.ErrConfiguration):
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_configuration", err.Error(), reqID)
	case errors.Is(err, currency.ErrRateUnavailable):
		api.Fail(w, http.StatusServiceUnavailable, "rate_unavailable", "exchange rate unavailable", reqID)
	default:
		logger.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("quote request failed")
		api.Fail(w, http.StatusInternalServerError, "internal_error", "quote request failed", reqID)
	}
}
