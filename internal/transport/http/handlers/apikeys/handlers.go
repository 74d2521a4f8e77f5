package apikeyshandler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"portal/internal/domain/apikeys"
	"portal/internal/domain/audit"
	"portal/internal/domain/auth"
	"portal/internal/platform/logger"
	"portal/internal/transport/http/api"
	"portal/internal/transport/http/middleware"
	"portal/internal/transport/http/shared"
)

type KeyService interface {
	Create(ctx context.Context, name, createdBy string) (apikeys.Issued, error)
	List(ctx context.Context) ([]apikeys.Key, error)
	Revoke(ctx context.Context, id string) error
}

type Handler struct {
	Service KeyService
	Audit   shared.AuditRecorder
	Perms   middleware.PermissionStore
}

func NewHandler(service KeyService, recorder shared.AuditRecorder, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Audit: recorder, Perms: perms}
}

type createRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/apikeys", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermAPIKeysManage, h.Perms))
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Delete("/{id}", h.handleRevoke)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	keys, err := h.Service.List(r.Context())
	if err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Msg("api key list failed")
		api.Fail(w, http.StatusInternalServerError, "apikey_list_failed", "failed to list api keys", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, keys, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload createRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	issued, err := h.Service.Create(r.Context(), payload.Name, user.Principal())
	if errors.Is(err, apikeys.ErrInvalidName) {
		api.Fail(w, http.StatusBadRequest, "invalid_name", err.Error(), middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Msg("api key create failed")
		api.Fail(w, http.StatusInternalServerError, "apikey_create_failed", "failed to create api key", middleware.GetRequestID(r.Context()))
		return
	}

	shared.RecordAudit(r, h.Audit, audit.Event{
		Actor:      user.Principal(),
		Action:     audit.ActionAPIKeyCreate,
		EntityType: "api_key",
		EntityID:   issued.ID,
	}, nil, issued.Key)
	api.Created(w, issued, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	id := chi.URLParam(r, "id")
	err := h.Service.Revoke(r.Context(), id)
	if errors.Is(err, apikeys.ErrKeyNotFound) {
		api.Fail(w, http.StatusNotFound, "apikey_not_found", "api key not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Str("keyId", id).Msg("api key revoke failed")
		api.Fail(w, http.StatusInternalServerError, "apikey_revoke_failed", "failed to revoke api key", middleware.GetRequestID(r.Context()))
		return
	}

	shared.RecordAudit(r, h.Audit, audit.Event{
		Actor:      user.Principal(),
		Action:     audit.ActionAPIKeyRevoke,
		EntityType: "api_key",
		EntityID:   id,
	}, nil, nil)
	api.Success(w, map[string]string{"id": id, "status": "revoked"}, middleware.GetRequestID(r.Context()))
}
