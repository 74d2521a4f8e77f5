package salaryhandler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"portal/internal/domain/audit"
	"portal/internal/domain/auth"
	"portal/internal/domain/currency"
	"portal/internal/domain/salary"
	"portal/internal/platform/logger"
	"portal/internal/transport/http/api"
	"portal/internal/transport/http/middleware"
	"portal/internal/transport/http/shared"
)

type SalaryService interface {
	Config(ctx context.Context, year int) (salary.Config, error)
	ListConfigs(ctx context.Context) ([]salary.Config, error)
	SaveConfig(ctx context.Context, cfg salary.Config) error
	Multipliers(ctx context.Context) (salary.Multipliers, error)
	EffectiveMultipliers(ctx context.Context) (salary.Multipliers, error)
	SetMultiplier(ctx context.Context, roleName string, value decimal.Decimal) (salary.Role, error)
	DeleteMultiplier(ctx context.Context, roleName string) (salary.Role, error)
	Full(ctx context.Context, year int, role string) (salary.FullBreakdown, error)
	Table(ctx context.Context, year int) ([]salary.FullBreakdown, error)
	NetViews(ctx context.Context, year int, gross, hours decimal.Decimal, overtime salary.OvertimeHours) (salary.Config, salary.NetViews, error)
}

type RateSource interface {
	Converter(ctx context.Context) (currency.Converter, error)
}

type Handler struct {
	Service SalaryService
	Rates   RateSource
	Audit   shared.AuditRecorder
	Perms   middleware.PermissionStore
}

func NewHandler(service SalaryService, rates RateSource, recorder shared.AuditRecorder, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Rates: rates, Audit: recorder, Perms: perms}
}

type configRequest struct {
	BaseWage             *decimal.Decimal `json:"baseWage" validate:"required"`
	TransportSubsidy     *decimal.Decimal `json:"transportSubsidy" validate:"required"`
	LegalMonthlyHours    int              `json:"legalMonthlyHours" validate:"required,gt=0"`
	VATPercent           *decimal.Decimal `json:"vatPercent" validate:"required"`
	ProfitMarginPercent  *decimal.Decimal `json:"profitMarginPercent" validate:"required"`
	EmployerBurdenFactor *decimal.Decimal `json:"employerBurdenFactor" validate:"required"`
}

type multiplierRequest struct {
	Value *decimal.Decimal `json:"value" validate:"required"`
}

type calculatorRequest struct {
	GrossMonthlySalary *decimal.Decimal      `json:"grossMonthlySalary" validate:"required"`
	HoursToBill        *decimal.Decimal      `json:"hoursToBill" validate:"required"`
	Overtime           salary.OvertimeHours `json:"overtime"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/salary", func(r chi.Router) {
		read := middleware.RequirePermission(auth.PermSalaryRead, h.Perms)
		write := middleware.RequirePermission(auth.PermSalaryWrite, h.Perms)

		r.With(read).Get("/configs", h.handleListConfigs)
		r.With(read).Get("/configs/{year}", h.handleGetConfig)
		r.With(write).Put("/configs/{year}", h.handlePutConfig)
		r.With(read).Get("/multipliers", h.handleListMultipliers)
		r.With(write).Put("/multipliers/{role}", h.handlePutMultiplier)
		r.With(write).Delete("/multipliers/{role}", h.handleDeleteMultiplier)
		h.registerQueries(r, read)
	})
}

// RegisterAutomationRoutes mounts the read-only query surface for API-key clients.
func (h *Handler) RegisterAutomationRoutes(r chi.Router) {
	r.Route("/salary", func(r chi.Router) {
		h.registerQueries(r, middleware.RequirePermission(auth.PermSalaryRead, h.Perms))
	})
}

func (h *Handler) registerQueries(r chi.Router, read func(http.Handler) http.Handler) {
	r.With(read).Get("/{year}/roles/{role}", h.handleRole)
	r.With(read).Get("/{year}/table", h.handleTable)
	r.With(read).Get("/{year}/table.xlsx", h.handleTableExport)
	r.With(read).Post("/{year}/calculator", h.handleCalculator)
}

func (h *Handler) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := h.Service.ListConfigs(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, configs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYear(w, r)
	if !ok {
		return
	}
	cfg, err := h.Service.Config(r.Context(), year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, cfg, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	year, ok := parseYear(w, r)
	if !ok {
		return
	}
	if year == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_year", "an explicit year is required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload configRequest
	if !decode(w, r, &payload) {
		return
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	cfg := salary.Config{
		Year:                 year,
		BaseWage:             *payload.BaseWage,
		TransportSubsidy:     *payload.TransportSubsidy,
		LegalMonthlyHours:    payload.LegalMonthlyHours,
		VATPercent:           *payload.VATPercent,
		ProfitMarginPercent:  *payload.ProfitMarginPercent,
		EmployerBurdenFactor: *payload.EmployerBurdenFactor,
	}
	var before any
	if existing, err := h.Service.Config(r.Context(), year); err == nil {
		before = existing
	}
	if err := h.Service.SaveConfig(r.Context(), cfg); err != nil {
		writeError(w, r, err)
		return
	}

	shared.RecordAudit(r, h.Audit, audit.Event{
		Actor:      user.Principal(),
		Action:     audit.ActionConfigUpsert,
		EntityType: "salary_config",
		EntityID:   strconv.Itoa(year),
	}, before, cfg)
	api.Success(w, cfg, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListMultipliers(w http.ResponseWriter, r *http.Request) {
	effective, err := h.Service.EffectiveMultipliers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	overrides, err := h.Service.Multipliers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	type multiplierView struct {
		Role       salary.Role     `json:"role"`
		Multiplier decimal.Decimal `json:"multiplier"`
		Overridden bool            `json:"overridden"`
	}
	out := make([]multiplierView, 0, len(salary.Roles()))
	for _, role := range salary.Roles() {
		_, overridden := overrides[role]
		out = append(out, multiplierView{Role: role, Multiplier: effective[role], Overridden: overridden})
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePutMultiplier(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload multiplierRequest
	if !decode(w, r, &payload) {
		return
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	role, err := h.Service.SetMultiplier(r.Context(), chi.URLParam(r, "role"), *payload.Value)
	if err != nil {
		writeError(w, r, err)
		return
	}
	after := map[string]any{"role": role, "multiplier": payload.Value}
	shared.RecordAudit(r, h.Audit, audit.Event{
		Actor:      user.Principal(),
		Action:     audit.ActionMultiplierSet,
		EntityType: "role_multiplier",
		EntityID:   string(role),
	}, nil, after)
	api.Success(w, after, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteMultiplier(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	role, err := h.Service.DeleteMultiplier(r.Context(), chi.URLParam(r, "role"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, audit.Event{
		Actor:      user.Principal(),
		Action:     audit.ActionMultiplierDelete,
		EntityType: "role_multiplier",
		EntityID:   string(role),
	}, nil, nil)
	api.Success(w, map[string]any{"role": role, "status": "default"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRole(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYear(w, r)
	if !ok {
		return
	}
	full, err := h.Service.Full(r.Context(), year, chi.URLParam(r, "role"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	conv, err := h.Rates.Converter(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, roleDetailView{
		Config:       newConfigView(full.Config, conv),
		ExchangeRate: conv.Rate(),
		roleView:     newRoleView(full, conv),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTable(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYear(w, r)
	if !ok {
		return
	}
	table, err := h.Service.Table(r.Context(), year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	conv, err := h.Rates.Converter(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	view := tableView{ExchangeRate: conv.Rate(), Roles: make([]roleView, 0, len(table))}
	for i, full := range table {
		if i == 0 {
			view.Config = newConfigView(full.Config, conv)
		}
		view.Roles = append(view.Roles, newRoleView(full, conv))
	}
	api.Success(w, view, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTableExport(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYear(w, r)
	if !ok {
		return
	}
	table, err := h.Service.Table(r.Context(), year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var conv *currency.Converter
	if c, err := h.Rates.Converter(r.Context()); err == nil {
		conv = &c
	} else {
		logger.Ctx(r.Context()).Warn().Err(err).Msg("salary export without exchange rate")
	}

	doc, err := BuildTableWorkbook(table, conv)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to build workbook", middleware.GetRequestID(r.Context()))
		return
	}
	filename := "salary-table.xlsx"
	if len(table) > 0 {
		filename = "salary-table-" + strconv.Itoa(table[0].Config.Year) + ".xlsx"
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Msg("salary export write failed")
	}
}

func (h *Handler) handleCalculator(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYear(w, r)
	if !ok {
		return
	}
	var payload calculatorRequest
	if !decode(w, r, &payload) {
		return
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	cfg, views, err := h.Service.NetViews(r.Context(), year, *payload.GrossMonthlySalary, *payload.HoursToBill, payload.Overtime)
	if err != nil {
		writeError(w, r, err)
		return
	}
	conv, err := h.Rates.Converter(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, newCalculatorView(cfg, views, conv), middleware.GetRequestID(r.Context()))
}

// parseYear accepts a positive year or "latest", which resolves to 0.
func parseYear(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, "year"))
	if strings.EqualFold(raw, "latest") {
		return 0, true
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_year", "year must be a positive integer or latest", middleware.GetRequestID(r.Context()))
		return 0, false
	}
	return year, true
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, salary.ErrInvalidRole):
		api.Fail(w, http.StatusBadRequest, "invalid_role", err.Error(), reqID)
	case errors.Is(err, salary.ErrInvalidInput):
		api.Fail(w, http.StatusBadRequest, "invalid_input", err.Error(), reqID)
	case errors.Is(err, salary.ErrConfigNotFound):
		api.Fail(w, http.StatusNotFound, "config_not_found", err.Error(), reqID)
	case errors.Is(err, salary.ErrConfiguration):
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_configuration", err.Error(), reqID)
	case errors.Is(err, currency.ErrRateUnavailable), errors.Is(err, currency.ErrInvalidRate):
		api.Fail(w, http.StatusServiceUnavailable, "rate_unavailable", "exchange rate unavailable", reqID)
	default:
		logger.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("salary request failed")
		api.Fail(w, http.StatusInternalServerError, "internal_error", "salary request failed", reqID)
	}
}
