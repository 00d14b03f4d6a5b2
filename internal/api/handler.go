package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/samandr77/microservices/portal/internal/clients/places"
	"github.com/samandr77/microservices/portal/internal/entity"
	"github.com/samandr77/microservices/portal/internal/guard"
	"github.com/samandr77/microservices/portal/internal/realtime"
	"github.com/samandr77/microservices/portal/internal/schema"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=handler.go -destination=../mocks/handler.go -package=mocks

// @title Pharmacy Portal API
// @version 1.0
// @description Session, organization context and access control for pharmacy portal users
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

type Service interface {
	EndSession(ctx context.Context, token string) error
	SwitchOrganization(ctx context.Context, token, pharmacyID, locationID string) (entity.Session, error)
	RefreshAccess(ctx context.Context, token string) (entity.Session, error)
	CreateOrder(ctx context.Context, session entity.Session, order json.RawMessage) (json.RawMessage, error)
	FinancialSummary(ctx context.Context, session entity.Session) (json.RawMessage, error)
	Autocomplete(ctx context.Context, input string) ([]places.Suggestion, error)
	Place(ctx context.Context, placeID string) (places.Place, error)
}

type RealtimeHub interface {
	Attach(ctx context.Context, session entity.Session) (*realtime.Stream, error)
	Detach(stream *realtime.Stream)
	Join(stream *realtime.Stream, room entity.Room) error
	Leave(stream *realtime.Stream, room entity.Room) error
}

type Handler struct {
	s        Service
	hub      RealtimeHub
	upgrader *websocket.Upgrader
}

func NewHandler(s Service, hub RealtimeHub, allowedOrigins []string) *Handler {
	return &Handler{
		s:        s,
		hub:      hub,
		upgrader: newUpgrader(allowedOrigins),
	}
}

type SessionResponse struct {
	User             entity.User             `json:"user"`
	Organization     entity.OrgContext       `json:"organization"`
	Role             entity.RoleType         `json:"role"`
	Permissions      entity.Matrix           `json:"permissions"`
	GovernanceStatus entity.GovernanceStatus `json:"governance_status"`
	CanOperate       bool                    `json:"can_operate"`
	ExpiresAt        *time.Time              `json:"expires_at,omitempty"`
}

func newSessionResponse(s entity.Session) SessionResponse {
	resp := SessionResponse{
		User:             s.User,
		Organization:     s.Org,
		Role:             s.Access.Role,
		Permissions:      s.Access.Permissions,
		GovernanceStatus: s.Access.Governance,
		CanOperate:       s.Access.CanOperate(),
	}

	if !s.ExpiresAt.IsZero() {
		resp.ExpiresAt = &s.ExpiresAt
	}

	return resp
}

// @Summary Health check
// @Tags health
// @Produce plain
// @Success 200 {string} string "Service is up!"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, err := w.Write([]byte("Service is up!\n"))
	if err != nil {
		SendJSONErr(ctx, w, http.StatusInternalServerError, err, "Service is down!")
		return
	}
}

// Session returns the caller's identity, organization context and access.
//
// @Summary Current session
// @Tags session
// @Produce json
// @Success 200 {object} SessionResponse
// @Failure 401 {object} ErrorResponse "Invalid or expired token"
// @Router /v1/session [get]
// @Security BearerAuth
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := entity.SessionFromCtx(ctx)
	if err != nil {
		sendServiceErr(ctx, w, err, "")
		return
	}

	SendJSON(ctx, w, http.StatusOK, newSessionResponse(session))
}

// EndSession is the logout: cached session, live connection and persisted
// organization context are dropped.
//
// @Summary End session
// @Tags session
// @Success 204
// @Failure 401 {object} ErrorResponse "Invalid or expired token"
// @Failure 500 {object} ErrorResponse "Failed to end session"
// @Router /v1/session [delete]
// @Security BearerAuth
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := entity.SessionFromCtx(ctx)
	if err != nil {
		sendServiceErr(ctx, w, err, "")
		return
	}

	err = h.s.EndSession(ctx, session.Token)
	if err != nil {
		sendServiceErr(ctx, w, err, "Failed to end session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary Current organization context
// @Tags organization
// @Produce json
// @Success 200 {object} entity.OrgContext
// @Failure 401 {object} ErrorResponse "Invalid or expired token"
// @Router /v1/organization [get]
// @Security BearerAuth
func (h *Handler) Organization(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := entity.SessionFromCtx(ctx)
	if err != nil {
		sendServiceErr(ctx, w, err, "")
		return
	}

	SendJSON(ctx, w, http.StatusOK, session.Org)
}

type SwitchOrganizationRequest struct {
	PharmacyID string `json:"pharmacy_id" validate:"required"`
	LocationID string `json:"location_id"`
}

// @Summary Switch organization
// @Description Selects the pharmacy and location the session acts for and reloads access
// @Tags organization
// @Accept json
// @Produce json
// @Param SwitchOrganizationRequest body SwitchOrganizationRequest true "Pharmacy and optional location"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Invalid or expired token"
// @Failure 403 {object} ErrorResponse "Not a member of the pharmacy"
// @Failure 500 {object} ErrorResponse "Failed to switch organization"
// @Router /v1/organization [put]
// @Security BearerAuth
func (h *Handler) SwitchOrganization(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := entity.SessionFromCtx(ctx)
	if err != nil {
		sendServiceErr(ctx, w, err, "")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "Read request body")
		return
	}

	req, err := schema.Decode[SwitchOrganizationRequest](body).Unpack()
	if err != nil {
		sendServiceErr(ctx, w, err, "")
		return
	}

	session, err = h.s.SwitchOrganization(ctx, session.Token, req.PharmacyID, req.LocationID)
	if err != nil {
		sendServiceErr(ctx, w, err, "Failed to switch organization")
		return
	}

	SendJSON(ctx, w, http.StatusOK, newSessionResponse(session))
}

// RefreshAccess re-fetches role and governance status. A failed fetch still
// answers with the (denied) session so clients render the fallback.
//
// @Summary Refresh access
// @Tags access
// @Produce json
// @Success 200 {object} SessionResponse
// @Failure 401 {object} ErrorResponse "Invalid or expired token"
// @Failure 500 {object} ErrorResponse "Failed to refresh access"
// @Router /v1/access/refresh [post]
// @Security BearerAuth
func (h *Handler) RefreshAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := entity.SessionFromCtx(ctx)
	if err != nil {
		sendServiceErr(ctx, w, err, "")
		return
	}

	refreshed, err := h.s.RefreshAccess(ctx, session.Token)
	if err != nil {
		if refreshed.Token == "" {
			sendServiceErr(ctx, w, err, "Failed to refresh access")
			return
		}

		w.Header().Set("Warning", `199 - "access data unavailable"`)
	}

	SendJSON(ctx, w, http.StatusOK, newSessionResponse(refreshed))
}

type PermissionCheckResponse struct {
	Category string `json:"category"`
	Action   string `json:"action"`
	Allowed  bool   `json:"allowed"`
}

// @Summary Check permission
// @Tags access
// @Produce json
// @Param category query string true "Permission category"
// @Param action query string true "Permission action"
// @Success 200 {object} PermissionCheckResponse
// @Failure 400 {object} ErrorResponse "Invalid category or action"
// @Failure 401 {object} ErrorResponse "Invalid or expired token"
// @Router /v1/permissions/check [get]
// @Security BearerAuth
func (h *Handler) CheckPermission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := entity.SessionFromCtx(ctx)
	if err != nil {
		sendServiceErr(ctx, w, err, "")
		return
	}

	req := guard.Requirement{
		Category: r.URL.Query().Get("category"),
		Action:   r.URL.Query().Get("action"),
	}

	_, err = schema.Validate(req).Unpack()
	if err != nil {
		sendServiceErr(ctx, w, err, "")
		return
	}

	SendJSON(ctx, w, http.StatusOK, PermissionCheckResponse{
		Category: req.Category,
		Action:   req.Action,
		Allowed:  session.Access.Can(req.Category, req.Action),
	})
}

type EvaluateGuardsRequest struct {
	Guards map[string]guard.Guard `json:"guards" validate:"required,dive"`
}

type EvaluateGuardsResponse struct {
	Results map[string]bool `json:"results"`
}

// EvaluateGuards answers a batch of named guards against the caller's access.
//
// @Summary Evaluate guards
// @Tags access
// @Accept json
// @Produce json
// @Param EvaluateGuardsRequest body EvaluateGuardsRequest true "Named guards"
// @Success 200 {object} EvaluateGuardsResponse
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Invalid or expired token"
// @Router /v1/guards/evaluate [post]
// @Security BearerAuth
func (h *Handler) EvaluateGuards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := entity.SessionFromCtx(ctx)
	if err != nil {
		sendServiceErr(ctx, w, err, "")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "Read request body")
		return
	}

	req, err := schema.Decode[EvaluateGuardsRequest](body).Unpack()
	if err != nil {
		sendServiceErr(ctx, w, err, "")
		return
	}

	results := make(map[string]bool, len(req.Guards))
	for name, g := range req.Guards {
		results[name] = g.Allows(&session.Access)
	}

	SendJSON(ctx, w, http.StatusOK, EvaluateGuardsResponse{Results: results})
}

// @Summary Create order
// @Description Passes the order to the pharmacy backend. Requires orders.create and an operating pharmacy
// @Tags orders
// @Accept json
// @Produce json
// @Param order body object true "Order payload"
// @Success 201 {object} object
// @Failure 400 {object} ErrorResponse "Invalid JSON"
// @Failure 401 {object} ErrorResponse "Invalid or expired token"
// @Failure 403 {object} ErrorResponse "Not enough permissions or pharmacy is not allowed to operate"
// @Failure 500 {object} ErrorResponse "Failed to create order"
// @Router /v1/orders [post]
// @Security BearerAuth
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := entity.SessionFromCtx(ctx)
	if err != nil {
		sendServiceErr(ctx, w, err, "")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "Read request body")
		return
	}

	if !json.Valid(body) {
		SendJSONErr(ctx, w, http.StatusBadRequest, fmt.Errorf("%w: malformed json", entity.ErrInvalidArgument), "Invalid JSON")
		return
	}

	resp, err := h.s.CreateOrder(ctx, session, body)
	if err != nil {
		sendServiceErr(ctx, w, err, "Failed to create order")
		return
	}

	SendJSON(ctx, w, http.StatusCreated, resp)
}

// @Summary Financial summary
// @Tags financials
// @Produce json
// @Success 200 {object} object
// @Failure 401 {object} ErrorResponse "Invalid or expired token"
// @Failure 403 {object} ErrorResponse "Not enough permissions"
// @Failure 500 {object} ErrorResponse "Failed to load financial summary"
// @Router /v1/financials/summary [get]
// @Security BearerAuth
func (h *Handler) FinancialSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := entity.SessionFromCtx(ctx)
	if err != nil {
		sendServiceErr(ctx, w, err, "")
		return
	}

	resp, err := h.s.FinancialSummary(ctx, session)
	if err != nil {
		sendServiceErr(ctx, w, err, "Failed to load financial summary")
		return
	}

	SendJSON(ctx, w, http.StatusOK, resp)
}

// @Summary Address autocomplete
// @Tags places
// @Produce json
// @Param input query string true "Partial address"
// @Success 200 {array} places.Suggestion
// @Failure 400 {object} ErrorResponse "Empty input"
// @Failure 403 {object} ErrorResponse "Not enough permissions"
// @Failure 500 {object} ErrorResponse "Failed to load suggestions"
// @Router /v1/places/autocomplete [get]
// @Security BearerAuth
func (h *Handler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	suggestions, err := h.s.Autocomplete(ctx, r.URL.Query().Get("input"))
	if err != nil {
		sendServiceErr(ctx, w, err, "Failed to load suggestions")
		return
	}

	SendJSON(ctx, w, http.StatusOK, suggestions)
}

// @Summary Place details
// @Tags places
// @Produce json
// @Param placeID path string true "Place ID"
// @Success 200 {object} places.Place
// @Failure 403 {object} ErrorResponse "Not enough permissions"
// @Failure 404 {object} ErrorResponse "Place not found"
// @Failure 500 {object} ErrorResponse "Failed to load place"
// @Router /v1/places/{placeID} [get]
// @Security BearerAuth
func (h *Handler) Place(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	place, err := h.s.Place(ctx, chi.URLParam(r, "placeID"))
	if err != nil {
		sendServiceErr(ctx, w, err, "Failed to load place")
		return
	}

	SendJSON(ctx, w, http.StatusOK, place)
}
