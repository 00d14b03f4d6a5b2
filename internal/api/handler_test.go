package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/samandr77/microservices/portal/internal/api"
	"github.com/samandr77/microservices/portal/internal/clients/places"
	"github.com/samandr77/microservices/portal/internal/entity"
	"github.com/samandr77/microservices/portal/internal/mocks"
	"github.com/samandr77/microservices/portal/internal/realtime"
)

const testToken = "dev"

type Tester struct {
	srv      *httptest.Server
	authMock *mocks.MockAuthService
	svcMock  *mocks.MockService
}

func NewTester(t *testing.T, hub api.RealtimeHub) Tester {
	t.Helper()

	ctrl := gomock.NewController(t)
	authMock := mocks.NewMockAuthService(ctrl)
	svcMock := mocks.NewMockService(ctrl)

	if hub == nil {
		hub = mocks.NewMockRealtimeHub(ctrl)
	}

	handler := api.NewHandler(svcMock, hub, nil)
	mw := api.NewMiddleware(authMock, nil)

	srv := httptest.NewServer(api.NewRouter(handler, mw))
	t.Cleanup(srv.Close)

	return Tester{
		srv:      srv,
		authMock: authMock,
		svcMock:  svcMock,
	}
}

func (c Tester) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var r io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)

		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, c.srv.URL+path, r)
	require.NoError(t, err)

	req.Header.Set("Authorization", "Bearer "+testToken)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))

	return v
}

func sessionFor(role entity.RoleType, status entity.GovernanceStatus) entity.Session {
	return entity.Session{
		Token: testToken,
		User:  entity.User{ID: "u-1", Email: "user@example.com"},
		Org: entity.OrgContext{
			PharmacyID:   "p-1",
			PharmacyName: "Main St",
		},
		Access: entity.NewAccess(string(role), status),
	}
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()

	c := NewTester(t, nil)

	resp, err := http.Get(c.srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandler_Swagger(t *testing.T) {
	t.Parallel()

	c := NewTester(t, nil)

	resp, err := http.Get(c.srv.URL + "/api/swagger/doc.json")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc := decode[struct {
		BasePath string                    `json:"basePath"`
		Paths    map[string]map[string]any `json:"paths"`
	}](t, resp)

	require.Equal(t, "/api", doc.BasePath)
	require.Contains(t, doc.Paths["/v1/orders"], "post")
	require.Contains(t, doc.Paths["/v1/session"], "delete")
}

func TestHandler_Unauthorized(t *testing.T) {
	t.Parallel()

	c := NewTester(t, nil)

	resp, err := http.Get(c.srv.URL + "/api/v1/session")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	c.authMock.EXPECT().Authenticate(gomock.Any(), testToken).Return(entity.Session{}, entity.ErrUnauthorized)

	resp = c.do(t, http.MethodGet, "/api/v1/session", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	c.authMock.EXPECT().Authenticate(gomock.Any(), testToken).Return(entity.Session{}, errors.New("backend down"))

	resp = c.do(t, http.MethodGet, "/api/v1/session", nil)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestHandler_Session(t *testing.T) {
	t.Parallel()

	c := NewTester(t, nil)

	c.authMock.EXPECT().Authenticate(gomock.Any(), testToken).
		Return(sessionFor(entity.RoleStaff, entity.GovernanceIncomplete), nil)

	resp := c.do(t, http.MethodGet, "/api/v1/session", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[api.SessionResponse](t, resp)
	require.Equal(t, entity.RoleStaff, got.Role)
	require.Equal(t, "p-1", got.Organization.PharmacyID)
	require.False(t, got.CanOperate)
	require.False(t, got.Permissions[entity.CategoryFinancials][entity.ActionView])
	require.True(t, got.Permissions[entity.CategoryOrders][entity.ActionView])
	require.Nil(t, got.ExpiresAt)
}

func TestHandler_EndSession(t *testing.T) {
	t.Parallel()

	c := NewTester(t, nil)

	c.authMock.EXPECT().Authenticate(gomock.Any(), testToken).
		Return(sessionFor(entity.RoleStaff, entity.GovernanceActive), nil)
	c.svcMock.EXPECT().EndSession(gomock.Any(), testToken).Return(nil)

	resp := c.do(t, http.MethodDelete, "/api/v1/session", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestHandler_SwitchOrganization(t *testing.T) {
	t.Parallel()

	c := NewTester(t, nil)

	c.authMock.EXPECT().Authenticate(gomock.Any(), testToken).
		Return(sessionFor(entity.RoleStaff, entity.GovernanceActive), nil).Times(3)

	resp := c.do(t, http.MethodPut, "/api/v1/organization", map[string]string{"location_id": "l-1"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errResp := decode[api.ErrorResponse](t, resp)
	require.Len(t, errResp.Fields, 1)
	require.Equal(t, "required", errResp.Fields[0].Rule)

	c.svcMock.EXPECT().SwitchOrganization(gomock.Any(), testToken, "p-9", "").
		Return(entity.Session{}, entity.ErrNotMember)

	resp = c.do(t, http.MethodPut, "/api/v1/organization", map[string]string{"pharmacy_id": "p-9"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	switched := sessionFor(entity.RolePharmacyOwner, entity.GovernanceActive)
	switched.Org = entity.OrgContext{PharmacyID: "p-2", PharmacyName: "High St", LocationID: "l-1"}

	c.svcMock.EXPECT().SwitchOrganization(gomock.Any(), testToken, "p-2", "l-1").Return(switched, nil)

	resp = c.do(t, http.MethodPut, "/api/v1/organization", map[string]string{"pharmacy_id": "p-2", "location_id": "l-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[api.SessionResponse](t, resp)
	require.Equal(t, "p-2", got.Organization.PharmacyID)
	require.Equal(t, entity.RolePharmacyOwner, got.Role)
	require.True(t, got.CanOperate)
}

func TestHandler_RefreshAccess(t *testing.T) {
	t.Parallel()

	c := NewTester(t, nil)

	c.authMock.EXPECT().Authenticate(gomock.Any(), testToken).
		Return(sessionFor(entity.RolePharmacyOwner, entity.GovernanceActive), nil).Times(2)

	denied := sessionFor(entity.RolePharmacyOwner, entity.GovernanceActive)
	denied.Access = entity.DeniedAccess()

	c.svcMock.EXPECT().RefreshAccess(gomock.Any(), testToken).Return(denied, errors.New("timeout"))

	resp := c.do(t, http.MethodPost, "/api/v1/access/refresh", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("Warning"))

	got := decode[api.SessionResponse](t, resp)
	require.False(t, got.CanOperate)
	require.False(t, got.Permissions[entity.CategoryOrders][entity.ActionView])

	c.svcMock.EXPECT().RefreshAccess(gomock.Any(), testToken).Return(entity.Session{}, entity.ErrUnauthorized)

	resp = c.do(t, http.MethodPost, "/api/v1/access/refresh", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandler_CheckPermission(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		role     entity.RoleType
		query    string
		wantCode int
		allowed  bool
	}{
		{
			name:     "staff cannot view financials",
			role:     entity.RoleStaff,
			query:    "?category=financials&action=view",
			wantCode: http.StatusOK,
			allowed:  false,
		},
		{
			name:     "owner views financials",
			role:     entity.RolePharmacyOwner,
			query:    "?category=financials&action=view",
			wantCode: http.StatusOK,
			allowed:  true,
		},
		{
			name:     "unknown action is denied",
			role:     entity.RolePharmacyOwner,
			query:    "?category=financials&action=launch",
			wantCode: http.StatusOK,
			allowed:  false,
		},
		{
			name:     "missing action",
			role:     entity.RolePharmacyOwner,
			query:    "?category=financials",
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewTester(t, nil)

			c.authMock.EXPECT().Authenticate(gomock.Any(), testToken).
				Return(sessionFor(tt.role, entity.GovernanceActive), nil)

			resp := c.do(t, http.MethodGet, "/api/v1/permissions/check"+tt.query, nil)
			require.Equal(t, tt.wantCode, resp.StatusCode)

			if tt.wantCode == http.StatusOK {
				require.Equal(t, tt.allowed, decode[api.PermissionCheckResponse](t, resp).Allowed)
			}
		})
	}
}

func TestHandler_EvaluateGuards(t *testing.T) {
	t.Parallel()

	c := NewTester(t, nil)

	c.authMock.EXPECT().Authenticate(gomock.Any(), testToken).
		Return(sessionFor(entity.RolePharmacyOwner, entity.GovernanceSuspended), nil).Times(2)

	body := map[string]any{
		"guards": map[string]any{
			"payouts":    map[string]any{"permission": map[string]string{"category": "financials", "action": "manage_payouts"}},
			"take_order": map[string]any{"permission": map[string]string{"category": "orders", "action": "create"}, "require_operate": true},
			"any_staff": map[string]any{"any_of": []map[string]string{
				{"category": "staff", "action": "remove"},
				{"category": "audit", "action": "launch"},
			}},
			"staff_only": map[string]any{"roles": []string{"STAFF"}},
			"everyone":   map[string]any{},
		},
	}

	resp := c.do(t, http.MethodPost, "/api/v1/guards/evaluate", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[api.EvaluateGuardsResponse](t, resp)
	require.Equal(t, map[string]bool{
		"payouts":    true,
		"take_order": false,
		"any_staff":  true,
		"staff_only": false,
		"everyone":   true,
	}, got.Results)

	invalid := map[string]any{
		"guards": map[string]any{
			"broken": map[string]any{"permission": map[string]string{"category": "orders"}},
		},
	}

	resp = c.do(t, http.MethodPost, "/api/v1/guards/evaluate", invalid)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_CreateOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		role     entity.RoleType
		status   entity.GovernanceStatus
		wantCode int
		wantMsg  string
	}{
		{
			name:     "active pharmacy",
			role:     entity.RoleStaff,
			status:   entity.GovernanceActive,
			wantCode: http.StatusCreated,
		},
		{
			name:     "suspended pharmacy",
			role:     entity.RolePharmacyOwner,
			status:   entity.GovernanceSuspended,
			wantCode: http.StatusForbidden,
			wantMsg:  "Pharmacy is not allowed to operate",
		},
		{
			name:     "unknown status",
			role:     entity.RolePharmacyOwner,
			status:   entity.GovernanceStatus("PENDING"),
			wantCode: http.StatusForbidden,
			wantMsg:  "Pharmacy is not allowed to operate",
		},
		{
			name:     "unknown role",
			role:     entity.RoleType("ADMIN"),
			status:   entity.GovernanceActive,
			wantCode: http.StatusForbidden,
			wantMsg:  "Not enough permissions",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewTester(t, nil)

			session := sessionFor(tt.role, tt.status)

			c.authMock.EXPECT().Authenticate(gomock.Any(), testToken).Return(session, nil)

			if tt.wantCode == http.StatusCreated {
				c.svcMock.EXPECT().CreateOrder(gomock.Any(), session, gomock.Any()).
					Return(json.RawMessage(`{"id":"o-1"}`), nil)
			}

			resp := c.do(t, http.MethodPost, "/api/v1/orders", map[string]any{"items": []string{"sku-1"}})
			require.Equal(t, tt.wantCode, resp.StatusCode)

			if tt.wantMsg != "" {
				require.Equal(t, tt.wantMsg, decode[api.ErrorResponse](t, resp).Message)
				return
			}

			data, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			require.JSONEq(t, `{"id":"o-1"}`, string(data))
		})
	}
}

func TestHandler_FinancialSummary(t *testing.T) {
	t.Parallel()

	c := NewTester(t, nil)

	c.authMock.EXPECT().Authenticate(gomock.Any(), testToken).
		Return(sessionFor(entity.RoleStaff, entity.GovernanceActive), nil)

	resp := c.do(t, http.MethodGet, "/api/v1/financials/summary", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	owner := sessionFor(entity.RolePharmacyOwner, entity.GovernanceSuspended)

	c.authMock.EXPECT().Authenticate(gomock.Any(), testToken).Return(owner, nil)
	c.svcMock.EXPECT().FinancialSummary(gomock.Any(), owner).Return(json.RawMessage(`{"total":"10.50"}`), nil)

	resp = c.do(t, http.MethodGet, "/api/v1/financials/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandler_Places(t *testing.T) {
	t.Parallel()

	c := NewTester(t, nil)

	c.authMock.EXPECT().Authenticate(gomock.Any(), testToken).
		Return(sessionFor(entity.RoleStaff, entity.GovernanceIncomplete), nil).Times(2)

	c.svcMock.EXPECT().Autocomplete(gomock.Any(), "main st").
		Return([]places.Suggestion{{PlaceID: "pl-1", Description: "Main St, Springfield"}}, nil)

	resp := c.do(t, http.MethodGet, "/api/v1/places/autocomplete?input=main+st", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []places.Suggestion{{PlaceID: "pl-1", Description: "Main St, Springfield"}},
		decode[[]places.Suggestion](t, resp))

	c.svcMock.EXPECT().Place(gomock.Any(), "pl-9").Return(places.Place{}, entity.ErrNotFound)

	resp = c.do(t, http.MethodGet, "/api/v1/places/pl-9", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

type upstream struct {
	srv    *httptest.Server
	frames chan entity.Frame
	conns  chan *websocket.Conn
}

// newUpstream plays the backend side of the live connection.
func newUpstream(t *testing.T) *upstream {
	t.Helper()

	u := &upstream{
		frames: make(chan entity.Frame, 16),
		conns:  make(chan *websocket.Conn, 4),
	}

	var upgrader websocket.Upgrader

	u.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		_ = conn.WriteJSON(entity.Frame{Event: entity.EventConnected})
		u.conns <- conn

		for {
			var f entity.Frame

			if err := conn.ReadJSON(&f); err != nil {
				return
			}

			u.frames <- f
		}
	}))
	t.Cleanup(u.srv.Close)

	return u
}

func (u *upstream) url() string {
	return "ws" + strings.TrimPrefix(u.srv.URL, "http")
}

// readFrame skips connection state notifications.
func readFrame(t *testing.T, conn *websocket.Conn) entity.Frame {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	for {
		var f entity.Frame

		require.NoError(t, conn.ReadJSON(&f))

		if f.Event != realtime.EventConnectionState {
			return f
		}
	}
}

func TestHandler_Realtime(t *testing.T) {
	t.Parallel()

	up := newUpstream(t)

	hub := realtime.NewHub(realtime.Config{
		URL:              up.url(),
		MaxReconnects:    1,
		ReconnectDelay:   10 * time.Millisecond,
		HandshakeTimeout: time.Second,
		AckTimeout:       time.Second,
	}, nil, nil)
	t.Cleanup(hub.CloseAll)

	c := NewTester(t, hub)

	c.authMock.EXPECT().Authenticate(gomock.Any(), testToken).
		Return(sessionFor(entity.RoleStaff, entity.GovernanceActive), nil)

	wsURL := "ws" + strings.TrimPrefix(c.srv.URL, "http") + "/api/v1/realtime?access_token=" + testToken

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })

	var backendConn *websocket.Conn

	select {
	case backendConn = <-up.conns:
	case <-time.After(3 * time.Second):
		t.Fatal("live connection not established")
	}

	require.NoError(t, conn.WriteJSON(entity.Frame{Event: entity.EventJoin, Room: "chat:t-1"}))
	require.Equal(t, entity.Frame{Event: entity.EventJoin, Room: "chat:t-1"}, readFrame(t, conn))

	select {
	case f := <-up.frames:
		require.Equal(t, entity.Frame{Event: entity.EventJoin, Room: "chat:t-1"}, f)
	case <-time.After(3 * time.Second):
		t.Fatal("join not forwarded")
	}

	require.NoError(t, conn.WriteJSON(entity.Frame{Event: entity.EventJoin, Room: "pharmacy:p-2"}))

	f := readFrame(t, conn)
	require.Equal(t, entity.EventError, f.Event)
	require.Equal(t, "pharmacy:p-2", f.Room)
	require.JSONEq(t, `{"message":"forbidden"}`, string(f.Data))

	require.NoError(t, conn.WriteJSON(entity.Frame{Event: entity.EventJoin, Room: "lobby:1"}))
	require.Equal(t, entity.EventError, readFrame(t, conn).Event)

	require.NoError(t, backendConn.WriteJSON(entity.Frame{
		Event: entity.EventChatMessage,
		Room:  "chat:t-1",
		Data:  json.RawMessage(`{"id":"m-1","body":"hi"}`),
	}))

	f = readFrame(t, conn)
	require.Equal(t, entity.EventChatMessage, f.Event)
	require.JSONEq(t, `{"id":"m-1","body":"hi"}`, string(f.Data))
}
