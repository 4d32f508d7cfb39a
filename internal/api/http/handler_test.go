package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubsphere-backend/internal/metrics"
	"clubsphere-backend/internal/repository/memory"
	"clubsphere-backend/internal/security"
	"clubsphere-backend/internal/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type apiFixture struct {
	t      *testing.T
	router http.Handler
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	store, err := memory.NewStore()
	require.NoError(t, err)
	m, err := metrics.NewMetrics()
	require.NoError(t, err)

	tokens := security.NewTokenManager(testSecret, time.Hour)
	h := NewHandler(Dependencies{
		Auth:         service.NewAuthService(store.UserRepository, tokens, []string{"admin@example.com"}),
		Clubs:        service.NewClubService(store.ClubRepository, store.UserRepository, store.MembershipRequestRepository),
		Memberships:  service.NewMembershipService(store.MembershipRequestRepository, store.ClubRepository, store.UserRepository, nil, m),
		Events:       service.NewEventService(store.EventRepository),
		Tokens:       tokens,
		Metrics:      m,
		MaxBodyBytes: 1 << 16,
	})
	return &apiFixture{t: t, router: h.Router()}
}

// do sends a request and decodes the JSON envelope.
func (f *apiFixture) do(method, path, token string, body any) (int, map[string]any) {
	f.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(f.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)

	var out map[string]any
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		require.NoError(f.t, json.Unmarshal(rr.Body.Bytes(), &out))
	}
	return rr.Code, out
}

func (f *apiFixture) register(name, email string) (string, string) {
	f.t.Helper()
	code, out := f.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"userName": name, "email": email, "password": "secret1",
	})
	require.Equal(f.t, http.StatusCreated, code, out)
	user := out["user"].(map[string]any)
	return user["_id"].(string), out["token"].(string)
}

func TestPublicRoutes(t *testing.T) {
	f := newAPIFixture(t)

	t.Run("Root", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		f.router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "ClubSphere")
	})

	t.Run("Health", func(t *testing.T) {
		code, out := f.do(http.MethodGet, "/healthz", "", nil)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, true, out["success"])
	})

	t.Run("Metrics", func(t *testing.T) {
		f.do(http.MethodGet, "/healthz", "", nil)
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rr := httptest.NewRecorder()
		f.router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "clubsphere_http_requests_total")
	})

	t.Run("Unknown route", func(t *testing.T) {
		code, out := f.do(http.MethodGet, "/api/nope", "", nil)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, false, out["success"])
	})
}

func TestAuthRoutes(t *testing.T) {
	f := newAPIFixture(t)
	f.register("jane", "jane@example.com")

	t.Run("Login", func(t *testing.T) {
		code, out := f.do(http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "jane@example.com", "password": "secret1",
		})
		assert.Equal(t, http.StatusOK, code)
		assert.NotEmpty(t, out["token"])
		assert.NotContains(t, out["user"], "passwordHash")
	})

	t.Run("Bad password", func(t *testing.T) {
		code, out := f.do(http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "jane@example.com", "password": "wrong-one",
		})
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, false, out["success"])
	})

	t.Run("Duplicate email", func(t *testing.T) {
		code, _ := f.do(http.MethodPost, "/api/auth/register", "", map[string]string{
			"userName": "jane2", "email": "jane@example.com", "password": "secret1",
		})
		assert.Equal(t, http.StatusConflict, code)
	})

	t.Run("Malformed body", func(t *testing.T) {
		code, out := f.do(http.MethodPost, "/api/auth/register", "", "{not json")
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Invalid request body", out["error"])
	})

	t.Run("Password too long", func(t *testing.T) {
		code, out := f.do(http.MethodPost, "/api/auth/register", "", map[string]string{
			"userName": "long", "email": "long@example.com", "password": strings.Repeat("x", 80),
		})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, out["error"], "password")
	})

	t.Run("Missing fields", func(t *testing.T) {
		code, out := f.do(http.MethodPost, "/api/auth/register", "", map[string]string{"userName": "x"})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, out["error"], "email")
		assert.Contains(t, out["error"], "password")
	})
}

func TestAccessControl(t *testing.T) {
	f := newAPIFixture(t)
	_, memberToken := f.register("jane", "jane@example.com")

	code, out := f.do(http.MethodGet, "/api/clubs/all", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Authentication required", out["error"])

	code, _ = f.do(http.MethodGet, "/api/clubs/all", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, out = f.do(http.MethodPost, "/api/clubs/create", memberToken, map[string]string{
		"clubName": "Chess", "clubDescription": "Weekly games",
	})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Admin access required", out["error"])

	code, _ = f.do(http.MethodGet, "/api/clubs/requests/pending", memberToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestMembershipFlow(t *testing.T) {
	f := newAPIFixture(t)
	_, adminToken := f.register("admin", "admin@example.com")
	janeID, janeToken := f.register("jane", "jane@example.com")

	code, out := f.do(http.MethodPost, "/api/clubs/create", adminToken, map[string]string{
		"clubName": "Chess", "clubDescription": "Weekly games",
	})
	require.Equal(t, http.StatusCreated, code, out)
	clubID := out["club"].(map[string]any)["_id"].(string)

	code, out = f.do(http.MethodPost, "/api/clubs/"+clubID+"/request", janeToken, map[string]string{"requestMessage": "hi"})
	require.Equal(t, http.StatusCreated, code, out)
	requestID := out["request"].(map[string]any)["_id"].(string)

	t.Run("Duplicate pending", func(t *testing.T) {
		code, _ := f.do(http.MethodPost, "/api/clubs/"+clubID+"/request", janeToken, nil)
		assert.Equal(t, http.StatusConflict, code)
	})

	t.Run("Pending list", func(t *testing.T) {
		code, out := f.do(http.MethodGet, "/api/clubs/requests/pending?clubId="+clubID, adminToken, nil)
		require.Equal(t, http.StatusOK, code)
		reqs := out["requests"].([]any)
		require.Len(t, reqs, 1)
		req := reqs[0].(map[string]any)
		assert.Equal(t, "jane", req["user"].(map[string]any)["userName"])
		assert.Equal(t, "Chess", req["club"].(map[string]any)["clubName"])
	})

	t.Run("Club shows pending", func(t *testing.T) {
		code, out := f.do(http.MethodGet, "/api/clubs/"+clubID, janeToken, nil)
		require.Equal(t, http.StatusOK, code)
		club := out["club"].(map[string]any)
		assert.Equal(t, true, club["hasPendingRequest"])
		assert.Equal(t, false, club["isUserMember"])
	})

	code, out = f.do(http.MethodPost, "/api/clubs/requests/"+requestID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, code, out)
	assert.Equal(t, "approved", out["request"].(map[string]any)["status"])

	t.Run("Approve twice", func(t *testing.T) {
		code, out := f.do(http.MethodPost, "/api/clubs/requests/"+requestID+"/approve", adminToken, nil)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, false, out["success"])

		code, _ = f.do(http.MethodPost, "/api/clubs/requests/"+requestID+"/reject", adminToken, nil)
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("Member view", func(t *testing.T) {
		code, out := f.do(http.MethodGet, "/api/clubs/my", janeToken, nil)
		require.Equal(t, http.StatusOK, code)
		clubs := out["clubs"].([]any)
		require.Len(t, clubs, 1)
		club := clubs[0].(map[string]any)
		assert.Equal(t, true, club["isUserMember"])
		assert.Equal(t, float64(1), club["memberCount"])
		assert.Equal(t, []any{janeID}, club["members"])
		assert.Equal(t, "admin", club["createdBy"].(map[string]any)["userName"])
	})

	t.Run("Already member", func(t *testing.T) {
		code, _ := f.do(http.MethodPost, "/api/clubs/"+clubID+"/request", janeToken, nil)
		assert.Equal(t, http.StatusConflict, code)
	})

	t.Run("Unknown club", func(t *testing.T) {
		code, _ := f.do(http.MethodGet, "/api/clubs/missing", janeToken, nil)
		assert.Equal(t, http.StatusNotFound, code)
	})
}

func TestEventRoutes(t *testing.T) {
	f := newAPIFixture(t)
	_, adminToken := f.register("admin", "admin@example.com")
	_, janeToken := f.register("jane", "jane@example.com")

	event := map[string]string{
		"title": "Open night", "description": "Bring a board", "location": "Hall",
		"clubName": "Chess", "date": "2026-11-01",
	}

	t.Run("Missing time", func(t *testing.T) {
		code, out := f.do(http.MethodPost, "/api/events/create", adminToken, event)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, out["error"], "time")

		code, out = f.do(http.MethodGet, "/api/events/all", janeToken, nil)
		require.Equal(t, http.StatusOK, code)
		assert.Empty(t, out["events"])
	})

	t.Run("Create", func(t *testing.T) {
		event["time"] = "18:00"
		code, out := f.do(http.MethodPost, "/api/events/create", adminToken, event)
		require.Equal(t, http.StatusCreated, code, out)

		code, out = f.do(http.MethodGet, "/api/events/all", janeToken, nil)
		require.Equal(t, http.StatusOK, code)
		assert.Len(t, out["events"], 1)
	})

	t.Run("Member cannot create", func(t *testing.T) {
		code, _ := f.do(http.MethodPost, "/api/events/create", janeToken, event)
		assert.Equal(t, http.StatusForbidden, code)
	})
}
