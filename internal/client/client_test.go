package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apihttp "clubsphere-backend/internal/api/http"
	"clubsphere-backend/internal/domain"
	"clubsphere-backend/internal/repository/memory"
	"clubsphere-backend/internal/security"
	"clubsphere-backend/internal/service"
)

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := memory.NewStore()
	require.NoError(t, err)

	tokens := security.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)
	h := apihttp.NewHandler(apihttp.Dependencies{
		Auth:        service.NewAuthService(store.UserRepository, tokens, []string{"admin@example.com"}),
		Clubs:       service.NewClubService(store.ClubRepository, store.UserRepository, store.MembershipRequestRepository),
		Memberships: service.NewMembershipService(store.MembershipRequestRepository, store.ClubRepository, store.UserRepository, nil, nil),
		Events:      service.NewEventService(store.EventRepository),
		Tokens:      tokens,
	})
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return srv
}

func TestProjection_MembershipFlow(t *testing.T) {
	srv := newAPIServer(t)
	c := New(srv.URL, WithTimeout(5*time.Second))
	ctx := context.Background()

	admin, err := c.Register(ctx, "admin", "admin@example.com", "secret1")
	require.NoError(t, err)
	jane, err := c.Register(ctx, "jane", "jane@example.com", "secret1")
	require.NoError(t, err)

	club, err := c.CreateClub(ctx, admin.Token, "Chess", "Weekly games")
	require.NoError(t, err)

	member := NewProjection(c)
	require.NoError(t, member.FetchClubs(ctx, jane.Token))
	require.Len(t, member.VisibleClubs(), 1)
	assert.False(t, member.VisibleClubs()[0].IsUserMember)

	_, err = member.RequestMembership(ctx, jane.Token, club.ID, "let me in")
	require.NoError(t, err)

	_, err = member.RequestMembership(ctx, jane.Token, club.ID, "again")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Error(t, member.Err())

	adminView := NewProjection(c)
	require.NoError(t, adminView.FetchPendingRequests(ctx, admin.Token, ""))
	pending := adminView.VisibleRequests()
	require.Len(t, pending, 1)
	assert.Equal(t, "jane", pending[0].UserName())

	approved, err := adminView.ApproveRequest(ctx, admin.Token, pending[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MembershipRequestStatusApproved, approved.Status)
	assert.Empty(t, adminView.VisibleRequests())

	_, err = adminView.ApproveRequest(ctx, admin.Token, pending[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The member's lists are stale until re-fetched.
	assert.False(t, member.VisibleClubs()[0].IsUserMember)
	require.NoError(t, member.FetchMyClubs(ctx, jane.Token))
	mine := member.VisibleMyClubs()
	require.Len(t, mine, 1)
	assert.True(t, mine[0].IsUserMember)
	assert.Equal(t, 1, mine[0].MemberCount)
	assert.Nil(t, member.Err())
	assert.False(t, member.Loading())
}

func TestProjection_DecisionKeepsClubFilter(t *testing.T) {
	srv := newAPIServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	admin, err := c.Register(ctx, "admin", "admin@example.com", "secret1")
	require.NoError(t, err)
	chess, err := c.CreateClub(ctx, admin.Token, "Chess", "Weekly games")
	require.NoError(t, err)
	hiking, err := c.CreateClub(ctx, admin.Token, "Hiking", "Trails")
	require.NoError(t, err)

	for _, name := range []string{"jane", "bob"} {
		u, err := c.Register(ctx, name, name+"@example.com", "secret1")
		require.NoError(t, err)
		_, err = c.RequestMembership(ctx, u.Token, chess.ID, "")
		require.NoError(t, err)
	}
	sam, err := c.Register(ctx, "sam", "sam@example.com", "secret1")
	require.NoError(t, err)
	_, err = c.RequestMembership(ctx, sam.Token, hiking.ID, "")
	require.NoError(t, err)

	p := NewProjection(c)
	require.NoError(t, p.FetchPendingRequests(ctx, admin.Token, chess.ID))
	pending := p.VisibleRequests()
	require.Len(t, pending, 2)

	_, err = p.RejectRequest(ctx, admin.Token, pending[0].ID)
	require.NoError(t, err)
	rest := p.VisibleRequests()
	require.Len(t, rest, 1)
	assert.Equal(t, "Chess", rest[0].ClubName())

	_, err = p.ApproveRequest(ctx, admin.Token, rest[0].ID)
	require.NoError(t, err)
	assert.Empty(t, p.VisibleRequests())

	require.NoError(t, p.FetchPendingRequests(ctx, admin.Token, ""))
	require.Len(t, p.VisibleRequests(), 1)
	assert.Equal(t, "Hiking", p.VisibleRequests()[0].ClubName())
}

func TestProjection_Events(t *testing.T) {
	srv := newAPIServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	admin, err := c.Register(ctx, "admin", "admin@example.com", "secret1")
	require.NoError(t, err)

	p := NewProjection(c)
	_, err = p.CreateEvent(ctx, admin.Token, &domain.Event{
		Title: "Open night", Description: "Bring a board", Location: "Hall", ClubName: "Chess", Date: "2026-11-01",
	})
	assert.True(t, domain.IsValidation(err))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	_, err = p.CreateEvent(ctx, admin.Token, &domain.Event{
		Title: "Open night", Description: "Bring a board", Location: "Hall", ClubName: "Chess", Date: "2026-11-01", Time: "18:00",
	})
	require.NoError(t, err)
	require.Len(t, p.VisibleEvents(), 1)
	assert.Equal(t, "18:00", p.VisibleEvents()[0].Time)
}

func TestProjection_NullEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"clubs":[{"_id":"c1","clubName":"Chess","members":[],"memberCount":0},null,{"_id":"c2","clubName":"Hiking","members":["u1"],"memberCount":1}]}`))
	}))
	defer srv.Close()

	p := NewProjection(New(srv.URL))
	require.NoError(t, p.FetchMyClubs(context.Background(), "token"))

	clubs := p.VisibleMyClubs()
	require.Len(t, clubs, 2)
	assert.Equal(t, "Chess", clubs[0].Name)
	assert.Equal(t, "Hiking", clubs[1].Name)
}

func TestProjection_EmptyAndNullList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"clubs":null}`))
	}))
	defer srv.Close()

	p := NewProjection(New(srv.URL))
	require.NoError(t, p.FetchClubs(context.Background(), "token"))
	assert.Empty(t, p.VisibleClubs())
}

func TestProjection_Unauthenticated(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	p := NewProjection(New(srv.URL))
	ctx := context.Background()
	assert.ErrorIs(t, p.FetchMyClubs(ctx, ""), ErrUnauthenticated)
	assert.ErrorIs(t, p.FetchClubs(ctx, ""), domain.ErrUnauthenticated)
	_, err := p.FindClub(ctx, "", "c1")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestProjection_FailureKeepsList(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"success":false,"error":"Internal server error"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"clubs":[{"_id":"c1","clubName":"Chess"}]}`))
	}))
	defer srv.Close()

	p := NewProjection(New(srv.URL))
	ctx := context.Background()
	require.NoError(t, p.FetchClubs(ctx, "token"))

	fail.Store(true)
	err := p.FetchClubs(ctx, "token")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "Internal server error", apiErr.Message)

	assert.Len(t, p.VisibleClubs(), 1)
	assert.Equal(t, err, p.Err())
	assert.False(t, p.Loading())

	p.Reset()
	assert.Empty(t, p.VisibleClubs())
	assert.Nil(t, p.Err())
}

func TestProjection_FindClub(t *testing.T) {
	var gets int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/clubs/all":
			_, _ = w.Write([]byte(`{"success":true,"clubs":[{"_id":"c1","clubName":"Chess"}]}`))
		case "/api/clubs/my":
			_, _ = w.Write([]byte(`{"success":true,"clubs":[null,{"_id":"c2","clubName":"Hiking"}]}`))
		case "/api/clubs/c3":
			atomic.AddInt32(&gets, 1)
			_, _ = w.Write([]byte(`{"success":true,"club":{"_id":"c3","clubName":"Books"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"error":"club not found"}`))
		}
	}))
	defer srv.Close()

	p := NewProjection(New(srv.URL))
	ctx := context.Background()
	require.NoError(t, p.FetchClubs(ctx, "token"))
	require.NoError(t, p.FetchMyClubs(ctx, "token"))

	for id, name := range map[string]string{"c1": "Chess", "c2": "Hiking", "c3": "Books"} {
		club, err := p.FindClub(ctx, "token", id)
		require.NoError(t, err)
		assert.Equal(t, name, club.Name)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&gets))

	// Network results are not cached.
	_, err := p.FindClub(ctx, "token", "c3")
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&gets))

	_, err = p.FindClub(ctx, "token", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url).ListClubs(context.Background(), "token")
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestClient_NonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListEvents(context.Background(), "token")
	assert.ErrorIs(t, err, ErrNetwork)
}
