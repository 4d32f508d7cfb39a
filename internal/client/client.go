// Package client talks to the ClubSphere REST API and keeps a client-side
// projection of its clubs, requests and events.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"clubsphere-backend/internal/domain"
	"clubsphere-backend/internal/logger"
)

const defaultTimeout = 10 * time.Second

var (
	// ErrNetwork reports that the server could not be reached or answered
	// with something other than a JSON envelope.
	ErrNetwork = errors.New("network error")
	// ErrUnauthenticated is returned without a round trip when no token is set.
	ErrUnauthenticated = fmt.Errorf("no session token: %w", domain.ErrUnauthenticated)
)

// APIError is a failure envelope returned by the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the status code onto the domain error taxonomy.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return domain.NewValidationError(e.Message)
	case http.StatusUnauthorized:
		return domain.ErrUnauthenticated
	case http.StatusForbidden:
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	default:
		return nil
	}
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the timeout of every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// Client is a thin HTTP client for the ClubSphere API.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// AuthResult is the payload of register and login.
type AuthResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func (c *Client) Register(ctx context.Context, userName, email, password string) (*AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/register", "", map[string]string{
		"userName": userName,
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type clubsPayload struct {
	Clubs []*domain.ClubView `json:"clubs"`
}

type clubPayload struct {
	Club *domain.ClubView `json:"club"`
}

type requestsPayload struct {
	Requests []*domain.MembershipRequestView `json:"requests"`
}

type requestPayload struct {
	Request *domain.MembershipRequest `json:"request"`
}

type eventsPayload struct {
	Events []*domain.Event `json:"events"`
}

type eventPayload struct {
	Event *domain.Event `json:"event"`
}

func (c *Client) ListClubs(ctx context.Context, token string) ([]*domain.ClubView, error) {
	var out clubsPayload
	if err := c.authed(ctx, http.MethodGet, "/api/clubs/all", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Clubs, nil
}

func (c *Client) ListMyClubs(ctx context.Context, token string) ([]*domain.ClubView, error) {
	var out clubsPayload
	if err := c.authed(ctx, http.MethodGet, "/api/clubs/my", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Clubs, nil
}

func (c *Client) GetClub(ctx context.Context, token, clubID string) (*domain.ClubView, error) {
	var out clubPayload
	if err := c.authed(ctx, http.MethodGet, "/api/clubs/"+url.PathEscape(clubID), token, nil, &out); err != nil {
		return nil, err
	}
	if out.Club == nil {
		return nil, domain.ErrClubNotFound
	}
	return out.Club, nil
}

func (c *Client) CreateClub(ctx context.Context, token, name, description string) (*domain.ClubView, error) {
	var out clubPayload
	err := c.authed(ctx, http.MethodPost, "/api/clubs/create", token, map[string]string{
		"clubName":        name,
		"clubDescription": description,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Club, nil
}

func (c *Client) RequestMembership(ctx context.Context, token, clubID, message string) (*domain.MembershipRequest, error) {
	var out requestPayload
	err := c.authed(ctx, http.MethodPost, "/api/clubs/"+url.PathEscape(clubID)+"/request", token,
		map[string]string{"requestMessage": message}, &out)
	if err != nil {
		return nil, err
	}
	return out.Request, nil
}

// ListPending lists pending requests. An empty clubID lists every club.
func (c *Client) ListPending(ctx context.Context, token, clubID string) ([]*domain.MembershipRequestView, error) {
	path := "/api/clubs/requests/pending"
	if clubID != "" {
		path += "?clubId=" + url.QueryEscape(clubID)
	}
	var out requestsPayload
	if err := c.authed(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out.Requests, nil
}

func (c *Client) ListMyRequests(ctx context.Context, token string) ([]*domain.MembershipRequestView, error) {
	var out requestsPayload
	if err := c.authed(ctx, http.MethodGet, "/api/clubs/requests/mine", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Requests, nil
}

func (c *Client) Approve(ctx context.Context, token, requestID string) (*domain.MembershipRequest, error) {
	return c.decide(ctx, token, requestID, "approve")
}

func (c *Client) Reject(ctx context.Context, token, requestID string) (*domain.MembershipRequest, error) {
	return c.decide(ctx, token, requestID, "reject")
}

func (c *Client) decide(ctx context.Context, token, requestID, action string) (*domain.MembershipRequest, error) {
	var out requestPayload
	path := "/api/clubs/requests/" + url.PathEscape(requestID) + "/" + action
	if err := c.authed(ctx, http.MethodPost, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out.Request, nil
}

func (c *Client) ListEvents(ctx context.Context, token string) ([]*domain.Event, error) {
	var out eventsPayload
	if err := c.authed(ctx, http.MethodGet, "/api/events/all", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Events, nil
}

func (c *Client) CreateEvent(ctx context.Context, token string, event *domain.Event) (*domain.Event, error) {
	var out eventPayload
	err := c.authed(ctx, http.MethodPost, "/api/events/create", token, map[string]string{
		"title":       event.Title,
		"description": event.Description,
		"location":    event.Location,
		"clubName":    event.ClubName,
		"date":        event.Date,
		"time":        event.Time,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Event, nil
}

func (c *Client) authed(ctx context.Context, method, path, token string, body, out any) error {
	if token == "" {
		return ErrUnauthenticated
	}
	return c.do(ctx, method, path, token, body, out)
}

// do sends one request and decodes the envelope. There is no retry.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger.ExternalServiceCall("clubsphere-api", method+" "+path)
	resp, err := c.http.Do(req)
	if err != nil {
		logger.ExternalServiceResult("clubsphere-api", method+" "+path, err)
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrNetwork, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: unexpected response (status %d)", ErrNetwork, resp.StatusCode)
	}
	if resp.StatusCode >= 300 || !env.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: env.Error}
		logger.Debug("API request refused", "request", method+" "+path, "status", resp.StatusCode, "error", env.Error)
		return apiErr
	}
	logger.ExternalServiceResult("clubsphere-api", method+" "+path, nil, "status", resp.StatusCode)

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
