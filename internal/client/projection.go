package client

import (
	"context"
	"sync"

	"clubsphere-backend/internal/domain"
)

// Projection is the client-side read model of one session. Every list is
// replaced wholesale on a successful fetch and kept as is on failure.
// Entries may be nil when the server sends null items.
type Projection struct {
	client *Client

	mu       sync.RWMutex
	clubs    []*domain.ClubView
	myClubs  []*domain.ClubView
	requests []*domain.MembershipRequestView
	// club filter of the last pending fetch, reused when reloading
	pendingClubID string
	events   []*domain.Event
	loading  int
	err      error
}

func NewProjection(c *Client) *Projection {
	return &Projection{client: c}
}

// begin marks a fetch in flight. The returned func records the outcome.
func (p *Projection) begin() func(err error) {
	p.mu.Lock()
	p.loading++
	p.mu.Unlock()
	return func(err error) {
		p.mu.Lock()
		p.loading--
		p.err = err
		p.mu.Unlock()
	}
}

func (p *Projection) FetchClubs(ctx context.Context, token string) error {
	if token == "" {
		return ErrUnauthenticated
	}
	done := p.begin()
	clubs, err := p.client.ListClubs(ctx, token)
	if err == nil {
		p.mu.Lock()
		p.clubs = clubs
		p.mu.Unlock()
	}
	done(err)
	return err
}

func (p *Projection) FetchMyClubs(ctx context.Context, token string) error {
	if token == "" {
		return ErrUnauthenticated
	}
	done := p.begin()
	clubs, err := p.client.ListMyClubs(ctx, token)
	if err == nil {
		p.mu.Lock()
		p.myClubs = clubs
		p.mu.Unlock()
	}
	done(err)
	return err
}

// FindClub looks id up in the "all clubs" list, then in "my clubs", and
// only then asks the server. A network result is not cached.
func (p *Projection) FindClub(ctx context.Context, token, id string) (*domain.ClubView, error) {
	p.mu.RLock()
	club := findClub(p.clubs, id)
	if club == nil {
		club = findClub(p.myClubs, id)
	}
	p.mu.RUnlock()
	if club != nil {
		return club, nil
	}

	if token == "" {
		return nil, ErrUnauthenticated
	}
	done := p.begin()
	club, err := p.client.GetClub(ctx, token, id)
	done(err)
	return club, err
}

func findClub(clubs []*domain.ClubView, id string) *domain.ClubView {
	for _, c := range clubs {
		if c != nil && c.ID == id {
			return c
		}
	}
	return nil
}

// FetchPendingRequests loads pending requests. An empty clubID loads every club.
func (p *Projection) FetchPendingRequests(ctx context.Context, token, clubID string) error {
	if token == "" {
		return ErrUnauthenticated
	}
	done := p.begin()
	reqs, err := p.client.ListPending(ctx, token, clubID)
	if err == nil {
		p.mu.Lock()
		p.requests = reqs
		p.pendingClubID = clubID
		p.mu.Unlock()
	}
	done(err)
	return err
}

// reloadPending re-fetches pending requests with the last club filter.
func (p *Projection) reloadPending(ctx context.Context, token string) error {
	p.mu.RLock()
	clubID := p.pendingClubID
	p.mu.RUnlock()
	return p.FetchPendingRequests(ctx, token, clubID)
}

// ApproveRequest approves a request and reloads the pending list so the
// decided request drops out of it.
func (p *Projection) ApproveRequest(ctx context.Context, token, requestID string) (*domain.MembershipRequest, error) {
	req, err := p.client.Approve(ctx, token, requestID)
	if err != nil {
		p.setErr(err)
		return nil, err
	}
	return req, p.reloadPending(ctx, token)
}

// RejectRequest rejects a request and reloads the pending list.
func (p *Projection) RejectRequest(ctx context.Context, token, requestID string) (*domain.MembershipRequest, error) {
	req, err := p.client.Reject(ctx, token, requestID)
	if err != nil {
		p.setErr(err)
		return nil, err
	}
	return req, p.reloadPending(ctx, token)
}

func (p *Projection) RequestMembership(ctx context.Context, token, clubID, message string) (*domain.MembershipRequest, error) {
	req, err := p.client.RequestMembership(ctx, token, clubID, message)
	if err != nil {
		p.setErr(err)
		return nil, err
	}
	return req, nil
}

func (p *Projection) FetchEvents(ctx context.Context, token string) error {
	if token == "" {
		return ErrUnauthenticated
	}
	done := p.begin()
	events, err := p.client.ListEvents(ctx, token)
	if err == nil {
		p.mu.Lock()
		p.events = events
		p.mu.Unlock()
	}
	done(err)
	return err
}

// CreateEvent creates an event and reloads the event list.
func (p *Projection) CreateEvent(ctx context.Context, token string, event *domain.Event) (*domain.Event, error) {
	created, err := p.client.CreateEvent(ctx, token, event)
	if err != nil {
		p.setErr(err)
		return nil, err
	}
	return created, p.FetchEvents(ctx, token)
}

func (p *Projection) setErr(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

// VisibleClubs returns the "all clubs" list without nil entries.
func (p *Projection) VisibleClubs() []domain.ClubView {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return visible(p.clubs)
}

// VisibleMyClubs returns the "my clubs" list without nil entries.
func (p *Projection) VisibleMyClubs() []domain.ClubView {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return visible(p.myClubs)
}

func (p *Projection) VisibleRequests() []domain.MembershipRequestView {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return visible(p.requests)
}

func (p *Projection) VisibleEvents() []domain.Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return visible(p.events)
}

func visible[T any](items []*T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it != nil {
			out = append(out, *it)
		}
	}
	return out
}

// Loading reports whether a fetch is in flight.
func (p *Projection) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loading > 0
}

// Err returns the error of the last operation, or nil if it succeeded.
func (p *Projection) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.err
}

// Reset drops all state, as on logout.
func (p *Projection) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clubs = nil
	p.myClubs = nil
	p.requests = nil
	p.pendingClubID = ""
	p.events = nil
	p.err = nil
}
