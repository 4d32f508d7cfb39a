package domain

import (
	"fmt"
	"time"
)

type MembershipRequestStatus string

const (
	MembershipRequestStatusPending  MembershipRequestStatus = "pending"
	MembershipRequestStatusApproved MembershipRequestStatus = "approved"
	MembershipRequestStatusRejected MembershipRequestStatus = "rejected"
)

func (s MembershipRequestStatus) Validate() error {
	switch s {
	case MembershipRequestStatusPending, MembershipRequestStatusApproved, MembershipRequestStatusRejected:
		return nil
	default:
		return fmt.Errorf("%q: %w", s, ErrInvalidStatus)
	}
}

// IsTerminal reports whether no further transition is allowed from s.
func (s MembershipRequestStatus) IsTerminal() bool {
	return s == MembershipRequestStatusApproved || s == MembershipRequestStatusRejected
}

// MembershipRequest is a user's ask to join a club. It is mutable only while
// pending and is never deleted.
type MembershipRequest struct {
	ID         string                  `json:"_id" bson:"_id"`
	UserID     string                  `json:"userId" bson:"user_id"`
	ClubID     string                  `json:"clubId" bson:"club_id"`
	Message    string                  `json:"requestMessage,omitempty" bson:"message"`
	Status     MembershipRequestStatus `json:"status" bson:"status"`
	ReviewedBy string                  `json:"reviewedBy,omitempty" bson:"reviewed_by,omitempty"`
	CreatedAt  time.Time               `json:"createdAt" bson:"created_at"`
	ReviewedAt *time.Time              `json:"reviewedAt,omitempty" bson:"reviewed_at,omitempty"`
}

// NewMembershipRequest creates a pending request.
func NewMembershipRequest(userID, clubID, message string) *MembershipRequest {
	return &MembershipRequest{
		UserID:    userID,
		ClubID:    clubID,
		Message:   message,
		Status:    MembershipRequestStatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

func (r *MembershipRequest) IsPending() bool {
	return r.Status == MembershipRequestStatusPending
}

// Decide moves a pending request to the terminal status to. A request that is
// no longer pending is reported as not found, matching the lookup semantics
// of approve and reject.
func (r *MembershipRequest) Decide(to MembershipRequestStatus, adminID string, at time.Time) error {
	if !to.IsTerminal() {
		return fmt.Errorf("decide %q: %w", to, ErrInvalidStatus)
	}
	if !r.IsPending() {
		return ErrRequestNotFound
	}
	r.Status = to
	r.ReviewedBy = adminID
	reviewedAt := at.UTC()
	r.ReviewedAt = &reviewedAt
	return nil
}

// DeepCopy returns a deep copy of the request.
func (r *MembershipRequest) DeepCopy() *MembershipRequest {
	if r == nil {
		return nil
	}
	c := *r
	if r.ReviewedAt != nil {
		t := *r.ReviewedAt
		c.ReviewedAt = &t
	}
	return &c
}

// MembershipRequestView is a request with its user and club references
// resolved. Either reference is nil when the target has been deleted.
type MembershipRequestView struct {
	ID             string                  `json:"_id"`
	User           *UserRef                `json:"user"`
	Club           *ClubRef                `json:"club"`
	RequestMessage string                  `json:"requestMessage,omitempty"`
	Status         MembershipRequestStatus `json:"status"`
	CreatedAt      time.Time               `json:"createdAt"`
	ReviewedAt     *time.Time              `json:"reviewedAt,omitempty"`
}

func NewMembershipRequestView(r MembershipRequest, user *User, club *Club) MembershipRequestView {
	return MembershipRequestView{
		ID:             r.ID,
		User:           user.Ref(),
		Club:           club.Ref(),
		RequestMessage: r.Message,
		Status:         r.Status,
		CreatedAt:      r.CreatedAt,
		ReviewedAt:     r.ReviewedAt,
	}
}

func (v *MembershipRequestView) UserName() string {
	return v.User.DisplayName()
}

func (v *MembershipRequestView) ClubName() string {
	return v.Club.DisplayName()
}
