package domain

import (
	"strings"
	"time"
)

// DeletedClubName is shown in place of a club reference that no longer resolves.
const DeletedClubName = "Deleted Club"

// Club is a club and its membership set. MemberCount is derived from Members
// and is never written on its own.
type Club struct {
	ID          string    `json:"_id" bson:"_id"`
	Name        string    `json:"clubName" bson:"club_name"`
	Description string    `json:"clubDescription" bson:"club_description"`
	CreatedByID string    `json:"-" bson:"created_by"`
	Members     []string  `json:"members" bson:"members"`
	MemberCount int       `json:"memberCount" bson:"member_count"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}

// Validate checks the user-supplied fields of a new club.
func (c *Club) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Name) == "" {
		missing = append(missing, "clubName")
	}
	if strings.TrimSpace(c.Description) == "" {
		missing = append(missing, "clubDescription")
	}
	if len(missing) > 0 {
		return NewValidationError("Incomplete club details", missing...)
	}
	return nil
}

// SetMembers replaces the membership set and recomputes MemberCount.
func (c *Club) SetMembers(userIDs []string) {
	seen := make(map[string]struct{}, len(userIDs))
	members := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		members = append(members, id)
	}
	c.Members = members
	c.MemberCount = len(members)
}

func (c *Club) HasMember(userID string) bool {
	for _, id := range c.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// Ref returns the public reference embedded in request views.
func (c *Club) Ref() *ClubRef {
	if c == nil {
		return nil
	}
	return &ClubRef{ID: c.ID, ClubName: c.Name}
}

// ClubRef is a resolved reference to a club. A nil *ClubRef means the
// referenced club no longer exists.
type ClubRef struct {
	ID       string `json:"_id"`
	ClubName string `json:"clubName"`
}

// DisplayName returns the club name, or the deleted placeholder for a nil ref.
func (r *ClubRef) DisplayName() string {
	if r == nil || r.ClubName == "" {
		return DeletedClubName
	}
	return r.ClubName
}

// ClubView is a club as seen by one caller.
type ClubView struct {
	Club
	CreatedBy         *UserRef `json:"createdBy"`
	IsUserMember      bool     `json:"isUserMember"`
	HasPendingRequest bool     `json:"hasPendingRequest"`
}

// NewClubView builds the caller-specific view of c. creator may be nil when
// the creating user has been deleted.
func NewClubView(c Club, creator *User, viewerID string, pending bool) ClubView {
	return ClubView{
		Club:              c,
		CreatedBy:         creator.Ref(),
		IsUserMember:      viewerID != "" && c.HasMember(viewerID),
		HasPendingRequest: pending,
	}
}
