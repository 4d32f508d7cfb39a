package domain

import "time"

// Membership is the (user, club) pair. At most one exists per pair.
type Membership struct {
	UserID   string    `json:"userId"`
	ClubID   string    `json:"clubId"`
	JoinedAt time.Time `json:"joinedAt"`
}
