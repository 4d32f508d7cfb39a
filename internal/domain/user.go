package domain

import "time"

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleMember UserRole = "member"
)

// DeletedUserName is shown in place of a user reference that no longer resolves.
const DeletedUserName = "Deleted User"

type User struct {
	ID           string    `json:"_id" bson:"_id"`
	UserName     string    `json:"userName" bson:"user_name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         UserRole  `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == UserRoleAdmin
}

// Ref returns the public reference embedded in club and request views.
func (u *User) Ref() *UserRef {
	if u == nil {
		return nil
	}
	return &UserRef{ID: u.ID, UserName: u.UserName}
}

// UserRef is a resolved reference to a user. A nil *UserRef means the
// referenced user no longer exists.
type UserRef struct {
	ID       string `json:"_id"`
	UserName string `json:"userName"`
}

// DisplayName returns the user name, or the deleted placeholder for a nil ref.
func (r *UserRef) DisplayName() string {
	if r == nil || r.UserName == "" {
		return DeletedUserName
	}
	return r.UserName
}
