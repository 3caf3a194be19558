package domain

import (
	"errors"
	"regexp"
	"time"
)

var (
	ErrNotFound      = errors.New("account not found")
	ErrUsernameTaken = errors.New("username is already taken")
)

// Account is an identity-provider identity plus its profile document at
// users/{uid}. The username is claimed once at signup and never reassigned.
type Account struct {
	UID         string    `firestore:"uid" json:"uid"`
	Email       string    `firestore:"email" json:"email"`
	Username    string    `firestore:"username" json:"username"`
	DisplayName string    `firestore:"displayName" json:"displayName,omitempty"`
	PhotoURL    string    `firestore:"photoURL" json:"photoURL,omitempty"`
	CreatedAt   time.Time `firestore:"createdAt,serverTimestamp" json:"createdAt"`
}

// DisplayNameOrEmail is the label stamped on projects as their owner.
func (a *Account) DisplayNameOrEmail() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	if a.Email != "" {
		return a.Email
	}
	return a.UID
}

// UsernameEntry is one document of the usernames index. ClaimedAt lets the
// sweeper distinguish in-flight signups from abandoned claims.
type UsernameEntry struct {
	Username  string    `firestore:"-" json:"username"`
	UID       string    `firestore:"uid" json:"uid"`
	ClaimedAt time.Time `firestore:"claimedAt,serverTimestamp" json:"claimedAt"`
}

var usernamePattern = regexp.MustCompile(`^[a-z0-9_-]{3,30}$`)

// ValidUsername reports whether u is a claimable username: 3-30 characters,
// lowercase letters, digits, underscore or hyphen. The charset keeps the
// /{username}/{slug} URL space unambiguous.
func ValidUsername(u string) bool {
	return usernamePattern.MatchString(u)
}
