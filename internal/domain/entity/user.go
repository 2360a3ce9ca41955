// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the account entity. Besides identity it carries the two pieces of
// credential state the token lifecycles depend on: the PasswordChangedAt
// watermark that invalidates previously issued access tokens, and the hashed
// single-use password-reset ticket with its expiry.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string // bcrypt hash; never serialized outward.
	Role         Role
	AvatarKey    string // blob key of the uploaded avatar, empty when unset.

	// Credentials-changed watermark. Any access token issued before this
	// instant is rejected even if its own expiry has not elapsed.
	PasswordChangedAt time.Time

	// Password-reset ticket. Only the sha256 hash of the raw ticket is
	// stored; both fields are cleared when the ticket is consumed.
	PasswordResetHash      string
	PasswordResetExpiresAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasValidResetTicket reports whether the user holds an unexpired reset ticket
// matching the given hash. Expired and mismatched tickets are indistinguishable
// to the caller.
func (u *User) HasValidResetTicket(hash string, now time.Time) bool {
	if u.PasswordResetHash == "" || u.PasswordResetHash != hash {
		return false
	}

	return now.Before(u.PasswordResetExpiresAt)
}

// ClearResetTicket removes the outstanding reset ticket, if any.
func (u *User) ClearResetTicket() {
	u.PasswordResetHash = ""
	u.PasswordResetExpiresAt = time.Time{}
}
