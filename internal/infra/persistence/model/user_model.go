// Package model holds the GORM persistence models. They mirror table layout
// and never leave the persistence layer; repositories map them to and from
// domain entities.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PasswordChangedAt is the watermark the
// token lifecycle compares issue times against; the reset fields hold the
// hashed single-use ticket.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Email        string    `gorm:"type:varchar(255);unique;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(20);not null;default:user"`
	AvatarKey    string    `gorm:"type:varchar(255)"`

	PasswordChangedAt      time.Time
	PasswordResetHash      string     `gorm:"type:varchar(64);index"`
	PasswordResetExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
