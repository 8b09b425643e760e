package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents the users table.
// Presence is derived on read from LastActivity; there is no stored
// online flag, so the timestamp and a derived status can never disagree.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	DisplayName  string
	AvatarURL    string
	LastActivity time.Time `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string {
	return "users"
}
