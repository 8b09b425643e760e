package message

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// MessageWithSender is a read model joining a message with its sender's
// public profile fields, used by message and pinned-message listings.
type MessageWithSender struct {
	ID           uuid.UUID      `json:"id"`
	Content      string         `json:"content"`
	CreatedAt    time.Time      `json:"created_at"`
	SenderID     uuid.UUID      `json:"sender_id"`
	FileURL      sql.NullString `json:"file_url"`
	FileName     sql.NullString `json:"file_name"`
	IsUnsent     bool           `json:"is_unsent"`
	UnsentForAll bool           `json:"unsent_for_all"`
	Username     string         `json:"username"`
	DisplayName  string         `json:"display_name"`
	AvatarURL    string         `json:"avatar_url"`
}
