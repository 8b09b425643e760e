package message

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Delivery status values. Status only ever advances sent -> delivered -> seen
// (seen is reachable directly from sent); no transition moves it back.
const (
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusSeen      = "seen"
)

// Message represents the messages table.
// SeenAt is the only status timestamp; delivery is not timestamped.
type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ConversationID uuid.UUID `gorm:"type:uuid;index;not null"`
	SenderID       uuid.UUID `gorm:"type:uuid;not null"`
	Content        string
	FileURL        sql.NullString
	FileName       sql.NullString
	FileSize       sql.NullInt64
	Status         string `gorm:"default:sent;index"`
	SeenAt         sql.NullTime
	IsDeleted      bool `gorm:"default:false"`
	IsUnsent       bool `gorm:"default:false"`
	UnsentForAll   bool `gorm:"default:false"`
	CreatedAt      time.Time
}

// MessageEdit represents the message_edits table, one row per prior revision.
type MessageEdit struct {
	ID         uint      `gorm:"primaryKey"`
	MessageID  uuid.UUID `gorm:"type:uuid;index;not null"`
	OldContent string
	EditedAt   time.Time
}

// PinnedMessage represents the pinned_messages table.
// At most 3 rows per conversation; enforced at write time, not by schema.
type PinnedMessage struct {
	ConversationID uuid.UUID `gorm:"type:uuid;primaryKey"`
	MessageID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	PinnedBy       uuid.UUID `gorm:"type:uuid"`
	PinnedAt       time.Time
}

func (Message) TableName() string {
	return "messages"
}

func (MessageEdit) TableName() string {
	return "message_edits"
}

func (PinnedMessage) TableName() string {
	return "pinned_messages"
}
