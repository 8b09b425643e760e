package presence

import (
	"time"

	"github.com/google/uuid"
)

// Staleness windows. The display window is deliberately shorter than the
// cleanup window: a row past 5s is already invisible to readers, the 10s
// sweep only bounds table growth.
const (
	TypingDisplayWindow = 5 * time.Second
	TypingCleanupWindow = 10 * time.Second
	OnlineWindow        = 30 * time.Second
)

// TypingIndicator represents the typing_indicators table, keyed uniquely
// per (conversation, user). Stop-typing deletes the row, so absence covers
// both "stopped" and "never typed".
type TypingIndicator struct {
	ID             uint      `gorm:"primaryKey"`
	ConversationID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_typing_conversation_user;not null"`
	UserID         uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_typing_conversation_user;not null"`
	Typing         bool      `gorm:"default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time `gorm:"index"`
}

func (TypingIndicator) TableName() string {
	return "typing_indicators"
}
