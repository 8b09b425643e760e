package conversation

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Conversation represents the conversations table
type Conversation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedBy uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships
	Participants []Participant `gorm:"foreignKey:ConversationID"`
}

// Participant represents the conversation_participants table.
// Its existence for (conversation, user) is the sole authorization
// predicate for every conversation-scoped operation.
type Participant struct {
	ConversationID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	LastReadAt     sql.NullTime
	JoinedAt       time.Time
}

func (Conversation) TableName() string {
	return "conversations"
}

func (Participant) TableName() string {
	return "conversation_participants"
}
