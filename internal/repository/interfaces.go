package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"campusnet/internal/domain/conversation"
	"campusnet/internal/domain/message"
	"campusnet/internal/domain/presence"
	"campusnet/internal/domain/user"
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]user.User, error)
	UpdateLastActivity(ctx context.Context, userID uuid.UUID, at time.Time) error
}

type ConversationRepository interface {
	Create(ctx context.Context, c *conversation.Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (conversation.Conversation, error)
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
	GetUserConversations(ctx context.Context, userID uuid.UUID, page, limit int) ([]conversation.Conversation, int64, error)
	GetDirectConversation(ctx context.Context, userID1, userID2 uuid.UUID) (conversation.Conversation, error)

	AddParticipant(ctx context.Context, p *conversation.Participant) error
	GetParticipant(ctx context.Context, conversationID, userID uuid.UUID) (conversation.Participant, error)
	GetParticipants(ctx context.Context, conversationID uuid.UUID) ([]conversation.Participant, error)
	UpdateLastReadAt(ctx context.Context, conversationID, userID uuid.UUID, at time.Time) error
	// GetFirstPartner resolves the first participant other than userID.
	// Conversations here are two-party by contract, so "first" is "the" partner.
	GetFirstPartner(ctx context.Context, conversationID, userID uuid.UUID) (user.User, error)
}

type MessageRepository interface {
	Create(ctx context.Context, m *message.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (message.Message, error)
	ListConversationMessages(ctx context.Context, conversationID, viewerID uuid.UUID) ([]message.MessageWithSender, error)

	// Status transitions. Both are conditional updates keyed on the current
	// status, which is what makes them idempotent and monotonic.
	MarkDelivered(ctx context.Context, conversationID, viewerID uuid.UUID) error
	MarkSeen(ctx context.Context, conversationID, viewerID uuid.UUID, at time.Time) error
	GetOwnStatuses(ctx context.Context, conversationID, senderID uuid.UUID, limit int) ([]message.Message, error)

	UpdateContent(ctx context.Context, messageID uuid.UUID, content string) error
	CreateEdit(ctx context.Context, e *message.MessageEdit) error
	MarkUnsent(ctx context.Context, messageID uuid.UUID, forAll bool) error
	SoftDelete(ctx context.Context, messageID uuid.UUID) error

	CountPinned(ctx context.Context, conversationID uuid.UUID) (int64, error)
	GetPin(ctx context.Context, conversationID, messageID uuid.UUID) (message.PinnedMessage, error)
	CreatePin(ctx context.Context, p *message.PinnedMessage) error
	DeletePin(ctx context.Context, conversationID, messageID uuid.UUID) error
	ListPinned(ctx context.Context, conversationID uuid.UUID, limit int) ([]message.MessageWithSender, error)

	UnreadCountAll(ctx context.Context, userID uuid.UUID) (int64, error)
	UnreadCountConversation(ctx context.Context, conversationID, userID uuid.UUID) (int64, error)
}

type TypingRepository interface {
	Upsert(ctx context.Context, conversationID, userID uuid.UUID, at time.Time) error
	Delete(ctx context.Context, conversationID, userID uuid.UUID) error
	GetTypingUsers(ctx context.Context, conversationID, excludeUserID uuid.UUID, since time.Time) ([]presence.TypingUser, error)
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}
