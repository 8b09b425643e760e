package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"campusnet/internal/domain/message"
	"campusnet/internal/proxy"
	"campusnet/internal/repository"
	"campusnet/pkg/clock"
	campusnet_errors "campusnet/pkg/errors"

	"github.com/google/uuid"
)

const maxPinnedPerConversation = 3

// Attachment is pre-uploaded file metadata attached to a message. The upload
// itself is handled by the file service; only its result is recorded here.
type Attachment struct {
	URL  string
	Name string
	Size int64
}

type MessageService struct {
	messageRepo      repository.MessageRepository
	conversationRepo repository.ConversationRepository
	access           *proxy.AccessControl
	clock            clock.Clock
}

func NewMessageService(messageRepo repository.MessageRepository, conversationRepo repository.ConversationRepository, access *proxy.AccessControl, clk clock.Clock) *MessageService {
	if clk == nil {
		clk = clock.New()
	}
	return &MessageService{
		messageRepo:      messageRepo,
		conversationRepo: conversationRepo,
		access:           access,
		clock:            clk,
	}
}

func (s *MessageService) Send(ctx context.Context, conversationID, senderID uuid.UUID, content string, attachment *Attachment) (message.Message, error) {
	if conversationID == uuid.Nil {
		return message.Message{}, campusnet_errors.ErrInvalidInput
	}
	content = strings.TrimSpace(content)
	if content == "" && attachment == nil {
		return message.Message{}, campusnet_errors.ErrInvalidInput
	}
	if err := s.access.EnsureParticipant(ctx, conversationID, senderID); err != nil {
		return message.Message{}, err
	}

	now := s.clock.Now()
	m := message.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		Status:         message.StatusSent,
		CreatedAt:      now,
	}
	if attachment != nil {
		m.FileURL = sql.NullString{String: attachment.URL, Valid: true}
		m.FileName = sql.NullString{String: attachment.Name, Valid: true}
		m.FileSize = sql.NullInt64{Int64: attachment.Size, Valid: true}
	}

	if err := s.messageRepo.Create(ctx, &m); err != nil {
		return message.Message{}, err
	}
	// Bump the conversation so it sorts to the top of listings.
	if err := s.conversationRepo.Touch(ctx, conversationID, now); err != nil {
		return message.Message{}, err
	}
	return m, nil
}

// List returns the conversation's messages oldest first, hiding deleted ones
// and messages unsent-for-all by other senders.
func (s *MessageService) List(ctx context.Context, conversationID, viewerID uuid.UUID) ([]message.MessageWithSender, error) {
	if conversationID == uuid.Nil {
		return nil, campusnet_errors.ErrInvalidInput
	}
	if err := s.access.EnsureParticipant(ctx, conversationID, viewerID); err != nil {
		return nil, err
	}
	items, err := s.messageRepo.ListConversationMessages(ctx, conversationID, viewerID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []message.MessageWithSender{}
	}
	return items, nil
}

// Edit replaces the content of the caller's own message, snapshotting the
// prior revision to the edit history first.
func (s *MessageService) Edit(ctx context.Context, messageID, userID uuid.UUID, newContent string) error {
	newContent = strings.TrimSpace(newContent)
	if messageID == uuid.Nil || newContent == "" {
		return campusnet_errors.ErrInvalidInput
	}

	m, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if m.SenderID != userID {
		return campusnet_errors.ErrForbidden
	}

	edit := message.MessageEdit{
		MessageID:  messageID,
		OldContent: m.Content,
		EditedAt:   s.clock.Now(),
	}
	if err := s.messageRepo.CreateEdit(ctx, &edit); err != nil {
		return err
	}
	return s.messageRepo.UpdateContent(ctx, messageID, newContent)
}

// Unsend retracts the caller's own message, either just for them or for
// everyone in the conversation.
func (s *MessageService) Unsend(ctx context.Context, messageID, userID uuid.UUID, forAll bool) error {
	if messageID == uuid.Nil {
		return campusnet_errors.ErrInvalidInput
	}
	m, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if m.SenderID != userID {
		return campusnet_errors.ErrForbidden
	}
	return s.messageRepo.MarkUnsent(ctx, messageID, forAll)
}

func (s *MessageService) Delete(ctx context.Context, messageID, userID uuid.UUID) error {
	if messageID == uuid.Nil {
		return campusnet_errors.ErrInvalidInput
	}
	m, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if m.SenderID != userID {
		return campusnet_errors.ErrForbidden
	}
	return s.messageRepo.SoftDelete(ctx, messageID)
}

// TogglePin pins the message, or unpins it if it is already pinned. Pinning
// a fourth message fails with ErrPinLimitReached; unpin one and retry.
// Returns whether the message is pinned after the call.
func (s *MessageService) TogglePin(ctx context.Context, conversationID, messageID, userID uuid.UUID) (bool, error) {
	if conversationID == uuid.Nil || messageID == uuid.Nil {
		return false, campusnet_errors.ErrInvalidInput
	}
	if err := s.access.EnsureParticipant(ctx, conversationID, userID); err != nil {
		return false, err
	}

	_, err := s.messageRepo.GetPin(ctx, conversationID, messageID)
	if err == nil {
		if err := s.messageRepo.DeletePin(ctx, conversationID, messageID); err != nil {
			return false, err
		}
		return false, nil
	}
	if !errors.Is(err, campusnet_errors.ErrNotFound) {
		return false, err
	}

	count, err := s.messageRepo.CountPinned(ctx, conversationID)
	if err != nil {
		return false, err
	}
	if count >= maxPinnedPerConversation {
		return false, campusnet_errors.ErrPinLimitReached
	}

	pin := message.PinnedMessage{
		ConversationID: conversationID,
		MessageID:      messageID,
		PinnedBy:       userID,
		PinnedAt:       s.clock.Now(),
	}
	if err := s.messageRepo.CreatePin(ctx, &pin); err != nil {
		return false, err
	}
	return true, nil
}

func (s *MessageService) ListPinned(ctx context.Context, conversationID, viewerID uuid.UUID) ([]message.MessageWithSender, error) {
	if conversationID == uuid.Nil {
		return nil, campusnet_errors.ErrInvalidInput
	}
	if err := s.access.EnsureParticipant(ctx, conversationID, viewerID); err != nil {
		return nil, err
	}
	items, err := s.messageRepo.ListPinned(ctx, conversationID, maxPinnedPerConversation)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []message.MessageWithSender{}
	}
	return items, nil
}

// MarkRead resets the caller's unread counter for the conversation.
func (s *MessageService) MarkRead(ctx context.Context, conversationID, userID uuid.UUID) error {
	if conversationID == uuid.Nil {
		return campusnet_errors.ErrInvalidInput
	}
	if err := s.access.EnsureParticipant(ctx, conversationID, userID); err != nil {
		return err
	}
	return s.conversationRepo.UpdateLastReadAt(ctx, conversationID, userID, s.clock.Now())
}

// UnreadCount counts unread messages across all the user's conversations,
// for the header badge.
func (s *MessageService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.messageRepo.UnreadCountAll(ctx, userID)
}

func (s *MessageService) ConversationUnreadCount(ctx context.Context, conversationID, userID uuid.UUID) (int64, error) {
	if conversationID == uuid.Nil {
		return 0, campusnet_errors.ErrInvalidInput
	}
	if err := s.access.EnsureParticipant(ctx, conversationID, userID); err != nil {
		return 0, err
	}
	return s.messageRepo.UnreadCountConversation(ctx, conversationID, userID)
}
