package repository

import (
	"context"
	"errors"
	"time"

	"campusnet/internal/domain/message"
	campusnet_errors "campusnet/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m *message.Message) error {
	res := r.db.WithContext(ctx).Create(m)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return campusnet_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (message.Message, error) {
	var m message.Message
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return message.Message{}, campusnet_errors.ErrNotFound
		}
		return message.Message{}, err
	}
	return m, nil
}

func (r *PostgresMessageRepository) ListConversationMessages(ctx context.Context, conversationID, viewerID uuid.UUID) ([]message.MessageWithSender, error) {
	var items []message.MessageWithSender
	err := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Select("messages.id, messages.content, messages.created_at, messages.sender_id, messages.file_url, messages.file_name, messages.is_unsent, messages.unsent_for_all, users.username, users.display_name, users.avatar_url").
		Joins("INNER JOIN users ON users.id = messages.sender_id").
		Where("messages.conversation_id = ? AND messages.is_deleted = false", conversationID).
		Where("messages.unsent_for_all = false OR messages.sender_id = ?", viewerID).
		Order("messages.created_at ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// MarkDelivered advances sent messages from other senders to delivered.
// The status predicate makes repeat calls no-ops and keeps seen rows untouched.
func (r *PostgresMessageRepository) MarkDelivered(ctx context.Context, conversationID, viewerID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("conversation_id = ? AND sender_id != ? AND status = ?",
			conversationID, viewerID, message.StatusSent).
		Update("status", message.StatusDelivered)
	return res.Error
}

// MarkSeen advances sent and delivered messages from other senders to seen,
// stamping seen_at. Seen rows never match the predicate, so status cannot
// regress and seen_at is written exactly once per message.
func (r *PostgresMessageRepository) MarkSeen(ctx context.Context, conversationID, viewerID uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("conversation_id = ? AND sender_id != ? AND status IN ?",
			conversationID, viewerID, []string{message.StatusSent, message.StatusDelivered}).
		Updates(map[string]interface{}{
			"status":  message.StatusSeen,
			"seen_at": at,
		})
	return res.Error
}

func (r *PostgresMessageRepository) GetOwnStatuses(ctx context.Context, conversationID, senderID uuid.UUID, limit int) ([]message.Message, error) {
	var messages []message.Message
	err := r.db.WithContext(ctx).
		Select("id, status, seen_at").
		Where("conversation_id = ? AND sender_id = ?", conversationID, senderID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *PostgresMessageRepository) UpdateContent(ctx context.Context, messageID uuid.UUID, content string) error {
	res := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("id = ?", messageID).
		Update("content", content)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return campusnet_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresMessageRepository) CreateEdit(ctx context.Context, e *message.MessageEdit) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *PostgresMessageRepository) MarkUnsent(ctx context.Context, messageID uuid.UUID, forAll bool) error {
	res := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("id = ?", messageID).
		Updates(map[string]interface{}{
			"is_unsent":      true,
			"unsent_for_all": forAll,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return campusnet_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresMessageRepository) SoftDelete(ctx context.Context, messageID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("id = ?", messageID).
		Update("is_deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return campusnet_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresMessageRepository) CountPinned(ctx context.Context, conversationID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&message.PinnedMessage{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresMessageRepository) GetPin(ctx context.Context, conversationID, messageID uuid.UUID) (message.PinnedMessage, error) {
	var p message.PinnedMessage
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND message_id = ?", conversationID, messageID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return message.PinnedMessage{}, campusnet_errors.ErrNotFound
		}
		return message.PinnedMessage{}, err
	}
	return p, nil
}

func (r *PostgresMessageRepository) CreatePin(ctx context.Context, p *message.PinnedMessage) error {
	res := r.db.WithContext(ctx).Create(p)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return campusnet_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresMessageRepository) DeletePin(ctx context.Context, conversationID, messageID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Delete(&message.PinnedMessage{}, "conversation_id = ? AND message_id = ?", conversationID, messageID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return campusnet_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresMessageRepository) ListPinned(ctx context.Context, conversationID uuid.UUID, limit int) ([]message.MessageWithSender, error) {
	var items []message.MessageWithSender
	err := r.db.WithContext(ctx).
		Model(&message.PinnedMessage{}).
		Select("messages.id, messages.content, messages.created_at, messages.sender_id, users.username, users.display_name, users.avatar_url").
		Joins("INNER JOIN messages ON messages.id = pinned_messages.message_id").
		Joins("INNER JOIN users ON users.id = messages.sender_id").
		Where("pinned_messages.conversation_id = ?", conversationID).
		Order("pinned_messages.pinned_at DESC").
		Limit(limit).
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresMessageRepository) UnreadCountAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Joins("INNER JOIN conversation_participants cp ON cp.conversation_id = messages.conversation_id").
		Where("cp.user_id = ?", userID).
		Where("messages.created_at > COALESCE(cp.last_read_at, '2000-01-01')").
		Where("messages.sender_id != ? AND messages.is_deleted = false", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresMessageRepository) UnreadCountConversation(ctx context.Context, conversationID, userID uuid.UUID) (int64, error) {
	var count int64

	lastRead := r.db.Table("conversation_participants").
		Select("last_read_at").
		Where("conversation_id = ? AND user_id = ?", conversationID, userID)

	err := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("conversation_id = ?", conversationID).
		Where("created_at > COALESCE((?), '2000-01-01')", lastRead).
		Where("sender_id != ? AND is_deleted = false", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
