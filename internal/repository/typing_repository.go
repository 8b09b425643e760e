package repository

import (
	"context"
	"time"

	"campusnet/internal/domain/presence"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresTypingRepository struct {
	db *gorm.DB
}

func NewTypingRepository(db *gorm.DB) TypingRepository {
	return &PostgresTypingRepository{db: db}
}

// Upsert inserts the (conversation, user) indicator or refreshes it if one
// already exists; re-invocation while typing just slides updated_at forward.
func (r *PostgresTypingRepository) Upsert(ctx context.Context, conversationID, userID uuid.UUID, at time.Time) error {
	indicator := presence.TypingIndicator{
		ConversationID: conversationID,
		UserID:         userID,
		Typing:         true,
		CreatedAt:      at,
		UpdatedAt:      at,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "conversation_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"typing":     true,
				"updated_at": at,
			}),
		}).
		Create(&indicator).Error
}

// Delete removes the indicator outright. A missing row is not an error:
// stop-typing after expiry or without a prior start is a no-op.
func (r *PostgresTypingRepository) Delete(ctx context.Context, conversationID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&presence.TypingIndicator{}, "conversation_id = ? AND user_id = ?", conversationID, userID).Error
}

func (r *PostgresTypingRepository) GetTypingUsers(ctx context.Context, conversationID, excludeUserID uuid.UUID, since time.Time) ([]presence.TypingUser, error) {
	var users []presence.TypingUser
	err := r.db.WithContext(ctx).
		Model(&presence.TypingIndicator{}).
		Select("users.id, users.display_name, users.avatar_url").
		Joins("INNER JOIN users ON users.id = typing_indicators.user_id").
		Where("typing_indicators.conversation_id = ?", conversationID).
		Where("typing_indicators.user_id != ?", excludeUserID).
		Where("typing_indicators.typing = true").
		Where("typing_indicators.updated_at > ?", since).
		Order("typing_indicators.updated_at DESC").
		Scan(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresTypingRepository) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Delete(&presence.TypingIndicator{}, "updated_at < ?", before)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
