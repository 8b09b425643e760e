package services

import (
	"context"
	"errors"

	"campusnet/internal/domain/conversation"
	"campusnet/internal/proxy"
	"campusnet/internal/repository"
	"campusnet/pkg/clock"
	campusnet_errors "campusnet/pkg/errors"

	"github.com/google/uuid"
)

type ConversationService struct {
	conversationRepo repository.ConversationRepository
	userRepo         repository.UserRepository
	access           *proxy.AccessControl
	clock            clock.Clock
}

func NewConversationService(conversationRepo repository.ConversationRepository, userRepo repository.UserRepository, access *proxy.AccessControl, clk clock.Clock) *ConversationService {
	if clk == nil {
		clk = clock.New()
	}
	return &ConversationService{
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
		access:           access,
		clock:            clk,
	}
}

// CreateDirect opens a two-party conversation between the caller and another
// user, reusing the existing one if they already share a thread.
func (s *ConversationService) CreateDirect(ctx context.Context, creatorID, otherUserID uuid.UUID) (conversation.Conversation, error) {
	if otherUserID == uuid.Nil || otherUserID == creatorID {
		return conversation.Conversation{}, campusnet_errors.ErrInvalidInput
	}
	if _, err := s.userRepo.GetByID(ctx, otherUserID); err != nil {
		return conversation.Conversation{}, err
	}

	existing, err := s.conversationRepo.GetDirectConversation(ctx, creatorID, otherUserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, campusnet_errors.ErrNotFound) {
		return conversation.Conversation{}, err
	}

	now := s.clock.Now()
	c := conversation.Conversation{
		ID:        uuid.New(),
		CreatedBy: creatorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.conversationRepo.Create(ctx, &c); err != nil {
		return conversation.Conversation{}, err
	}

	for _, userID := range []uuid.UUID{creatorID, otherUserID} {
		p := conversation.Participant{
			ConversationID: c.ID,
			UserID:         userID,
			JoinedAt:       now,
		}
		if err := s.conversationRepo.AddParticipant(ctx, &p); err != nil {
			return conversation.Conversation{}, err
		}
	}
	return s.conversationRepo.GetByID(ctx, c.ID)
}

func (s *ConversationService) ListForUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]conversation.Conversation, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	return s.conversationRepo.GetUserConversations(ctx, userID, page, limit)
}

func (s *ConversationService) Participants(ctx context.Context, conversationID, viewerID uuid.UUID) ([]conversation.Participant, error) {
	if conversationID == uuid.Nil {
		return nil, campusnet_errors.ErrInvalidInput
	}
	if err := s.access.EnsureParticipant(ctx, conversationID, viewerID); err != nil {
		return nil, err
	}
	return s.conversationRepo.GetParticipants(ctx, conversationID)
}
