package services

import (
	"context"

	"campusnet/internal/domain/presence"
	"campusnet/internal/proxy"
	"campusnet/internal/repository"
	"campusnet/pkg/clock"
	campusnet_errors "campusnet/pkg/errors"

	"github.com/google/uuid"
)

// TypingService manages the typing-indicator lifecycle. Indicators live in
// the database so they survive across polls; freshness is a property of the
// read, not the row. A client keeps itself visible by re-issuing StartTyping
// every few seconds, well inside the 5s display window.
type TypingService struct {
	typingRepo repository.TypingRepository
	access     *proxy.AccessControl
	clock      clock.Clock
}

func NewTypingService(typingRepo repository.TypingRepository, access *proxy.AccessControl, clk clock.Clock) *TypingService {
	if clk == nil {
		clk = clock.New()
	}
	return &TypingService{
		typingRepo: typingRepo,
		access:     access,
		clock:      clk,
	}
}

func (s *TypingService) StartTyping(ctx context.Context, conversationID, userID uuid.UUID) error {
	if conversationID == uuid.Nil {
		return campusnet_errors.ErrInvalidInput
	}
	if err := s.access.EnsureParticipant(ctx, conversationID, userID); err != nil {
		return err
	}
	return s.typingRepo.Upsert(ctx, conversationID, userID, s.clock.Now())
}

func (s *TypingService) StopTyping(ctx context.Context, conversationID, userID uuid.UUID) error {
	if conversationID == uuid.Nil {
		return campusnet_errors.ErrInvalidInput
	}
	if err := s.access.EnsureParticipant(ctx, conversationID, userID); err != nil {
		return err
	}
	return s.typingRepo.Delete(ctx, conversationID, userID)
}

// GetTypingUsers lists who is typing, excluding the viewer and anything
// older than the 5s display window, newest refresh first.
func (s *TypingService) GetTypingUsers(ctx context.Context, conversationID, viewerID uuid.UUID) ([]presence.TypingUser, error) {
	if conversationID == uuid.Nil {
		return nil, campusnet_errors.ErrInvalidInput
	}
	if err := s.access.EnsureParticipant(ctx, conversationID, viewerID); err != nil {
		return nil, err
	}
	cutoff := s.clock.Now().Add(-presence.TypingDisplayWindow)
	users, err := s.typingRepo.GetTypingUsers(ctx, conversationID, viewerID, cutoff)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []presence.TypingUser{}
	}
	return users, nil
}

// CleanupStale deletes indicators older than the 10s cleanup window. Display
// correctness does not depend on it; rows past 5s are already invisible.
func (s *TypingService) CleanupStale(ctx context.Context) (int64, error) {
	cutoff := s.clock.Now().Add(-presence.TypingCleanupWindow)
	return s.typingRepo.DeleteStale(ctx, cutoff)
}
