package proxy

import (
	"context"
	"errors"

	"campusnet/internal/repository"
	campusnet_errors "campusnet/pkg/errors"

	"github.com/google/uuid"
)

// AccessControl gates every conversation-scoped operation on participant
// membership. A missing participant row is an authorization failure, never a
// not-found, so callers cannot distinguish "no such conversation" from
// "not yours".
type AccessControl struct {
	conversationRepo repository.ConversationRepository
}

func NewAccessControl(conversationRepo repository.ConversationRepository) *AccessControl {
	return &AccessControl{conversationRepo: conversationRepo}
}

func (a *AccessControl) EnsureParticipant(ctx context.Context, conversationID, userID uuid.UUID) error {
	_, err := a.conversationRepo.GetParticipant(ctx, conversationID, userID)
	if err != nil {
		if errors.Is(err, campusnet_errors.ErrNotFound) {
			return campusnet_errors.ErrForbidden
		}
		return err
	}
	return nil
}
