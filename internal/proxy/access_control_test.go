package proxy

import (
	"context"
	"testing"
	"time"

	"campusnet/internal/domain/conversation"
	"campusnet/internal/domain/user"
	campusnet_errors "campusnet/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// stubConversationRepo answers GetParticipant from a fixed membership set;
// everything else is unused by the guard.
type stubConversationRepo struct {
	members map[uuid.UUID]map[uuid.UUID]bool
	err     error
}

func (s *stubConversationRepo) GetParticipant(_ context.Context, conversationID, userID uuid.UUID) (conversation.Participant, error) {
	if s.err != nil {
		return conversation.Participant{}, s.err
	}
	if s.members[conversationID][userID] {
		return conversation.Participant{ConversationID: conversationID, UserID: userID}, nil
	}
	return conversation.Participant{}, campusnet_errors.ErrNotFound
}

func (s *stubConversationRepo) Create(context.Context, *conversation.Conversation) error {
	return nil
}

func (s *stubConversationRepo) GetByID(context.Context, uuid.UUID) (conversation.Conversation, error) {
	return conversation.Conversation{}, campusnet_errors.ErrNotFound
}

func (s *stubConversationRepo) Touch(context.Context, uuid.UUID, time.Time) error {
	return nil
}

func (s *stubConversationRepo) GetUserConversations(context.Context, uuid.UUID, int, int) ([]conversation.Conversation, int64, error) {
	return nil, 0, nil
}

func (s *stubConversationRepo) GetDirectConversation(context.Context, uuid.UUID, uuid.UUID) (conversation.Conversation, error) {
	return conversation.Conversation{}, campusnet_errors.ErrNotFound
}

func (s *stubConversationRepo) AddParticipant(context.Context, *conversation.Participant) error {
	return nil
}

func (s *stubConversationRepo) GetParticipants(context.Context, uuid.UUID) ([]conversation.Participant, error) {
	return nil, nil
}

func (s *stubConversationRepo) UpdateLastReadAt(context.Context, uuid.UUID, uuid.UUID, time.Time) error {
	return nil
}

func (s *stubConversationRepo) GetFirstPartner(context.Context, uuid.UUID, uuid.UUID) (user.User, error) {
	return user.User{}, campusnet_errors.ErrNotFound
}

func TestEnsureParticipant(t *testing.T) {
	conversationID := uuid.New()
	member := uuid.New()
	stranger := uuid.New()

	repo := &stubConversationRepo{
		members: map[uuid.UUID]map[uuid.UUID]bool{
			conversationID: {member: true},
		},
	}
	guard := NewAccessControl(repo)
	ctx := context.Background()

	assert.NoError(t, guard.EnsureParticipant(ctx, conversationID, member))

	// A missing row reads as forbidden, never not-found, so callers cannot
	// probe which conversations exist.
	err := guard.EnsureParticipant(ctx, conversationID, stranger)
	assert.ErrorIs(t, err, campusnet_errors.ErrForbidden)

	err = guard.EnsureParticipant(ctx, uuid.New(), member)
	assert.ErrorIs(t, err, campusnet_errors.ErrForbidden)
}

func TestEnsureParticipantPassesThroughOtherErrors(t *testing.T) {
	repo := &stubConversationRepo{err: campusnet_errors.ErrConflict}
	guard := NewAccessControl(repo)

	err := guard.EnsureParticipant(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, campusnet_errors.ErrConflict)
	assert.NotErrorIs(t, err, campusnet_errors.ErrForbidden)
}
