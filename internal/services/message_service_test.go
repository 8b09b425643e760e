package services

import (
	"context"
	"testing"

	campusnet_errors "campusnet/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) messageService() *MessageService {
	return NewMessageService(f.messages, f.conversations, f.access, f.clock)
}

func TestSendCreatesSentMessageAndBumpsConversation(t *testing.T) {
	f := newFixture(t)
	svc := f.messageService()
	ctx := context.Background()

	m, err := svc.Send(ctx, f.conversationID, f.alice, "  hello  ", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", m.Content)
	assert.Equal(t, "sent", m.Status)

	c, err := f.conversations.GetByID(ctx, f.conversationID)
	require.NoError(t, err)
	assert.Equal(t, f.clock.Now(), c.UpdatedAt)
}

func TestSendRejectsBlankContentWithoutAttachment(t *testing.T) {
	f := newFixture(t)
	svc := f.messageService()
	ctx := context.Background()

	_, err := svc.Send(ctx, f.conversationID, f.alice, "   ", nil)
	assert.ErrorIs(t, err, campusnet_errors.ErrInvalidInput)

	// An attachment alone is a valid message.
	m, err := svc.Send(ctx, f.conversationID, f.alice, "", &Attachment{URL: "/files/a.pdf", Name: "a.pdf", Size: 1024})
	require.NoError(t, err)
	assert.True(t, m.FileURL.Valid)
}

func TestSendRequiresMembership(t *testing.T) {
	f := newFixture(t)
	svc := f.messageService()

	_, err := svc.Send(context.Background(), f.conversationID, f.outsider, "hi", nil)
	assert.ErrorIs(t, err, campusnet_errors.ErrForbidden)
}

func TestEditSnapshotsOldContent(t *testing.T) {
	f := newFixture(t)
	svc := f.messageService()
	ctx := context.Background()

	m, err := svc.Send(ctx, f.conversationID, f.alice, "first draft", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Edit(ctx, m.ID, f.alice, "final version"))

	got, err := f.messages.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "final version", got.Content)
	require.Len(t, f.messages.edits, 1)
	assert.Equal(t, "first draft", f.messages.edits[0].OldContent)
}

func TestEditAndUnsendAreOwnerOnly(t *testing.T) {
	f := newFixture(t)
	svc := f.messageService()
	ctx := context.Background()

	m, err := svc.Send(ctx, f.conversationID, f.alice, "mine", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Edit(ctx, m.ID, f.bob, "hijacked"), campusnet_errors.ErrForbidden)
	assert.ErrorIs(t, svc.Unsend(ctx, m.ID, f.bob, true), campusnet_errors.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, m.ID, f.bob), campusnet_errors.ErrForbidden)
}

func TestUnsendForAllHidesMessageFromPartner(t *testing.T) {
	f := newFixture(t)
	svc := f.messageService()
	ctx := context.Background()

	m, err := svc.Send(ctx, f.conversationID, f.alice, "oops", nil)
	require.NoError(t, err)
	require.NoError(t, svc.Unsend(ctx, m.ID, f.alice, true))

	forBob, err := svc.List(ctx, f.conversationID, f.bob)
	require.NoError(t, err)
	assert.Empty(t, forBob)

	// The sender still sees their own unsent message.
	forAlice, err := svc.List(ctx, f.conversationID, f.alice)
	require.NoError(t, err)
	require.Len(t, forAlice, 1)
	assert.True(t, forAlice[0].IsUnsent)
}

func TestPinCapAllowsThreeThenFails(t *testing.T) {
	f := newFixture(t)
	svc := f.messageService()
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 4; i++ {
		m, err := svc.Send(ctx, f.conversationID, f.alice, "msg", nil)
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}

	for i := 0; i < 3; i++ {
		pinned, err := svc.TogglePin(ctx, f.conversationID, ids[i], f.alice)
		require.NoError(t, err)
		assert.True(t, pinned)
	}

	_, err := svc.TogglePin(ctx, f.conversationID, ids[3], f.bob)
	assert.ErrorIs(t, err, campusnet_errors.ErrPinLimitReached)

	// Unpinning one frees a slot.
	pinned, err := svc.TogglePin(ctx, f.conversationID, ids[0], f.alice)
	require.NoError(t, err)
	assert.False(t, pinned)

	pinned, err = svc.TogglePin(ctx, f.conversationID, ids[3], f.bob)
	require.NoError(t, err)
	assert.True(t, pinned)

	listed, err := svc.ListPinned(ctx, f.conversationID, f.alice)
	require.NoError(t, err)
	assert.Len(t, listed, 3)
}

func TestTogglePinRequiresMembership(t *testing.T) {
	f := newFixture(t)
	svc := f.messageService()
	ctx := context.Background()

	m, err := svc.Send(ctx, f.conversationID, f.alice, "pin me", nil)
	require.NoError(t, err)

	_, err = svc.TogglePin(ctx, f.conversationID, m.ID, f.outsider)
	assert.ErrorIs(t, err, campusnet_errors.ErrForbidden)
}

func TestMarkReadStampsParticipant(t *testing.T) {
	f := newFixture(t)
	svc := f.messageService()
	ctx := context.Background()

	require.NoError(t, svc.MarkRead(ctx, f.conversationID, f.bob))

	p, err := f.conversations.GetParticipant(ctx, f.conversationID, f.bob)
	require.NoError(t, err)
	require.True(t, p.LastReadAt.Valid)
	assert.Equal(t, f.clock.Now(), p.LastReadAt.Time)

	assert.ErrorIs(t, svc.MarkRead(ctx, f.conversationID, f.outsider), campusnet_errors.ErrForbidden)
}
