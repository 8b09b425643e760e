package services

import (
	"context"
	"testing"
	"time"

	"campusnet/internal/domain/conversation"
	"campusnet/internal/domain/user"
	"campusnet/internal/proxy"
	"campusnet/pkg/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testBase = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// fixture wires the in-memory repositories into a two-party conversation
// between alice and bob, with an outsider who is a member of nothing.
type fixture struct {
	users         *fakeUserRepo
	conversations *fakeConversationRepo
	messages      *fakeMessageRepo
	typing        *fakeTypingRepo
	access        *proxy.AccessControl
	clock         *clock.Fake

	conversationID uuid.UUID
	alice          uuid.UUID
	bob            uuid.UUID
	outsider       uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		users:          newFakeUserRepo(),
		messages:       newFakeMessageRepo(),
		clock:          clock.NewFake(testBase),
		conversationID: uuid.New(),
		alice:          uuid.New(),
		bob:            uuid.New(),
		outsider:       uuid.New(),
	}
	f.conversations = newFakeConversationRepo(f.users)
	f.typing = newFakeTypingRepo(f.users)
	f.access = proxy.NewAccessControl(f.conversations)

	require.NoError(t, f.users.Create(ctx, &user.User{
		ID:           f.alice,
		Username:     "alice",
		DisplayName:  "Alice Chen",
		AvatarURL:    "/avatars/alice.png",
		LastActivity: testBase,
	}))
	require.NoError(t, f.users.Create(ctx, &user.User{
		ID:           f.bob,
		Username:     "bob",
		DisplayName:  "Bob Okafor",
		AvatarURL:    "/avatars/bob.png",
		LastActivity: testBase,
	}))
	require.NoError(t, f.users.Create(ctx, &user.User{
		ID:           f.outsider,
		Username:     "mallory",
		DisplayName:  "Mallory",
		LastActivity: testBase,
	}))

	require.NoError(t, f.conversations.Create(ctx, &conversation.Conversation{
		ID:        f.conversationID,
		CreatedBy: f.alice,
		CreatedAt: testBase,
		UpdatedAt: testBase,
	}))
	for _, userID := range []uuid.UUID{f.alice, f.bob} {
		require.NoError(t, f.conversations.AddParticipant(ctx, &conversation.Participant{
			ConversationID: f.conversationID,
			UserID:         userID,
			JoinedAt:       testBase,
		}))
	}
	return f
}
