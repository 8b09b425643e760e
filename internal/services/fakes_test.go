package services

import (
	"context"
	"sort"
	"time"

	"campusnet/internal/domain/conversation"
	"campusnet/internal/domain/message"
	"campusnet/internal/domain/presence"
	"campusnet/internal/domain/user"
	campusnet_errors "campusnet/pkg/errors"

	"github.com/google/uuid"
)

// In-memory repositories mirroring the conditional-update semantics of the
// postgres implementations, so service behavior can be tested without a
// database.

type fakeUserRepo struct {
	users map[uuid.UUID]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*user.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	if _, ok := r.users[u.ID]; ok {
		return campusnet_errors.ErrAlreadyExists
	}
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, campusnet_errors.ErrNotFound
	}
	return *u, nil
}

func (r *fakeUserRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]user.User, error) {
	var out []user.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateLastActivity(_ context.Context, userID uuid.UUID, at time.Time) error {
	u, ok := r.users[userID]
	if !ok {
		return campusnet_errors.ErrNotFound
	}
	u.LastActivity = at
	return nil
}

type fakeConversationRepo struct {
	conversations map[uuid.UUID]*conversation.Conversation
	participants  []*conversation.Participant
	users         *fakeUserRepo
}

func newFakeConversationRepo(users *fakeUserRepo) *fakeConversationRepo {
	return &fakeConversationRepo{
		conversations: make(map[uuid.UUID]*conversation.Conversation),
		users:         users,
	}
}

func (r *fakeConversationRepo) Create(_ context.Context, c *conversation.Conversation) error {
	copied := *c
	r.conversations[c.ID] = &copied
	return nil
}

func (r *fakeConversationRepo) GetByID(_ context.Context, id uuid.UUID) (conversation.Conversation, error) {
	c, ok := r.conversations[id]
	if !ok {
		return conversation.Conversation{}, campusnet_errors.ErrNotFound
	}
	out := *c
	out.Participants = nil
	for _, p := range r.participants {
		if p.ConversationID == id {
			out.Participants = append(out.Participants, *p)
		}
	}
	return out, nil
}

func (r *fakeConversationRepo) Touch(_ context.Context, id uuid.UUID, at time.Time) error {
	c, ok := r.conversations[id]
	if !ok {
		return campusnet_errors.ErrNotFound
	}
	c.UpdatedAt = at
	return nil
}

func (r *fakeConversationRepo) GetUserConversations(ctx context.Context, userID uuid.UUID, page, limit int) ([]conversation.Conversation, int64, error) {
	var out []conversation.Conversation
	for _, p := range r.participants {
		if p.UserID != userID {
			continue
		}
		c, err := r.GetByID(ctx, p.ConversationID)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeConversationRepo) GetDirectConversation(ctx context.Context, userID1, userID2 uuid.UUID) (conversation.Conversation, error) {
	for id := range r.conversations {
		first, second := false, false
		for _, p := range r.participants {
			if p.ConversationID != id {
				continue
			}
			if p.UserID == userID1 {
				first = true
			}
			if p.UserID == userID2 {
				second = true
			}
		}
		if first && second {
			return r.GetByID(ctx, id)
		}
	}
	return conversation.Conversation{}, campusnet_errors.ErrNotFound
}

func (r *fakeConversationRepo) AddParticipant(_ context.Context, p *conversation.Participant) error {
	copied := *p
	r.participants = append(r.participants, &copied)
	return nil
}

func (r *fakeConversationRepo) GetParticipant(_ context.Context, conversationID, userID uuid.UUID) (conversation.Participant, error) {
	for _, p := range r.participants {
		if p.ConversationID == conversationID && p.UserID == userID {
			return *p, nil
		}
	}
	return conversation.Participant{}, campusnet_errors.ErrNotFound
}

func (r *fakeConversationRepo) GetParticipants(_ context.Context, conversationID uuid.UUID) ([]conversation.Participant, error) {
	var out []conversation.Participant
	for _, p := range r.participants {
		if p.ConversationID == conversationID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeConversationRepo) UpdateLastReadAt(_ context.Context, conversationID, userID uuid.UUID, at time.Time) error {
	for _, p := range r.participants {
		if p.ConversationID == conversationID && p.UserID == userID {
			p.LastReadAt.Time = at
			p.LastReadAt.Valid = true
			return nil
		}
	}
	return campusnet_errors.ErrNotFound
}

func (r *fakeConversationRepo) GetFirstPartner(_ context.Context, conversationID, userID uuid.UUID) (user.User, error) {
	for _, p := range r.participants {
		if p.ConversationID == conversationID && p.UserID != userID {
			if u, ok := r.users.users[p.UserID]; ok {
				return *u, nil
			}
		}
	}
	return user.User{}, campusnet_errors.ErrNotFound
}

type fakeMessageRepo struct {
	messages map[uuid.UUID]*message.Message
	edits    []*message.MessageEdit
	pins     []*message.PinnedMessage
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: make(map[uuid.UUID]*message.Message)}
}

func (r *fakeMessageRepo) Create(_ context.Context, m *message.Message) error {
	copied := *m
	r.messages[m.ID] = &copied
	return nil
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id uuid.UUID) (message.Message, error) {
	m, ok := r.messages[id]
	if !ok {
		return message.Message{}, campusnet_errors.ErrNotFound
	}
	return *m, nil
}

func (r *fakeMessageRepo) ListConversationMessages(_ context.Context, conversationID, viewerID uuid.UUID) ([]message.MessageWithSender, error) {
	var out []message.MessageWithSender
	for _, m := range r.messages {
		if m.ConversationID != conversationID || m.IsDeleted {
			continue
		}
		if m.UnsentForAll && m.SenderID != viewerID {
			continue
		}
		out = append(out, message.MessageWithSender{
			ID:           m.ID,
			Content:      m.Content,
			CreatedAt:    m.CreatedAt,
			SenderID:     m.SenderID,
			IsUnsent:     m.IsUnsent,
			UnsentForAll: m.UnsentForAll,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeMessageRepo) MarkDelivered(_ context.Context, conversationID, viewerID uuid.UUID) error {
	for _, m := range r.messages {
		if m.ConversationID == conversationID && m.SenderID != viewerID && m.Status == message.StatusSent {
			m.Status = message.StatusDelivered
		}
	}
	return nil
}

func (r *fakeMessageRepo) MarkSeen(_ context.Context, conversationID, viewerID uuid.UUID, at time.Time) error {
	for _, m := range r.messages {
		if m.ConversationID == conversationID && m.SenderID != viewerID &&
			(m.Status == message.StatusSent || m.Status == message.StatusDelivered) {
			m.Status = message.StatusSeen
			m.SeenAt.Time = at
			m.SeenAt.Valid = true
		}
	}
	return nil
}

func (r *fakeMessageRepo) GetOwnStatuses(_ context.Context, conversationID, senderID uuid.UUID, limit int) ([]message.Message, error) {
	var out []message.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID && m.SenderID == senderID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMessageRepo) UpdateContent(_ context.Context, messageID uuid.UUID, content string) error {
	m, ok := r.messages[messageID]
	if !ok {
		return campusnet_errors.ErrNotFound
	}
	m.Content = content
	return nil
}

func (r *fakeMessageRepo) CreateEdit(_ context.Context, e *message.MessageEdit) error {
	copied := *e
	r.edits = append(r.edits, &copied)
	return nil
}

func (r *fakeMessageRepo) MarkUnsent(_ context.Context, messageID uuid.UUID, forAll bool) error {
	m, ok := r.messages[messageID]
	if !ok {
		return campusnet_errors.ErrNotFound
	}
	m.IsUnsent = true
	m.UnsentForAll = forAll
	return nil
}

func (r *fakeMessageRepo) SoftDelete(_ context.Context, messageID uuid.UUID) error {
	m, ok := r.messages[messageID]
	if !ok {
		return campusnet_errors.ErrNotFound
	}
	m.IsDeleted = true
	return nil
}

func (r *fakeMessageRepo) CountPinned(_ context.Context, conversationID uuid.UUID) (int64, error) {
	var count int64
	for _, p := range r.pins {
		if p.ConversationID == conversationID {
			count++
		}
	}
	return count, nil
}

func (r *fakeMessageRepo) GetPin(_ context.Context, conversationID, messageID uuid.UUID) (message.PinnedMessage, error) {
	for _, p := range r.pins {
		if p.ConversationID == conversationID && p.MessageID == messageID {
			return *p, nil
		}
	}
	return message.PinnedMessage{}, campusnet_errors.ErrNotFound
}

func (r *fakeMessageRepo) CreatePin(_ context.Context, p *message.PinnedMessage) error {
	copied := *p
	r.pins = append(r.pins, &copied)
	return nil
}

func (r *fakeMessageRepo) DeletePin(_ context.Context, conversationID, messageID uuid.UUID) error {
	for i, p := range r.pins {
		if p.ConversationID == conversationID && p.MessageID == messageID {
			r.pins = append(r.pins[:i], r.pins[i+1:]...)
			return nil
		}
	}
	return campusnet_errors.ErrNotFound
}

func (r *fakeMessageRepo) ListPinned(_ context.Context, conversationID uuid.UUID, limit int) ([]message.MessageWithSender, error) {
	var out []message.MessageWithSender
	for _, p := range r.pins {
		if p.ConversationID != conversationID {
			continue
		}
		if m, ok := r.messages[p.MessageID]; ok {
			out = append(out, message.MessageWithSender{
				ID:        m.ID,
				Content:   m.Content,
				CreatedAt: m.CreatedAt,
				SenderID:  m.SenderID,
			})
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMessageRepo) UnreadCountAll(_ context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *fakeMessageRepo) UnreadCountConversation(_ context.Context, conversationID, userID uuid.UUID) (int64, error) {
	return 0, nil
}

type typingKey struct {
	conversationID uuid.UUID
	userID         uuid.UUID
}

type fakeTypingRepo struct {
	rows  map[typingKey]*presence.TypingIndicator
	users *fakeUserRepo
}

func newFakeTypingRepo(users *fakeUserRepo) *fakeTypingRepo {
	return &fakeTypingRepo{
		rows:  make(map[typingKey]*presence.TypingIndicator),
		users: users,
	}
}

func (r *fakeTypingRepo) Upsert(_ context.Context, conversationID, userID uuid.UUID, at time.Time) error {
	key := typingKey{conversationID, userID}
	if row, ok := r.rows[key]; ok {
		row.Typing = true
		row.UpdatedAt = at
		return nil
	}
	r.rows[key] = &presence.TypingIndicator{
		ConversationID: conversationID,
		UserID:         userID,
		Typing:         true,
		CreatedAt:      at,
		UpdatedAt:      at,
	}
	return nil
}

func (r *fakeTypingRepo) Delete(_ context.Context, conversationID, userID uuid.UUID) error {
	delete(r.rows, typingKey{conversationID, userID})
	return nil
}

func (r *fakeTypingRepo) GetTypingUsers(_ context.Context, conversationID, excludeUserID uuid.UUID, since time.Time) ([]presence.TypingUser, error) {
	var rows []*presence.TypingIndicator
	for _, row := range r.rows {
		if row.ConversationID != conversationID || row.UserID == excludeUserID {
			continue
		}
		if !row.Typing || !row.UpdatedAt.After(since) {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].UpdatedAt.After(rows[j].UpdatedAt) })

	var out []presence.TypingUser
	for _, row := range rows {
		entry := presence.TypingUser{ID: row.UserID}
		if u, ok := r.users.users[row.UserID]; ok {
			entry.DisplayName = u.DisplayName
			entry.AvatarURL = u.AvatarURL
		}
		out = append(out, entry)
	}
	return out, nil
}

func (r *fakeTypingRepo) DeleteStale(_ context.Context, before time.Time) (int64, error) {
	var removed int64
	for key, row := range r.rows {
		if row.UpdatedAt.Before(before) {
			delete(r.rows, key)
			removed++
		}
	}
	return removed, nil
}
