package services

import (
	"context"
	"time"

	"campusnet/internal/proxy"
	"campusnet/internal/repository"
	"campusnet/pkg/clock"
	campusnet_errors "campusnet/pkg/errors"

	"github.com/google/uuid"
)

// statusPageSize caps how many of the viewer's own messages a status poll
// reports on.
const statusPageSize = 100

// MessageStatus is one entry of a status map: the delivery state of a
// message the viewer sent, with the seen timestamp once the recipient read it.
type MessageStatus struct {
	Status string     `json:"status"`
	SeenAt *time.Time `json:"seen_at"`
}

// StatusService owns the message delivery/seen state machine. All writes are
// conditional on the current status, so transitions only move forward and
// repeat polls are harmless.
type StatusService struct {
	messageRepo repository.MessageRepository
	access      *proxy.AccessControl
	clock       clock.Clock
}

func NewStatusService(messageRepo repository.MessageRepository, access *proxy.AccessControl, clk clock.Clock) *StatusService {
	if clk == nil {
		clk = clock.New()
	}
	return &StatusService{
		messageRepo: messageRepo,
		access:      access,
		clock:       clk,
	}
}

// MarkDelivered moves every sent message from other senders to delivered.
// Called when the receiver's client fetches messages.
func (s *StatusService) MarkDelivered(ctx context.Context, conversationID, viewerID uuid.UUID) error {
	if conversationID == uuid.Nil {
		return campusnet_errors.ErrInvalidInput
	}
	if err := s.access.EnsureParticipant(ctx, conversationID, viewerID); err != nil {
		return err
	}
	return s.messageRepo.MarkDelivered(ctx, conversationID, viewerID)
}

// MarkSeen moves every sent or delivered message from other senders to seen,
// stamping seen_at. Calling it before MarkDelivered is fine: the message
// lands on seen without ever having stored delivered.
func (s *StatusService) MarkSeen(ctx context.Context, conversationID, viewerID uuid.UUID) error {
	if conversationID == uuid.Nil {
		return campusnet_errors.ErrInvalidInput
	}
	if err := s.access.EnsureParticipant(ctx, conversationID, viewerID); err != nil {
		return err
	}
	return s.messageRepo.MarkSeen(ctx, conversationID, viewerID, s.clock.Now())
}

// GetStatuses maps message id to delivery state for the viewer's own newest
// messages. A user only ever learns the status of what they sent; messages
// authored by others are excluded by the query, not errored.
func (s *StatusService) GetStatuses(ctx context.Context, conversationID, viewerID uuid.UUID) (map[string]MessageStatus, error) {
	if conversationID == uuid.Nil {
		return nil, campusnet_errors.ErrInvalidInput
	}
	if err := s.access.EnsureParticipant(ctx, conversationID, viewerID); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.GetOwnStatuses(ctx, conversationID, viewerID, statusPageSize)
	if err != nil {
		return nil, err
	}

	statuses := make(map[string]MessageStatus, len(messages))
	for _, m := range messages {
		entry := MessageStatus{Status: m.Status}
		if m.SeenAt.Valid {
			seenAt := m.SeenAt.Time
			entry.SeenAt = &seenAt
		}
		statuses[m.ID.String()] = entry
	}
	return statuses, nil
}
