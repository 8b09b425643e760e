package services

import (
	"context"
	"fmt"
	"time"

	"campusnet/internal/domain/presence"
	"campusnet/internal/domain/user"
	"campusnet/internal/proxy"
	"campusnet/internal/repository"
	"campusnet/pkg/clock"
	campusnet_errors "campusnet/pkg/errors"

	"github.com/google/uuid"
)

const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// OnlineStatus is the derived presence of one user at read time.
type OnlineStatus struct {
	Status       string    `json:"status"`
	LastActivity time.Time `json:"last_activity"`
	SecondsAgo   int64     `json:"seconds_ago"`
	DisplayText  string    `json:"display_text"`
}

// PartnerStatus is OnlineStatus plus the partner's public profile, for the
// conversation header.
type PartnerStatus struct {
	ID           uuid.UUID `json:"id"`
	DisplayName  string    `json:"display_name"`
	AvatarURL    string    `json:"avatar_url"`
	Status       string    `json:"status"`
	LastActivity time.Time `json:"last_activity"`
	DisplayText  string    `json:"display_text"`
}

// PresenceService derives online state from users.last_activity alone.
// Nothing about presence is stored beyond that timestamp, so the derived
// status can never disagree with it.
type PresenceService struct {
	userRepo         repository.UserRepository
	conversationRepo repository.ConversationRepository
	access           *proxy.AccessControl
	clock            clock.Clock
}

func NewPresenceService(userRepo repository.UserRepository, conversationRepo repository.ConversationRepository, access *proxy.AccessControl, clk clock.Clock) *PresenceService {
	if clk == nil {
		clk = clock.New()
	}
	return &PresenceService{
		userRepo:         userRepo,
		conversationRepo: conversationRepo,
		access:           access,
		clock:            clk,
	}
}

// Heartbeat keeps the user online while they have the page open. Clients
// send it every 30 seconds; the returned timestamp lets them detect clock skew.
func (s *PresenceService) Heartbeat(ctx context.Context, userID uuid.UUID) (time.Time, error) {
	now := s.clock.Now()
	if err := s.userRepo.UpdateLastActivity(ctx, userID, now); err != nil {
		return time.Time{}, err
	}
	return now, nil
}

// UpdateActivity records user interaction (clicks, keypresses). Clients
// throttle it to at most once per 10 seconds.
func (s *PresenceService) UpdateActivity(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.UpdateLastActivity(ctx, userID, s.clock.Now())
}

// GetOnlineStatus derives presence for each requested user. Online means
// active within the last 30 seconds, inclusive.
func (s *PresenceService) GetOnlineStatus(ctx context.Context, userIDs []uuid.UUID) (map[string]OnlineStatus, error) {
	if len(userIDs) == 0 {
		return nil, campusnet_errors.ErrInvalidInput
	}

	users, err := s.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	statuses := make(map[string]OnlineStatus, len(users))
	for _, u := range users {
		statuses[u.ID.String()] = s.derive(u, now)
	}
	return statuses, nil
}

// GetConversationPartnerStatus reports presence of the other participant in
// a two-party conversation.
func (s *PresenceService) GetConversationPartnerStatus(ctx context.Context, conversationID, viewerID uuid.UUID) (PartnerStatus, error) {
	if conversationID == uuid.Nil {
		return PartnerStatus{}, campusnet_errors.ErrInvalidInput
	}
	if err := s.access.EnsureParticipant(ctx, conversationID, viewerID); err != nil {
		return PartnerStatus{}, err
	}

	partner, err := s.conversationRepo.GetFirstPartner(ctx, conversationID, viewerID)
	if err != nil {
		return PartnerStatus{}, err
	}

	derived := s.derive(partner, s.clock.Now())
	return PartnerStatus{
		ID:           partner.ID,
		DisplayName:  partner.DisplayName,
		AvatarURL:    partner.AvatarURL,
		Status:       derived.Status,
		LastActivity: derived.LastActivity,
		DisplayText:  derived.DisplayText,
	}, nil
}

func (s *PresenceService) derive(u user.User, now time.Time) OnlineStatus {
	secondsAgo := int64(now.Sub(u.LastActivity) / time.Second)
	if secondsAgo < 0 {
		secondsAgo = 0
	}

	status := StatusOffline
	if now.Sub(u.LastActivity) <= presence.OnlineWindow {
		status = StatusOnline
	}

	return OnlineStatus{
		Status:       status,
		LastActivity: u.LastActivity,
		SecondsAgo:   secondsAgo,
		DisplayText:  displayText(status, secondsAgo),
	}
}

// displayText renders the recency label shown next to a user's name.
// Minutes and hours round up, so 61s is "2m ago".
func displayText(status string, secondsAgo int64) string {
	if status == StatusOnline {
		return "Online"
	}
	switch {
	case secondsAgo < 60:
		return "Just now"
	case secondsAgo < 3600:
		return fmt.Sprintf("%dm ago", (secondsAgo+59)/60)
	default:
		return fmt.Sprintf("%dh ago", (secondsAgo+3599)/3600)
	}
}
