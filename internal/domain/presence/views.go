package presence

import "github.com/google/uuid"

// TypingUser is a read model for "who is typing" listings.
type TypingUser struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
}
