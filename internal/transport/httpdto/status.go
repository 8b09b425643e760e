package httpdto

// ConversationRequest is shared by every operation scoped to a conversation.
type ConversationRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
}

// OnlineStatusRequest asks for the derived presence of a set of users.
type OnlineStatusRequest struct {
	UserIDs []string `json:"user_ids" binding:"required,min=1"`
}
