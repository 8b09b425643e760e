package httpdto

type SendMessageRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
	Content        string `json:"content"`
	FileURL        string `json:"file_url"`
	FileName       string `json:"file_name"`
	FileSize       int64  `json:"file_size"`
}

type EditMessageRequest struct {
	NewContent string `json:"new_content" binding:"required"`
}

type UnsendMessageRequest struct {
	UnsendForAll bool `json:"unsend_for_all"`
}

type PinMessageRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
}

type CreateConversationRequest struct {
	UserID string `json:"user_id" binding:"required"`
}
