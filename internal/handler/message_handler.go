package handler

import (
	"net/http"

	"campusnet/internal/services"
	"campusnet/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	service *services.MessageService
}

func NewMessageHandler(service *services.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

func (h *MessageHandler) Send(c *gin.Context) {
	var req httpdto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}
	conversationID, err := parseUUID(req.ConversationID)
	if err != nil {
		respondError(c, err)
		return
	}

	var attachment *services.Attachment
	if req.FileURL != "" {
		attachment = &services.Attachment{
			URL:  req.FileURL,
			Name: req.FileName,
			Size: req.FileSize,
		}
	}

	m, err := h.service.Send(c.Request.Context(), conversationID, userID, req.Content, attachment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": m}))
}

func (h *MessageHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	conversationID, err := parseUUID(c.Query("conversation_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	items, err := h.service.List(c.Request.Context(), conversationID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"messages": items}))
}

func (h *MessageHandler) Edit(c *gin.Context) {
	var req httpdto.EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("new_content required", "INVALID_REQUEST"))
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}
	messageID, err := parseUUID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.service.Edit(c.Request.Context(), messageID, userID, req.NewContent); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "message edited"}))
}

func (h *MessageHandler) Unsend(c *gin.Context) {
	var req httpdto.UnsendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}
	messageID, err := parseUUID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.service.Unsend(c.Request.Context(), messageID, userID, req.UnsendForAll); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "message unsent"}))
}

func (h *MessageHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	messageID, err := parseUUID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), messageID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "message deleted"}))
}

func (h *MessageHandler) Pin(c *gin.Context) {
	var req httpdto.PinMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("conversation_id required", "INVALID_REQUEST"))
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}
	messageID, err := parseUUID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	conversationID, err := parseUUID(req.ConversationID)
	if err != nil {
		respondError(c, err)
		return
	}

	pinned, err := h.service.TogglePin(c.Request.Context(), conversationID, messageID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"pinned": pinned}))
}

func (h *MessageHandler) ListPinned(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	conversationID, err := parseUUID(c.Query("conversation_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	items, err := h.service.ListPinned(c.Request.Context(), conversationID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"pinned_messages": items}))
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	var req httpdto.ConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("conversation_id required", "INVALID_REQUEST"))
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}
	conversationID, err := parseUUID(req.ConversationID)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), conversationID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "messages marked as read"}))
}

// UnreadCount returns the total unread count, or a single conversation's
// count when conversation_id is supplied.
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if raw := c.Query("conversation_id"); raw != "" {
		conversationID, err := parseUUID(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		count, err := h.service.ConversationUnreadCount(c.Request.Context(), conversationID, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"unread_count": count}))
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"unread_count": count}))
}
