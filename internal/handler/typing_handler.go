package handler

import (
	"net/http"

	"campusnet/internal/services"
	"campusnet/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type TypingHandler struct {
	service *services.TypingService
}

func NewTypingHandler(service *services.TypingService) *TypingHandler {
	return &TypingHandler{service: service}
}

func (h *TypingHandler) Start(c *gin.Context) {
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

	if err := h.service.StartTyping(c.Request.Context(), conversationID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{}))
}

func (h *TypingHandler) Stop(c *gin.Context) {
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

	if err := h.service.StopTyping(c.Request.Context(), conversationID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{}))
}

func (h *TypingHandler) Get(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	conversationID, err := parseUUID(c.Query("conversation_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	users, err := h.service.GetTypingUsers(c.Request.Context(), conversationID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"typing_users": users}))
}

// Cleanup lets an operator or external scheduler trigger the stale sweep;
// the in-process cron job runs the same code path.
func (h *TypingHandler) Cleanup(c *gin.Context) {
	removed, err := h.service.CleanupStale(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"removed": removed}))
}
