package handler

import (
	"net/http"

	"campusnet/internal/services"
	"campusnet/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type StatusHandler struct {
	service *services.StatusService
}

func NewStatusHandler(service *services.StatusService) *StatusHandler {
	return &StatusHandler{service: service}
}

func (h *StatusHandler) MarkDelivered(c *gin.Context) {
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

	if err := h.service.MarkDelivered(c.Request.Context(), conversationID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "messages marked as delivered"}))
}

func (h *StatusHandler) MarkSeen(c *gin.Context) {
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

	if err := h.service.MarkSeen(c.Request.Context(), conversationID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "messages marked as seen"}))
}

func (h *StatusHandler) GetStatuses(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	conversationID, err := parseUUID(c.Query("conversation_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	statuses, err := h.service.GetStatuses(c.Request.Context(), conversationID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"statuses": statuses}))
}
