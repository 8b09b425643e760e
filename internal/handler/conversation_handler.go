package handler

import (
	"net/http"
	"strconv"

	"campusnet/internal/services"
	"campusnet/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type ConversationHandler struct {
	service *services.ConversationService
}

func NewConversationHandler(service *services.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

func (h *ConversationHandler) Create(c *gin.Context) {
	var req httpdto.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("user_id required", "INVALID_REQUEST"))
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}
	otherUserID, err := parseUUID(req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	conv, err := h.service.CreateDirect(c.Request.Context(), userID, otherUserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"conversation": conv}))
}

func (h *ConversationHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	conversations, total, err := h.service.ListForUser(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{
		"conversations": conversations,
		"total":         total,
	}))
}
