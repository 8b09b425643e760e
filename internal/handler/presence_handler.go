package handler

import (
	"net/http"
	"strings"
	"time"

	"campusnet/internal/services"
	"campusnet/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PresenceHandler struct {
	service *services.PresenceService
}

func NewPresenceHandler(service *services.PresenceService) *PresenceHandler {
	return &PresenceHandler{service: service}
}

func (h *PresenceHandler) Heartbeat(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	timestamp, err := h.service.Heartbeat(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"timestamp": timestamp.Format(time.RFC3339)}))
}

func (h *PresenceHandler) UpdateActivity(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.service.UpdateActivity(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{}))
}

// GetOnlineStatus derives presence for a comma-separated list of user ids.
func (h *PresenceHandler) GetOnlineStatus(c *gin.Context) {
	if _, ok := callerID(c); !ok {
		return
	}

	raw := c.Query("user_ids")
	var userIDs []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := parseUUID(part)
		if err != nil {
			respondError(c, err)
			return
		}
		userIDs = append(userIDs, id)
	}

	statuses, err := h.service.GetOnlineStatus(c.Request.Context(), userIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"statuses": statuses}))
}

func (h *PresenceHandler) GetPartnerStatus(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	conversationID, err := parseUUID(c.Query("conversation_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	partner, err := h.service.GetConversationPartnerStatus(c.Request.Context(), conversationID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"partner": partner}))
}
