package handler

import (
	"net/http"
	"time"

	"github.com/ctfpad/backend/src/domain"
	"github.com/ctfpad/backend/src/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

type CreateNotificationRequest struct {
	SenderID    uint    `json:"senderId" binding:"required"`
	RecipientID *uint   `json:"recipientId"`
	ChallengeID *string `json:"challengeId" binding:"omitempty,uuid"`
	Description string  `json:"description" binding:"required"`
}

type NotificationResponse struct {
	ID           uint      `json:"id"`
	SenderID     uint      `json:"senderId"`
	Sender       string    `json:"sender,omitempty"`
	RecipientID  *uint     `json:"recipientId,omitempty"`
	ChallengeID  *string   `json:"challengeId,omitempty"`
	Description  string    `json:"description"`
	Broadcast    bool      `json:"broadcast"`
	CreationTime time.Time `json:"creationTime"`
}

func notificationResponse(n *domain.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:           n.ID,
		SenderID:     n.SenderID,
		RecipientID:  n.RecipientID,
		Description:  n.Description,
		Broadcast:    n.IsBroadcast(),
		CreationTime: n.CreationTime,
	}
	if n.ChallengeID != nil {
		id := n.ChallengeID.String()
		resp.ChallengeID = &id
	}
	if n.Sender != nil {
		resp.Sender = n.Sender.Username
	}
	return resp
}

// CreateNotification records a direct or broadcast notification. A missing
// recipientId broadcasts to the whole team.
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("Invalid request payload")))
		return
	}

	var challengeID *uuid.UUID
	if req.ChallengeID != nil {
		id, err := uuid.Parse(*req.ChallengeID)
		if err != nil {
			respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err,
				domain.WithMsg("invalid challengeId")))
			return
		}
		challengeID = &id
	}

	notification, err := h.notificationService.Notify(c.Request.Context(), req.SenderID, req.RecipientID, challengeID, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccessAndStatus(c, http.StatusCreated, notificationResponse(notification))
}

func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.notificationService.DeleteNotification(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, gin.H{"deleted": id})
}
