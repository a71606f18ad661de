package handler

import (
	"net/http"
	"time"

	"github.com/ctfpad/backend/src/domain"
	"github.com/ctfpad/backend/src/service"
	"github.com/gin-gonic/gin"
)

type WriteupHandler struct {
	writeupService *service.WriteupService
}

func NewWriteupHandler(writeupService *service.WriteupService) *WriteupHandler {
	return &WriteupHandler{writeupService: writeupService}
}

type AddWriteupRequest struct {
	URL       string `json:"url" binding:"required,url,max=2048"`
	AddedByID uint   `json:"addedById" binding:"required"`
}

type WriteupResponse struct {
	ID           uint      `json:"id"`
	URL          string    `json:"url"`
	AddedByID    uint      `json:"addedById"`
	ChallengeID  string    `json:"challengeId"`
	CreationTime time.Time `json:"creationTime"`
}

func writeupResponse(w *domain.ChallengeWriteup) WriteupResponse {
	return WriteupResponse{
		ID:           w.ID,
		URL:          w.URL,
		AddedByID:    w.AddedByID,
		ChallengeID:  w.ChallengeID.String(),
		CreationTime: w.CreationTime,
	}
}

// AddWriteup handles POST /challenges/:id/writeups.
func (h *WriteupHandler) AddWriteup(c *gin.Context) {
	challengeID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddWriteupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("Invalid request payload")))
		return
	}

	writeup, err := h.writeupService.AddWriteup(c.Request.Context(), challengeID, req.AddedByID, req.URL)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccessAndStatus(c, http.StatusCreated, writeupResponse(writeup))
}

func (h *WriteupHandler) ListWriteups(c *gin.Context) {
	challengeID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	writeups, err := h.writeupService.ListWriteupsByChallenge(c.Request.Context(), challengeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	responses := make([]WriteupResponse, 0, len(writeups))
	for _, writeup := range writeups {
		responses = append(responses, writeupResponse(writeup))
	}
	respondWithSuccess(c, responses)
}

func (h *WriteupHandler) DeleteWriteup(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.writeupService.DeleteWriteup(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, gin.H{"deleted": id})
}
