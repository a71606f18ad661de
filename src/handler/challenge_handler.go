package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ctfpad/backend/src/domain"
	"github.com/ctfpad/backend/src/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ChallengeHandler struct {
	challengeService *service.ChallengeService
	hedgedocURL      string
}

func NewChallengeHandler(challengeService *service.ChallengeService, hedgedocURL string) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		hedgedocURL:      hedgedocURL,
	}
}

func (h *ChallengeHandler) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("handler", "challenge").Logger()
	return &l
}

type ChallengeRequest struct {
	Name              string `json:"name" binding:"required,max=256"`
	Points            int    `json:"points" binding:"omitempty,min=0"`
	Description       string `json:"description"`
	CategoryID        *uint  `json:"categoryId"`
	NoteID            string `json:"noteId" binding:"omitempty,max=80"`
	CtfID             string `json:"ctfId" binding:"required,uuid"`
	ExcalidrawRoomID  string `json:"excalidrawRoomId"`
	ExcalidrawRoomKey string `json:"excalidrawRoomKey"`
}

// SetFlagRequest is the flag-update payload. The member performing the
// update is recorded as last updater and, when the flag actually changed,
// as solver.
type SetFlagRequest struct {
	Flag     string `json:"flag" binding:"max=128"`
	MemberID uint   `json:"memberId" binding:"required"`
}

type ChallengeResponse struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Points            int        `json:"points"`
	Description       string     `json:"description,omitempty"`
	CategoryID        *uint      `json:"categoryId,omitempty"`
	Category          string     `json:"category,omitempty"`
	NoteID            string     `json:"noteId,omitempty"`
	NoteURL           string     `json:"noteUrl"`
	CtfID             string     `json:"ctfId"`
	ExcalidrawRoomID  string     `json:"excalidrawRoomId,omitempty"`
	ExcalidrawRoomKey string     `json:"excalidrawRoomKey,omitempty"`
	Status            string     `json:"status"`
	Solved            bool       `json:"solved"`
	SolverID          *uint      `json:"solverId,omitempty"`
	SolvedTime        *time.Time `json:"solvedTime,omitempty"`
}

func challengeResponse(challenge *domain.Challenge, hedgedocURL string) ChallengeResponse {
	resp := ChallengeResponse{
		ID:                challenge.ID.String(),
		Name:              challenge.Name,
		Points:            challenge.Points,
		Description:       challenge.Description,
		CategoryID:        challenge.CategoryID,
		NoteID:            challenge.NoteID,
		NoteURL:           challenge.NoteURL(hedgedocURL),
		CtfID:             challenge.CtfID.String(),
		ExcalidrawRoomID:  challenge.ExcalidrawRoomID,
		ExcalidrawRoomKey: challenge.ExcalidrawRoomKey,
		Status:            string(challenge.Status),
		Solved:            challenge.Solved(),
		SolverID:          challenge.SolverID,
		SolvedTime:        challenge.SolvedTime,
	}
	if challenge.Category != nil {
		resp.Category = challenge.Category.Name
	}
	return resp
}

func (h *ChallengeHandler) CreateChallenge(c *gin.Context) {
	var req ChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("Invalid request payload")))
		return
	}

	ctfID, err := uuid.Parse(req.CtfID)
	if err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("invalid ctfId")))
		return
	}

	challenge, err := h.challengeService.CreateChallenge(c.Request.Context(), service.ChallengeInput{
		Name:              req.Name,
		Points:            req.Points,
		Description:       req.Description,
		CategoryID:        req.CategoryID,
		NoteID:            req.NoteID,
		CtfID:             ctfID,
		ExcalidrawRoomID:  req.ExcalidrawRoomID,
		ExcalidrawRoomKey: req.ExcalidrawRoomKey,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondWithSuccessAndStatus(c, http.StatusCreated, challengeResponse(challenge, h.hedgedocURL))
}

func (h *ChallengeHandler) GetChallenge(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	challenge, err := h.challengeService.GetChallenge(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, challengeResponse(challenge, h.hedgedocURL))
}

func (h *ChallengeHandler) UpdateChallenge(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	actorID, err := parseActorID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("Invalid request payload")))
		return
	}

	ctfID, err := uuid.Parse(req.CtfID)
	if err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("invalid ctfId")))
		return
	}

	challenge, err := h.challengeService.UpdateChallenge(c.Request.Context(), id, service.ChallengeInput{
		Name:              req.Name,
		Points:            req.Points,
		Description:       req.Description,
		CategoryID:        req.CategoryID,
		NoteID:            req.NoteID,
		CtfID:             ctfID,
		ExcalidrawRoomID:  req.ExcalidrawRoomID,
		ExcalidrawRoomKey: req.ExcalidrawRoomKey,
	}, actorID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, challengeResponse(challenge, h.hedgedocURL))
}

// SetFlag handles PATCH /challenges/:id/flag, the only path that can flip a
// challenge to solved.
func (h *ChallengeHandler) SetFlag(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("Invalid request payload")))
		return
	}

	challenge, solved, err := h.challengeService.ApplyFlagUpdate(c.Request.Context(), id, req.Flag, req.MemberID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if solved {
		h.logger(c.Request.Context()).Info().
			Str("challenge_id", challenge.ID.String()).
			Uint("member_id", req.MemberID).
			Msg("flag accepted")
	}
	respondWithSuccess(c, challengeResponse(challenge, h.hedgedocURL))
}

func (h *ChallengeHandler) DeleteChallenge(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.challengeService.DeleteChallenge(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, gin.H{"deleted": id.String()})
}

// parseActorID reads the X-Member-ID header identifying who performs a
// metadata update.
func parseActorID(c *gin.Context) (uint, error) {
	raw := c.GetHeader("X-Member-ID")
	if raw == "" {
		return 0, domain.NewError(domain.ErrorCodeParameterInvalid,
			errors.New("missing X-Member-ID header"),
			domain.WithMsg("missing X-Member-ID header"))
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("invalid X-Member-ID header"))
	}
	return uint(id), nil
}
