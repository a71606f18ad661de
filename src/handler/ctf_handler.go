package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/ctfpad/backend/src/domain"
	"github.com/ctfpad/backend/src/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type CtfHandler struct {
	ctfService       *service.CtfService
	challengeService *service.ChallengeService
	hedgedocURL      string
}

func NewCtfHandler(ctfService *service.CtfService, challengeService *service.ChallengeService, hedgedocURL string) *CtfHandler {
	return &CtfHandler{
		ctfService:       ctfService,
		challengeService: challengeService,
		hedgedocURL:      hedgedocURL,
	}
}

func (h *CtfHandler) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("handler", "ctf").Logger()
	return &l
}

type CtfRequest struct {
	Name         string     `json:"name" binding:"required,max=128"`
	URL          string     `json:"url" binding:"omitempty,url"`
	Description  string     `json:"description"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	FlagPrefix   string     `json:"flagPrefix" binding:"omitempty,max=64"`
	TeamLogin    string     `json:"teamLogin" binding:"omitempty,max=128"`
	TeamPassword string     `json:"teamPassword" binding:"omitempty,max=128"`
}

type CtfResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	URL         string     `json:"url,omitempty"`
	Description string     `json:"description,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	FlagPrefix  string     `json:"flagPrefix,omitempty"`
	TeamLogin   string     `json:"teamLogin,omitempty"`
	IsPermanent bool       `json:"isPermanent"`
	IsRunning   bool       `json:"isRunning"`
}

type CtfDetailResponse struct {
	CtfResponse
	TotalChallenges          int64 `json:"totalChallenges"`
	SolvedChallenges         int64 `json:"solvedChallenges"`
	TotalPoints              int64 `json:"totalPoints"`
	ScoredPoints             int64 `json:"scoredPoints"`
	SolvedChallengesAsPercent int  `json:"solvedChallengesAsPercent"`
	ScoredPointsAsPercent     int  `json:"scoredPointsAsPercent"`
}

func ctfResponse(ctf *domain.Ctf) CtfResponse {
	return CtfResponse{
		ID:          ctf.ID.String(),
		Name:        ctf.Name,
		URL:         ctf.URL,
		Description: ctf.Description,
		StartDate:   ctf.StartDate,
		EndDate:     ctf.EndDate,
		FlagPrefix:  ctf.FlagPrefix,
		TeamLogin:   ctf.TeamLogin,
		IsPermanent: ctf.IsPermanent(),
		IsRunning:   ctf.IsRunning(time.Now()),
	}
}

func (h *CtfHandler) CreateCtf(c *gin.Context) {
	var req CtfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("Invalid request payload")))
		return
	}

	ctf, err := h.ctfService.CreateCtf(c.Request.Context(), service.CtfInput{
		Name:         req.Name,
		URL:          req.URL,
		Description:  req.Description,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		FlagPrefix:   req.FlagPrefix,
		TeamLogin:    req.TeamLogin,
		TeamPassword: req.TeamPassword,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccessAndStatus(c, http.StatusCreated, ctfResponse(ctf))
}

// GetCtf returns the competition with its solve/score aggregates.
func (h *CtfHandler) GetCtf(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	ctf, err := h.ctfService.GetCtf(ctx, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.ctfService.Stats(ctx, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondWithSuccess(c, CtfDetailResponse{
		CtfResponse:               ctfResponse(ctf),
		TotalChallenges:           stats.TotalChallenges,
		SolvedChallenges:          stats.SolvedChallenges,
		TotalPoints:               stats.TotalPoints,
		ScoredPoints:              stats.ScoredPoints,
		SolvedChallengesAsPercent: stats.SolvedChallengesAsPercent(),
		ScoredPointsAsPercent:     stats.ScoredPointsAsPercent(),
	})
}

func (h *CtfHandler) ListCtfs(c *gin.Context) {
	ctfs, err := h.ctfService.ListCtfs(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	responses := make([]CtfResponse, 0, len(ctfs))
	for _, ctf := range ctfs {
		responses = append(responses, ctfResponse(ctf))
	}
	respondWithSuccess(c, responses)
}

func (h *CtfHandler) UpdateCtf(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CtfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("Invalid request payload")))
		return
	}

	ctf, err := h.ctfService.UpdateCtf(c.Request.Context(), id, service.CtfInput{
		Name:         req.Name,
		URL:          req.URL,
		Description:  req.Description,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		FlagPrefix:   req.FlagPrefix,
		TeamLogin:    req.TeamLogin,
		TeamPassword: req.TeamPassword,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, ctfResponse(ctf))
}

func (h *CtfHandler) DeleteCtf(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.ctfService.DeleteCtf(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, gin.H{"deleted": id.String()})
}

// ListChallenges handles GET /ctfs/:id/challenges.
func (h *CtfHandler) ListChallenges(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	challenges, err := h.challengeService.ListChallengesByCtf(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	responses := make([]ChallengeResponse, 0, len(challenges))
	for _, challenge := range challenges {
		responses = append(responses, challengeResponse(challenge, h.hedgedocURL))
	}
	respondWithSuccess(c, responses)
}
