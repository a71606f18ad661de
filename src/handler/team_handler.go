package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/ctfpad/backend/src/domain"
	"github.com/ctfpad/backend/src/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type TeamHandler struct {
	teamService *service.TeamService
}

func NewTeamHandler(teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

func (h *TeamHandler) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("handler", "team").Logger()
	return &l
}

type CreateTeamRequest struct {
	Name       string `json:"name" binding:"required,max=64"`
	Email      string `json:"email" binding:"required,email,max=256"`
	TwitterURL string `json:"twitterUrl" binding:"omitempty,url"`
	GithubURL  string `json:"githubUrl" binding:"omitempty,url"`
	YoutubeURL string `json:"youtubeUrl" binding:"omitempty,url"`
	BlogURL    string `json:"blogUrl" binding:"omitempty,url"`
	Avatar     string `json:"avatar" binding:"omitempty,max=512"`
}

type UpdateTeamRequest struct {
	Name       *string `json:"name" binding:"omitempty,max=64"`
	Email      *string `json:"email" binding:"omitempty,email,max=256"`
	TwitterURL *string `json:"twitterUrl" binding:"omitempty,url"`
	GithubURL  *string `json:"githubUrl" binding:"omitempty,url"`
	YoutubeURL *string `json:"youtubeUrl" binding:"omitempty,url"`
	BlogURL    *string `json:"blogUrl" binding:"omitempty,url"`
	Avatar     *string `json:"avatar" binding:"omitempty,max=512"`
}

type TeamResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	TwitterURL string `json:"twitterUrl,omitempty"`
	GithubURL  string `json:"githubUrl,omitempty"`
	YoutubeURL string `json:"youtubeUrl,omitempty"`
	BlogURL    string `json:"blogUrl,omitempty"`
	Avatar     string `json:"avatar,omitempty"`
	APIKey     string `json:"apiKey,omitempty"`
}

func teamResponse(team *domain.Team, withAPIKey bool) TeamResponse {
	resp := TeamResponse{
		ID:         team.ID,
		Name:       team.Name,
		Email:      team.Email,
		TwitterURL: team.TwitterURL,
		GithubURL:  team.GithubURL,
		YoutubeURL: team.YoutubeURL,
		BlogURL:    team.BlogURL,
		Avatar:     team.Avatar,
	}
	if withAPIKey {
		resp.APIKey = team.APIKey
	}
	return resp
}

// CreateTeam handles POST /teams. The response is the only place the
// generated API key is ever handed out.
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("Invalid request payload")))
		return
	}

	team, err := h.teamService.CreateTeam(c.Request.Context(), service.CreateTeamInput{
		Name:       req.Name,
		Email:      req.Email,
		TwitterURL: req.TwitterURL,
		GithubURL:  req.GithubURL,
		YoutubeURL: req.YoutubeURL,
		BlogURL:    req.BlogURL,
		Avatar:     req.Avatar,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondWithSuccessAndStatus(c, http.StatusCreated, teamResponse(team, true))
}

func (h *TeamHandler) GetTeam(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	team, err := h.teamService.GetTeam(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, teamResponse(team, false))
}

func (h *TeamHandler) ListTeams(c *gin.Context) {
	teams, err := h.teamService.ListTeams(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	responses := make([]TeamResponse, 0, len(teams))
	for _, team := range teams {
		responses = append(responses, teamResponse(team, false))
	}
	respondWithSuccess(c, responses)
}

// requireOwnTeam rejects mutation of any team other than the one the API
// key resolved to.
func requireOwnTeam(c *gin.Context, id uint) bool {
	team, ok := CurrentTeam(c)
	if !ok || team.ID != id {
		respondWithError(c, domain.NewError(
			domain.ErrorCodeAuthPermissionDenied,
			errors.New("API key does not belong to the targeted team"),
			domain.WithMsg("Teams can only modify themselves"),
		))
		return false
	}
	return true
}

func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !requireOwnTeam(c, id) {
		return
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("Invalid request payload")))
		return
	}

	team, err := h.teamService.UpdateTeam(c.Request.Context(), id, service.UpdateTeamInput{
		Name:       req.Name,
		Email:      req.Email,
		TwitterURL: req.TwitterURL,
		GithubURL:  req.GithubURL,
		YoutubeURL: req.YoutubeURL,
		BlogURL:    req.BlogURL,
		Avatar:     req.Avatar,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, teamResponse(team, false))
}

func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !requireOwnTeam(c, id) {
		return
	}

	if err := h.teamService.DeleteTeam(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, gin.H{"deleted": id})
}
