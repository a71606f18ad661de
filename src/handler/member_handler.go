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

type MemberHandler struct {
	memberService       *service.MemberService
	notificationService *service.NotificationService
}

func NewMemberHandler(memberService *service.MemberService, notificationService *service.NotificationService) *MemberHandler {
	return &MemberHandler{
		memberService:       memberService,
		notificationService: notificationService,
	}
}

func (h *MemberHandler) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("handler", "member").Logger()
	return &l
}

type CreateMemberRequest struct {
	Username    string `json:"username" binding:"required,max=150"`
	Email       string `json:"email" binding:"required,email,max=256"`
	TeamID      uint   `json:"teamId" binding:"required"`
	Description string `json:"description"`
	Country     string `json:"country" binding:"omitempty,country"`
	Timezone    string `json:"timezone" binding:"omitempty,timezone"`
}

type UpdateMemberRequest struct {
	Avatar                   *string `json:"avatar" binding:"omitempty,max=512"`
	Description              *string `json:"description"`
	Country                  *string `json:"country" binding:"omitempty,country"`
	Timezone                 *string `json:"timezone" binding:"omitempty,timezone"`
	ShowPendingNotifications *bool   `json:"showPendingNotifications"`
}

type MemberResponse struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	TeamID      uint       `json:"teamId"`
	Avatar      string     `json:"avatar,omitempty"`
	Description string     `json:"description,omitempty"`
	Country     string     `json:"country,omitempty"`
	Timezone    string     `json:"timezone"`
	LastScored  *time.Time `json:"lastScored,omitempty"`
	Anonymous   bool       `json:"anonymous"`
}

type MemberProfileResponse struct {
	MemberResponse
	TotalPointsScored int64  `json:"totalPointsScored"`
	BestCategory      string `json:"bestCategory,omitempty"`
}

func memberResponse(member *domain.Member) MemberResponse {
	return MemberResponse{
		ID:          member.ID,
		Username:    member.Username,
		Email:       member.Email,
		TeamID:      member.TeamID,
		Avatar:      member.Avatar,
		Description: member.Description,
		Country:     member.Country,
		Timezone:    member.Timezone,
		LastScored:  member.LastScored,
		Anonymous:   member.IsAnonymousOnHedgedoc(),
	}
}

func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("Invalid request payload")))
		return
	}

	member, err := h.memberService.CreateMember(c.Request.Context(), service.CreateMemberInput{
		Username:    req.Username,
		Email:       req.Email,
		TeamID:      req.TeamID,
		Description: req.Description,
		Country:     req.Country,
		Timezone:    req.Timezone,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondWithSuccessAndStatus(c, http.StatusCreated, memberResponse(member))
}

// GetMember returns the member profile together with the scoring aggregates.
func (h *MemberHandler) GetMember(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	member, err := h.memberService.GetMember(ctx, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	total, err := h.memberService.TotalPointsScored(ctx, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	best, err := h.memberService.BestCategory(ctx, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profile := MemberProfileResponse{
		MemberResponse:    memberResponse(member),
		TotalPointsScored: total,
	}
	if best != nil {
		profile.BestCategory = best.Name
	}
	respondWithSuccess(c, profile)
}

// ListMembers returns all members, or just the one matching the optional
// ?username= filter.
func (h *MemberHandler) ListMembers(c *gin.Context) {
	if username := c.Query("username"); username != "" {
		member, err := h.memberService.GetMemberByUsername(c.Request.Context(), username)
		if err != nil {
			respondWithError(c, err)
			return
		}
		respondWithSuccess(c, []MemberResponse{memberResponse(member)})
		return
	}

	members, err := h.memberService.ListMembers(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	responses := make([]MemberResponse, 0, len(members))
	for _, member := range members {
		responses = append(responses, memberResponse(member))
	}
	respondWithSuccess(c, responses)
}

func (h *MemberHandler) UpdateMember(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("Invalid request payload")))
		return
	}

	member, err := h.memberService.UpdateMember(c.Request.Context(), id, service.UpdateMemberInput{
		Avatar:                   req.Avatar,
		Description:              req.Description,
		Country:                  req.Country,
		Timezone:                 req.Timezone,
		ShowPendingNotifications: req.ShowPendingNotifications,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, memberResponse(member))
}

func (h *MemberHandler) DeleteMember(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.memberService.DeleteMember(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, gin.H{"deleted": id})
}

// ListNotifications returns direct notifications plus broadcasts for the
// member, newest first.
func (h *MemberHandler) ListNotifications(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	notifications, err := h.notificationService.ListForMember(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	responses := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, notificationResponse(n))
	}
	respondWithSuccess(c, responses)
}
