package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ctfpad/backend/src/domain"
	"github.com/ctfpad/backend/src/repository"
	"github.com/ctfpad/backend/src/utils"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type MemberService struct {
	memberRepo  *repository.MemberRepository
	writeupRepo *repository.WriteupRepository
	hedgedoc    *HedgedocService
}

func NewMemberService(memberRepo *repository.MemberRepository, writeupRepo *repository.WriteupRepository, hedgedoc *HedgedocService) *MemberService {
	return &MemberService{
		memberRepo:  memberRepo,
		writeupRepo: writeupRepo,
		hedgedoc:    hedgedoc,
	}
}

func (s *MemberService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("component", "member-service").Logger()
	return &l
}

type CreateMemberInput struct {
	Username    string
	Email       string
	TeamID      uint
	Description string
	Country     string
	Timezone    string
}

type UpdateMemberInput struct {
	Avatar                   *string
	Description              *string
	Country                  *string
	Timezone                 *string
	ShowPendingNotifications *bool
}

// CreateMember provisions a member, note-service account included. The
// HedgeDoc password is generated here; when registration fails the member is
// stored with an empty password and operates in anonymous note-access mode.
// A registration failure is absorbed, never returned.
func (s *MemberService) CreateMember(ctx context.Context, input CreateMemberInput) (*domain.Member, error) {
	if !domain.IsValidCountry(input.Country) {
		return nil, domain.NewError(domain.ErrorCodeParameterInvalid,
			fmt.Errorf("unknown country %q", input.Country),
			domain.WithMsg("unknown country"))
	}
	timezone := input.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	if !domain.IsValidTimezone(timezone) {
		return nil, domain.NewError(domain.ErrorCodeParameterInvalid,
			fmt.Errorf("unknown timezone %q", input.Timezone),
			domain.WithMsg("unknown timezone"))
	}

	member := &domain.Member{
		Username:         input.Username,
		Email:            input.Email,
		TeamID:           input.TeamID,
		Description:      input.Description,
		Country:          input.Country,
		Timezone:         timezone,
		HedgedocPassword: utils.RandomString(domain.HedgedocPasswordLength),
	}

	if !s.hedgedoc.RegisterAccount(ctx, member.HedgedocUsername(), member.HedgedocPassword) {
		// Empty password == anonymous mode on HedgeDoc
		member.HedgedocPassword = ""
		s.logger(ctx).Warn().
			Str("username", member.Username).
			Msg("hedgedoc registration failed, member falls back to anonymous mode")
	}

	if err := s.memberRepo.CreateMember(member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.NewError(domain.ErrorCodeResourceConflict, err,
				domain.WithMsg("username already taken"))
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, domain.NewError(domain.ErrorCodeParameterInvalid, err,
				domain.WithMsg("team does not exist"))
		}
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}

	s.logger(ctx).Info().
		Uint("member_id", member.ID).
		Str("username", member.Username).
		Bool("anonymous", member.IsAnonymousOnHedgedoc()).
		Msg("member created")
	return member, nil
}

func (s *MemberService) UpdateMember(ctx context.Context, id uint, input UpdateMemberInput) (*domain.Member, error) {
	member, err := s.memberRepo.FindMemberByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.ErrorCodeResourceNotFound, err,
				domain.WithMsg("member not found"))
		}
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}

	if input.Country != nil {
		if !domain.IsValidCountry(*input.Country) {
			return nil, domain.NewError(domain.ErrorCodeParameterInvalid,
				fmt.Errorf("unknown country %q", *input.Country),
				domain.WithMsg("unknown country"))
		}
		member.Country = *input.Country
	}
	if input.Timezone != nil {
		if !domain.IsValidTimezone(*input.Timezone) {
			return nil, domain.NewError(domain.ErrorCodeParameterInvalid,
				fmt.Errorf("unknown timezone %q", *input.Timezone),
				domain.WithMsg("unknown timezone"))
		}
		member.Timezone = *input.Timezone
	}
	if input.Avatar != nil {
		member.Avatar = *input.Avatar
	}
	if input.Description != nil {
		member.Description = *input.Description
	}
	if input.ShowPendingNotifications != nil {
		member.ShowPendingNotifications = *input.ShowPendingNotifications
	}

	if err := s.memberRepo.UpdateMember(member); err != nil {
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	return member, nil
}

func (s *MemberService) GetMember(ctx context.Context, id uint) (*domain.Member, error) {
	member, err := s.memberRepo.FindMemberByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.ErrorCodeResourceNotFound, err,
				domain.WithMsg("member not found"))
		}
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	return member, nil
}

// GetMemberByUsername resolves a member by their unique username.
func (s *MemberService) GetMemberByUsername(ctx context.Context, username string) (*domain.Member, error) {
	member, err := s.memberRepo.FindMemberByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.ErrorCodeResourceNotFound, err,
				domain.WithMsg("member not found"))
		}
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	return member, nil
}

func (s *MemberService) ListMembers(ctx context.Context) ([]*domain.Member, error) {
	members, err := s.memberRepo.FindMembers()
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	return members, nil
}

// DeleteMember removes the member unless writeups still reference them.
func (s *MemberService) DeleteMember(ctx context.Context, id uint) error {
	count, err := s.writeupRepo.CountWriteupsByMember(id)
	if err != nil {
		return domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	if count > 0 {
		return domain.NewError(domain.ErrorCodeResourceConflict,
			fmt.Errorf("member %d is referenced by %d writeup(s)", id, count),
			domain.WithMsg("cannot delete a member with writeups"))
	}

	if err := s.memberRepo.DeleteMember(id); err != nil {
		return domain.NewError(domain.ErrorCodeInternalProcess, err)
	}

	s.logger(ctx).Info().Uint("member_id", id).Msg("member deleted")
	return nil
}

// TotalPointsScored sums the member's solved challenge points, zero if none.
func (s *MemberService) TotalPointsScored(ctx context.Context, id uint) (int64, error) {
	total, err := s.memberRepo.TotalPointsScored(id)
	if err != nil {
		return 0, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	return total, nil
}

// BestCategory returns the member's highest-scoring category, nil when the
// member has no solves.
func (s *MemberService) BestCategory(ctx context.Context, id uint) (*domain.ChallengeCategory, error) {
	category, err := s.memberRepo.BestCategory(id)
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	return category, nil
}
