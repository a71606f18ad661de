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

type TeamService struct {
	teamRepo *repository.TeamRepository
}

func NewTeamService(teamRepo *repository.TeamRepository) *TeamService {
	return &TeamService{teamRepo: teamRepo}
}

func (s *TeamService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("component", "team-service").Logger()
	return &l
}

type CreateTeamInput struct {
	Name       string
	Email      string
	TwitterURL string
	GithubURL  string
	YoutubeURL string
	BlogURL    string
	Avatar     string
}

type UpdateTeamInput struct {
	Name       *string
	Email      *string
	TwitterURL *string
	GithubURL  *string
	YoutubeURL *string
	BlogURL    *string
	Avatar     *string
}

// CreateTeam provisions a new team. The API key is generated here, once;
// nothing ever regenerates it afterwards.
func (s *TeamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*domain.Team, error) {
	team := &domain.Team{
		Name:       input.Name,
		Email:      input.Email,
		TwitterURL: input.TwitterURL,
		GithubURL:  input.GithubURL,
		YoutubeURL: input.YoutubeURL,
		BlogURL:    input.BlogURL,
		Avatar:     input.Avatar,
		APIKey:     utils.RandomString(domain.APIKeyLength),
	}

	if err := s.teamRepo.CreateTeam(team); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.NewError(domain.ErrorCodeResourceConflict, err,
				domain.WithMsg("a team with this email already exists"))
		}
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}

	s.logger(ctx).Info().Uint("team_id", team.ID).Str("name", team.Name).Msg("team created")
	return team, nil
}

// UpdateTeam applies the whitelisted fields. The API key is deliberately not
// part of the input.
func (s *TeamService) UpdateTeam(ctx context.Context, id uint, input UpdateTeamInput) (*domain.Team, error) {
	team, err := s.teamRepo.FindTeamByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.ErrorCodeResourceNotFound, err,
				domain.WithMsg("team not found"))
		}
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}

	if input.Name != nil {
		team.Name = *input.Name
	}
	if input.Email != nil {
		team.Email = *input.Email
	}
	if input.TwitterURL != nil {
		team.TwitterURL = *input.TwitterURL
	}
	if input.GithubURL != nil {
		team.GithubURL = *input.GithubURL
	}
	if input.YoutubeURL != nil {
		team.YoutubeURL = *input.YoutubeURL
	}
	if input.BlogURL != nil {
		team.BlogURL = *input.BlogURL
	}
	if input.Avatar != nil {
		team.Avatar = *input.Avatar
	}

	if err := s.teamRepo.UpdateTeam(team); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.NewError(domain.ErrorCodeResourceConflict, err,
				domain.WithMsg("a team with this email already exists"))
		}
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}

	return team, nil
}

func (s *TeamService) GetTeam(ctx context.Context, id uint) (*domain.Team, error) {
	team, err := s.teamRepo.FindTeamByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.ErrorCodeResourceNotFound, err,
				domain.WithMsg("team not found"))
		}
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	return team, nil
}

func (s *TeamService) ListTeams(ctx context.Context) ([]*domain.Team, error) {
	teams, err := s.teamRepo.FindTeams()
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	return teams, nil
}

// AuthenticateByAPIKey resolves the team owning the given API key.
func (s *TeamService) AuthenticateByAPIKey(ctx context.Context, apiKey string) (*domain.Team, error) {
	team, err := s.teamRepo.FindTeamByAPIKey(apiKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.ErrorCodeAuthNotAuthenticated, err,
				domain.WithMsg("invalid API key"))
		}
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	return team, nil
}

// DeleteTeam removes the team unless members still belong to it.
func (s *TeamService) DeleteTeam(ctx context.Context, id uint) error {
	count, err := s.teamRepo.CountMembers(id)
	if err != nil {
		return domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	if count > 0 {
		return domain.NewError(domain.ErrorCodeResourceConflict,
			fmt.Errorf("team %d still has %d member(s)", id, count),
			domain.WithMsg("cannot delete a team that still has members"))
	}

	if err := s.teamRepo.DeleteTeam(id); err != nil {
		return domain.NewError(domain.ErrorCodeInternalProcess, err)
	}

	s.logger(ctx).Info().Uint("team_id", id).Msg("team deleted")
	return nil
}
