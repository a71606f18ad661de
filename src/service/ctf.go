package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ctfpad/backend/src/domain"
	"github.com/ctfpad/backend/src/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type CtfService struct {
	ctfRepo     *repository.CtfRepository
	writeupRepo *repository.WriteupRepository
}

func NewCtfService(ctfRepo *repository.CtfRepository, writeupRepo *repository.WriteupRepository) *CtfService {
	return &CtfService{
		ctfRepo:     ctfRepo,
		writeupRepo: writeupRepo,
	}
}

func (s *CtfService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("component", "ctf-service").Logger()
	return &l
}

type CtfInput struct {
	Name         string
	URL          string
	Description  string
	StartDate    *time.Time
	EndDate      *time.Time
	FlagPrefix   string
	TeamLogin    string
	TeamPassword string
}

func validateCtfDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return domain.NewError(domain.ErrorCodeParameterInvalid,
			fmt.Errorf("end date %s before start date %s", end, start),
			domain.WithMsg("end date must not precede start date"))
	}
	return nil
}

func (s *CtfService) CreateCtf(ctx context.Context, input CtfInput) (*domain.Ctf, error) {
	if err := validateCtfDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	ctf := &domain.Ctf{
		ID:           uuid.New(),
		Name:         input.Name,
		URL:          input.URL,
		Description:  input.Description,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		FlagPrefix:   input.FlagPrefix,
		TeamLogin:    input.TeamLogin,
		TeamPassword: input.TeamPassword,
	}

	if err := s.ctfRepo.CreateCtf(ctf); err != nil {
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}

	s.logger(ctx).Info().Str("ctf_id", ctf.ID.String()).Str("name", ctf.Name).Msg("ctf created")
	return ctf, nil
}

func (s *CtfService) UpdateCtf(ctx context.Context, id uuid.UUID, input CtfInput) (*domain.Ctf, error) {
	if err := validateCtfDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	ctf, err := s.ctfRepo.FindCtfByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.ErrorCodeResourceNotFound, err,
				domain.WithMsg("ctf not found"))
		}
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}

	ctf.Name = input.Name
	ctf.URL = input.URL
	ctf.Description = input.Description
	ctf.StartDate = input.StartDate
	ctf.EndDate = input.EndDate
	ctf.FlagPrefix = input.FlagPrefix
	ctf.TeamLogin = input.TeamLogin
	ctf.TeamPassword = input.TeamPassword

	if err := s.ctfRepo.UpdateCtf(ctf); err != nil {
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	return ctf, nil
}

func (s *CtfService) GetCtf(ctx context.Context, id uuid.UUID) (*domain.Ctf, error) {
	ctf, err := s.ctfRepo.FindCtfByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.ErrorCodeResourceNotFound, err,
				domain.WithMsg("ctf not found"))
		}
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	return ctf, nil
}

func (s *CtfService) ListCtfs(ctx context.Context) ([]*domain.Ctf, error) {
	ctfs, err := s.ctfRepo.FindCtfs()
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	return ctfs, nil
}

// Stats returns the aggregate challenge/point counters for the competition.
func (s *CtfService) Stats(ctx context.Context, id uuid.UUID) (domain.CtfStats, error) {
	stats, err := s.ctfRepo.Stats(id)
	if err != nil {
		return domain.CtfStats{}, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	return stats, nil
}

// DeleteCtf removes the competition and its challenges unless writeups still
// reference any of them.
func (s *CtfService) DeleteCtf(ctx context.Context, id uuid.UUID) error {
	count, err := s.writeupRepo.CountWriteupsByCtf(id)
	if err != nil {
		return domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	if count > 0 {
		return domain.NewError(domain.ErrorCodeResourceConflict,
			fmt.Errorf("ctf %s is referenced by %d writeup(s)", id, count),
			domain.WithMsg("cannot delete a ctf with writeups"))
	}

	if err := s.ctfRepo.DeleteCtf(id); err != nil {
		return domain.NewError(domain.ErrorCodeInternalProcess, err)
	}

	s.logger(ctx).Info().Str("ctf_id", id.String()).Msg("ctf deleted")
	return nil
}
