package service

import (
	"context"
	"errors"

	"github.com/ctfpad/backend/src/domain"
	"github.com/ctfpad/backend/src/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type WriteupService struct {
	writeupRepo *repository.WriteupRepository
}

func NewWriteupService(writeupRepo *repository.WriteupRepository) *WriteupService {
	return &WriteupService{writeupRepo: writeupRepo}
}

func (s *WriteupService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("component", "writeup-service").Logger()
	return &l
}

func (s *WriteupService) AddWriteup(ctx context.Context, challengeID uuid.UUID, addedByID uint, url string) (*domain.ChallengeWriteup, error) {
	writeup := &domain.ChallengeWriteup{
		URL:         url,
		AddedByID:   addedByID,
		ChallengeID: challengeID,
	}

	if err := s.writeupRepo.CreateWriteup(writeup); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, domain.NewError(domain.ErrorCodeParameterInvalid, err,
				domain.WithMsg("challenge or member does not exist"))
		}
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}

	s.logger(ctx).Info().
		Uint("writeup_id", writeup.ID).
		Str("challenge_id", challengeID.String()).
		Msg("writeup added")
	return writeup, nil
}

func (s *WriteupService) ListWriteupsByChallenge(ctx context.Context, challengeID uuid.UUID) ([]*domain.ChallengeWriteup, error) {
	writeups, err := s.writeupRepo.FindWriteupsByChallenge(challengeID)
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	return writeups, nil
}

func (s *WriteupService) DeleteWriteup(ctx context.Context, id uint) error {
	if _, err := s.writeupRepo.FindWriteupByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewError(domain.ErrorCodeResourceNotFound, err,
				domain.WithMsg("writeup not found"))
		}
		return domain.NewError(domain.ErrorCodeInternalProcess, err)
	}

	if err := s.writeupRepo.DeleteWriteup(id); err != nil {
		return domain.NewError(domain.ErrorCodeInternalProcess, err)
	}

	s.logger(ctx).Info().Uint("writeup_id", id).Msg("writeup deleted")
	return nil
}
