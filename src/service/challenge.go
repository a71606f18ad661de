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

type ChallengeService struct {
	challengeRepo *repository.ChallengeRepository
	ctfRepo       *repository.CtfRepository
	hedgedoc      *HedgedocService
}

func NewChallengeService(challengeRepo *repository.ChallengeRepository, ctfRepo *repository.CtfRepository, hedgedoc *HedgedocService) *ChallengeService {
	return &ChallengeService{
		challengeRepo: challengeRepo,
		ctfRepo:       ctfRepo,
		hedgedoc:      hedgedoc,
	}
}

func (s *ChallengeService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("component", "challenge-service").Logger()
	return &l
}

type ChallengeInput struct {
	Name              string
	Points            int
	Description       string
	CategoryID        *uint
	NoteID            string
	CtfID             uuid.UUID
	ExcalidrawRoomID  string
	ExcalidrawRoomKey string
}

func validateExcalidrawRoom(roomID, roomKey string) error {
	if roomID != "" && !domain.ExcalidrawRoomIDPattern.MatchString(roomID) {
		return domain.NewError(domain.ErrorCodeParameterInvalid,
			fmt.Errorf("malformed excalidraw room id %q", roomID),
			domain.WithMsg("malformed excalidraw room id"))
	}
	if roomKey != "" && !domain.ExcalidrawRoomKeyPattern.MatchString(roomKey) {
		return domain.NewError(domain.ErrorCodeParameterInvalid,
			fmt.Errorf("malformed excalidraw room key %q", roomKey),
			domain.WithMsg("malformed excalidraw room key"))
	}
	return nil
}

// CreateChallenge registers a challenge under a competition. The note ID is
// assigned lazily: when the caller does not bring one, a fresh identifier is
// generated so the external note materializes on first access.
func (s *ChallengeService) CreateChallenge(ctx context.Context, input ChallengeInput) (*domain.Challenge, error) {
	if err := validateExcalidrawRoom(input.ExcalidrawRoomID, input.ExcalidrawRoomKey); err != nil {
		return nil, err
	}

	if _, err := s.ctfRepo.FindCtfByID(input.CtfID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.ErrorCodeResourceNotFound, err,
				domain.WithMsg("ctf not found"))
		}
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}

	noteID := input.NoteID
	if noteID == "" {
		noteID = s.hedgedoc.CreateNoteID()
	}

	challenge := &domain.Challenge{
		ID:                uuid.New(),
		Name:              input.Name,
		Points:            input.Points,
		Description:       input.Description,
		CategoryID:        input.CategoryID,
		NoteID:            noteID,
		CtfID:             input.CtfID,
		ExcalidrawRoomID:  input.ExcalidrawRoomID,
		ExcalidrawRoomKey: input.ExcalidrawRoomKey,
		Status:            domain.ChallengeStatusUnsolved,
	}

	if err := s.challengeRepo.CreateChallenge(challenge); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, domain.NewError(domain.ErrorCodeParameterInvalid, err,
				domain.WithMsg("category does not exist"))
		}
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}

	s.logger(ctx).Info().
		Str("challenge_id", challenge.ID.String()).
		Str("ctf_id", challenge.CtfID.String()).
		Str("name", challenge.Name).
		Msg("challenge created")
	return challenge, nil
}

// UpdateChallenge applies the whitelisted metadata fields. The flag goes
// through ApplyFlagUpdate exclusively, so plain updates can never trip the
// solve transition.
func (s *ChallengeService) UpdateChallenge(ctx context.Context, id uuid.UUID, input ChallengeInput, actorID uint) (*domain.Challenge, error) {
	if err := validateExcalidrawRoom(input.ExcalidrawRoomID, input.ExcalidrawRoomKey); err != nil {
		return nil, err
	}

	challenge, err := s.findChallenge(id)
	if err != nil {
		return nil, err
	}

	challenge.Name = input.Name
	challenge.Points = input.Points
	challenge.Description = input.Description
	challenge.CategoryID = input.CategoryID
	// The preloaded association still points at the old category.
	challenge.Category = nil
	challenge.ExcalidrawRoomID = input.ExcalidrawRoomID
	challenge.ExcalidrawRoomKey = input.ExcalidrawRoomKey
	challenge.LastUpdateByID = &actorID
	if input.NoteID != "" {
		challenge.NoteID = input.NoteID
	}
	if challenge.NoteID == "" {
		challenge.NoteID = s.hedgedoc.CreateNoteID()
	}

	if err := s.challengeRepo.UpdateChallenge(challenge); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, domain.NewError(domain.ErrorCodeParameterInvalid, err,
				domain.WithMsg("category does not exist"))
		}
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}

	// Reload so the caller sees the category as persisted.
	return s.findChallenge(id)
}

// ApplyFlagUpdate writes a new flag value for the challenge. The proposed
// value is compared against the flag as currently persisted: on any
// difference the challenge is marked solved by actor with the commit time,
// all in the same update. Writing the identical value changes nothing.
func (s *ChallengeService) ApplyFlagUpdate(ctx context.Context, id uuid.UUID, newFlag string, actorID uint) (*domain.Challenge, bool, error) {
	challenge, err := s.findChallenge(id)
	if err != nil {
		return nil, false, err
	}

	if challenge.NoteID == "" {
		challenge.NoteID = s.hedgedoc.CreateNoteID()
	}

	solved := challenge.ApplyFlagUpdate(newFlag, actorID, time.Now())

	if err := s.challengeRepo.UpdateChallenge(challenge); err != nil {
		return nil, false, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}

	if solved {
		s.logger(ctx).Info().
			Str("challenge_id", challenge.ID.String()).
			Uint("solver_id", actorID).
			Msg("challenge solved")
	}
	return challenge, solved, nil
}

func (s *ChallengeService) GetChallenge(ctx context.Context, id uuid.UUID) (*domain.Challenge, error) {
	return s.findChallenge(id)
}

func (s *ChallengeService) ListChallengesByCtf(ctx context.Context, ctfID uuid.UUID) ([]*domain.Challenge, error) {
	challenges, err := s.challengeRepo.FindChallengesByCtf(ctfID)
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	return challenges, nil
}

func (s *ChallengeService) DeleteChallenge(ctx context.Context, id uuid.UUID) error {
	if err := s.challengeRepo.DeleteChallenge(id); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return domain.NewError(domain.ErrorCodeResourceConflict, err,
				domain.WithMsg("cannot delete a challenge with writeups"))
		}
		return domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	return nil
}

func (s *ChallengeService) findChallenge(id uuid.UUID) (*domain.Challenge, error) {
	challenge, err := s.challengeRepo.FindChallengeByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.ErrorCodeResourceNotFound, err,
				domain.WithMsg("challenge not found"))
		}
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	return challenge, nil
}
