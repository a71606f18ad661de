package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctfpad/backend/src/domain"
	"github.com/ctfpad/backend/src/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type ChallengeFileService struct {
	fileRepo      *repository.ChallengeFileRepository
	challengeRepo *repository.ChallengeRepository
	root          string
}

// NewChallengeFileService stores uploaded blobs under root, creating it on
// demand.
func NewChallengeFileService(fileRepo *repository.ChallengeFileRepository, challengeRepo *repository.ChallengeRepository, root string) *ChallengeFileService {
	return &ChallengeFileService{
		fileRepo:      fileRepo,
		challengeRepo: challengeRepo,
		root:          root,
	}
}

func (s *ChallengeFileService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("component", "challenge-file-service").Logger()
	return &l
}

// FilePath returns the on-disk location of a stored file.
func (s *ChallengeFileService) FilePath(file *domain.ChallengeFile) string {
	return filepath.Join(s.root, file.FileName)
}

// AttachFile stores the uploaded blob, commits the row, then enriches it
// with mime/type/hash if the blob landed on disk.
func (s *ChallengeFileService) AttachFile(ctx context.Context, challengeID uuid.UUID, name string, src io.Reader, size int64) (*domain.ChallengeFile, error) {
	if size > domain.ChallengeFileMaxSize {
		return nil, domain.NewError(domain.ErrorCodeParameterInvalid,
			fmt.Errorf("file size %d exceeds limit %d", size, domain.ChallengeFileMaxSize),
			domain.WithMsg("file too large"))
	}

	if _, err := s.challengeRepo.FindChallengeByID(challengeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.ErrorCodeResourceNotFound, err,
				domain.WithMsg("challenge not found"))
		}
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}

	id := uuid.New()
	storedName := fmt.Sprintf("%s_%s", id, sanitizeFileName(name))

	if err := s.storeBlob(storedName, src); err != nil {
		if errors.Is(err, errBlobTooLarge) {
			return nil, domain.NewError(domain.ErrorCodeParameterInvalid, err,
				domain.WithMsg("file too large"))
		}
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}

	file := &domain.ChallengeFile{
		ID:          id,
		FileName:    storedName,
		ChallengeID: challengeID,
	}
	if err := s.fileRepo.CreateFile(file); err != nil {
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}

	if err := s.enrich(ctx, file); err != nil {
		return nil, err
	}

	s.logger(ctx).Info().
		Str("file_id", file.ID.String()).
		Str("challenge_id", challengeID.String()).
		Str("name", file.Name()).
		Msg("challenge file attached")
	return file, nil
}

// RefreshFileInfo re-runs enrichment for a stored row, filling in any field
// that could not be computed earlier because the blob was not on disk yet.
// Fields already populated are left alone for good.
func (s *ChallengeFileService) RefreshFileInfo(ctx context.Context, id uuid.UUID) (*domain.ChallengeFile, error) {
	file, err := s.fileRepo.FindFileByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.ErrorCodeResourceNotFound, err,
				domain.WithMsg("file not found"))
		}
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}

	if err := s.enrich(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

func (s *ChallengeFileService) ListFilesByChallenge(ctx context.Context, challengeID uuid.UUID) ([]*domain.ChallengeFile, error) {
	files, err := s.fileRepo.FindFilesByChallenge(challengeID)
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	return files, nil
}

func (s *ChallengeFileService) DeleteFile(ctx context.Context, id uuid.UUID) error {
	file, err := s.fileRepo.FindFileByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewError(domain.ErrorCodeResourceNotFound, err,
				domain.WithMsg("file not found"))
		}
		return domain.NewError(domain.ErrorCodeInternalProcess, err)
	}

	if err := s.fileRepo.DeleteFile(id); err != nil {
		return domain.NewError(domain.ErrorCodeInternalProcess, err)
	}

	if err := os.Remove(s.FilePath(file)); err != nil && !os.IsNotExist(err) {
		s.logger(ctx).Warn().Err(err).Str("file_id", id.String()).Msg("failed to remove blob from storage")
	}
	return nil
}

// enrich computes mime, type description and sha256 for fields not yet
// populated, but only when the blob is readable on storage. The row is
// rewritten only if something was computed.
func (s *ChallengeFileService) enrich(ctx context.Context, file *domain.ChallengeFile) error {
	if file.Enriched() {
		return nil
	}

	path := s.FilePath(file)
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	updated := false
	if file.Mime == "" {
		file.Mime = FileMime(path)
		updated = true
	}
	if file.Type == "" {
		file.Type = FileDescription(path)
		updated = true
	}
	if file.Hash == "" {
		hash, err := hashFileSHA256(path)
		if err != nil {
			s.logger(ctx).Warn().Err(err).Str("file_id", file.ID.String()).Msg("failed to hash file")
		} else {
			file.Hash = hash
			updated = true
		}
	}

	if !updated {
		return nil
	}
	if err := s.fileRepo.UpdateFile(file); err != nil {
		return domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	return nil
}

var errBlobTooLarge = errors.New("blob exceeds size limit")

// storeBlob writes the stream to storage. Reading one byte past the limit
// distinguishes an oversized stream from one that is exactly at it; an
// oversized upload is rejected and the partial blob removed, never silently
// truncated.
func (s *ChallengeFileService) storeBlob(storedName string, src io.Reader) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("failed to create upload root: %w", err)
	}

	path := filepath.Join(s.root, storedName)
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(src, domain.ChallengeFileMaxSize+1))
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if written > domain.ChallengeFileMaxSize {
		dst.Close()
		_ = os.Remove(path)
		return errBlobTooLarge
	}
	return nil
}

func hashFileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func sanitizeFileName(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, "..", "")
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "upload"
	}
	return base
}
