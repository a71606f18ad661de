package repository

import (
	"github.com/ctfpad/backend/src/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChallengeFileRepository struct {
	db *gorm.DB
}

func NewChallengeFileRepository(db *gorm.DB) *ChallengeFileRepository {
	return &ChallengeFileRepository{db: db}
}

func (r *ChallengeFileRepository) CreateFile(file *domain.ChallengeFile) error {
	return r.db.Create(file).Error
}

func (r *ChallengeFileRepository) FindFileByID(id uuid.UUID) (*domain.ChallengeFile, error) {
	var file domain.ChallengeFile
	if err := r.db.Where("id = ?", id).First(&file).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *ChallengeFileRepository) FindFilesByChallenge(challengeID uuid.UUID) ([]*domain.ChallengeFile, error) {
	var files []*domain.ChallengeFile
	err := r.db.Where("challenge_id = ?", challengeID).
		Order("creation_time ASC").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *ChallengeFileRepository) UpdateFile(file *domain.ChallengeFile) error {
	return r.db.Save(file).Error
}

func (r *ChallengeFileRepository) DeleteFile(id uuid.UUID) error {
	return r.db.Delete(&domain.ChallengeFile{}, "id = ?", id).Error
}
