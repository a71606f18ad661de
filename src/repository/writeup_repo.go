package repository

import (
	"github.com/ctfpad/backend/src/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WriteupRepository struct {
	db *gorm.DB
}

func NewWriteupRepository(db *gorm.DB) *WriteupRepository {
	return &WriteupRepository{db: db}
}

func (r *WriteupRepository) CreateWriteup(writeup *domain.ChallengeWriteup) error {
	return r.db.Create(writeup).Error
}

func (r *WriteupRepository) FindWriteupByID(id uint) (*domain.ChallengeWriteup, error) {
	var writeup domain.ChallengeWriteup
	if err := r.db.Where("id = ?", id).First(&writeup).Error; err != nil {
		return nil, err
	}
	return &writeup, nil
}

func (r *WriteupRepository) FindWriteupsByChallenge(challengeID uuid.UUID) ([]*domain.ChallengeWriteup, error) {
	var writeups []*domain.ChallengeWriteup
	err := r.db.Where("challenge_id = ?", challengeID).
		Order("creation_time ASC").
		Find(&writeups).Error
	if err != nil {
		return nil, err
	}
	return writeups, nil
}

func (r *WriteupRepository) DeleteWriteup(id uint) error {
	return r.db.Delete(&domain.ChallengeWriteup{}, id).Error
}

// CountWriteupsByMember counts writeups added by the member. Member deletion
// is blocked while this is non-zero.
func (r *WriteupRepository) CountWriteupsByMember(memberID uint) (int64, error) {
	var count int64
	err := r.db.Model(&domain.ChallengeWriteup{}).
		Where("added_by_id = ?", memberID).
		Count(&count).Error
	return count, err
}

// CountWriteupsByCtf counts writeups attached to any challenge of the
// competition. Ctf deletion is blocked while this is non-zero.
func (r *WriteupRepository) CountWriteupsByCtf(ctfID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&domain.ChallengeWriteup{}).
		Joins("JOIN challenges ON challenges.id = challenge_writeups.challenge_id").
		Where("challenges.ctf_id = ?", ctfID).
		Count(&count).Error
	return count, err
}
