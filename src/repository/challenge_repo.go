package repository

import (
	"github.com/ctfpad/backend/src/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChallengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

func (r *ChallengeRepository) CreateChallenge(challenge *domain.Challenge) error {
	return r.db.Create(challenge).Error
}

func (r *ChallengeRepository) FindChallengeByID(id uuid.UUID) (*domain.Challenge, error) {
	var challenge domain.Challenge
	if err := r.db.Preload("Category").Where("id = ?", id).First(&challenge).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *ChallengeRepository) FindChallengesByCtf(ctfID uuid.UUID) ([]*domain.Challenge, error) {
	var challenges []*domain.Challenge
	err := r.db.Preload("Category").
		Where("ctf_id = ?", ctfID).
		Order("creation_time ASC").
		Find(&challenges).Error
	if err != nil {
		return nil, err
	}
	return challenges, nil
}

// UpdateChallenge persists the row's own columns only. Rows loaded through
// the finders carry a preloaded Category; letting Save upsert that
// association would rewrite category_id from the stale struct, which turns
// clearing the category into a no-op.
func (r *ChallengeRepository) UpdateChallenge(challenge *domain.Challenge) error {
	return r.db.Omit(clause.Associations).Save(challenge).Error
}

func (r *ChallengeRepository) DeleteChallenge(id uuid.UUID) error {
	return r.db.Delete(&domain.Challenge{}, "id = ?", id).Error
}
