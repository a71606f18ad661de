package repository

import (
	"github.com/ctfpad/backend/src/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CtfRepository struct {
	db *gorm.DB
}

func NewCtfRepository(db *gorm.DB) *CtfRepository {
	return &CtfRepository{db: db}
}

func (r *CtfRepository) CreateCtf(ctf *domain.Ctf) error {
	return r.db.Create(ctf).Error
}

func (r *CtfRepository) FindCtfByID(id uuid.UUID) (*domain.Ctf, error) {
	var ctf domain.Ctf
	if err := r.db.Where("id = ?", id).First(&ctf).Error; err != nil {
		return nil, err
	}
	return &ctf, nil
}

func (r *CtfRepository) FindCtfs() ([]*domain.Ctf, error) {
	var ctfs []*domain.Ctf
	if err := r.db.Order("creation_time DESC").Find(&ctfs).Error; err != nil {
		return nil, err
	}
	return ctfs, nil
}

func (r *CtfRepository) UpdateCtf(ctf *domain.Ctf) error {
	return r.db.Save(ctf).Error
}

func (r *CtfRepository) DeleteCtf(id uuid.UUID) error {
	return r.db.Delete(&domain.Ctf{}, "id = ?", id).Error
}

// Stats gathers challenge counts and point sums for one competition in a
// single pass over its challenge rows.
func (r *CtfRepository) Stats(ctfID uuid.UUID) (domain.CtfStats, error) {
	var row struct {
		TotalChallenges  int64
		SolvedChallenges int64
		TotalPoints      int64
		ScoredPoints     int64
	}
	err := r.db.Model(&domain.Challenge{}).
		Select(
			"COUNT(*) AS total_challenges, "+
				"COUNT(*) FILTER (WHERE status = ?) AS solved_challenges, "+
				"COALESCE(SUM(points), 0) AS total_points, "+
				"COALESCE(SUM(points) FILTER (WHERE status = ?), 0) AS scored_points",
			domain.ChallengeStatusSolved, domain.ChallengeStatusSolved).
		Where("ctf_id = ?", ctfID).
		Scan(&row).Error
	if err != nil {
		return domain.CtfStats{}, err
	}
	return domain.CtfStats{
		TotalChallenges:  row.TotalChallenges,
		SolvedChallenges: row.SolvedChallenges,
		TotalPoints:      row.TotalPoints,
		ScoredPoints:     row.ScoredPoints,
	}, nil
}
