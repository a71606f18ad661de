package repository

import (
	"github.com/ctfpad/backend/src/domain"
	"gorm.io/gorm"
)

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) CreateTeam(team *domain.Team) error {
	return r.db.Create(team).Error
}

func (r *TeamRepository) FindTeamByID(id uint) (*domain.Team, error) {
	var team domain.Team
	if err := r.db.Where("id = ?", id).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *TeamRepository) FindTeamByAPIKey(apiKey string) (*domain.Team, error) {
	var team domain.Team
	if err := r.db.Where("api_key = ?", apiKey).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *TeamRepository) FindTeams() ([]*domain.Team, error) {
	var teams []*domain.Team
	if err := r.db.Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *TeamRepository) UpdateTeam(team *domain.Team) error {
	return r.db.Save(team).Error
}

// CountMembers reports how many members still belong to the team. Team
// deletion is blocked while this is non-zero.
func (r *TeamRepository) CountMembers(teamID uint) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Member{}).Where("team_id = ?", teamID).Count(&count).Error
	return count, err
}

func (r *TeamRepository) DeleteTeam(id uint) error {
	return r.db.Delete(&domain.Team{}, id).Error
}
