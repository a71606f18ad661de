package repository

import (
	"github.com/ctfpad/backend/src/domain"
	"gorm.io/gorm"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) CreateMember(member *domain.Member) error {
	return r.db.Create(member).Error
}

func (r *MemberRepository) FindMemberByID(id uint) (*domain.Member, error) {
	var member domain.Member
	if err := r.db.Where("id = ?", id).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *MemberRepository) FindMemberByUsername(username string) (*domain.Member, error) {
	var member domain.Member
	if err := r.db.Where("username = ?", username).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *MemberRepository) FindMembers() ([]*domain.Member, error) {
	var members []*domain.Member
	if err := r.db.Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *MemberRepository) UpdateMember(member *domain.Member) error {
	return r.db.Save(member).Error
}

func (r *MemberRepository) DeleteMember(id uint) error {
	return r.db.Delete(&domain.Member{}, id).Error
}

// TotalPointsScored sums the points of every challenge this member solved.
func (r *MemberRepository) TotalPointsScored(memberID uint) (int64, error) {
	var total int64
	err := r.db.Model(&domain.Challenge{}).
		Where("solver_id = ?", memberID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error
	return total, err
}

// BestCategory returns the category with the highest summed points among the
// member's solves. Equal totals are broken by the lowest category ID so the
// result never depends on storage ordering. Returns nil without error when
// the member has no categorized solves.
func (r *MemberRepository) BestCategory(memberID uint) (*domain.ChallengeCategory, error) {
	var row struct {
		CategoryID uint
		Total      int64
	}
	result := r.db.Model(&domain.Challenge{}).
		Select("category_id, SUM(points) AS total").
		Where("solver_id = ? AND category_id IS NOT NULL", memberID).
		Group("category_id").
		Order("total DESC, category_id ASC").
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	var category domain.ChallengeCategory
	if err := r.db.Where("id = ?", row.CategoryID).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}
