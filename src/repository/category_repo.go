package repository

import (
	"github.com/ctfpad/backend/src/domain"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) CreateCategory(category *domain.ChallengeCategory) error {
	return r.db.Create(category).Error
}

func (r *CategoryRepository) FindCategoryByID(id uint) (*domain.ChallengeCategory, error) {
	var category domain.ChallengeCategory
	if err := r.db.Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) FindCategoryByName(name string) (*domain.ChallengeCategory, error) {
	var category domain.ChallengeCategory
	if err := r.db.Where("name = ?", name).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) FindCategories() ([]*domain.ChallengeCategory, error) {
	var categories []*domain.ChallengeCategory
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) DeleteCategory(id uint) error {
	return r.db.Delete(&domain.ChallengeCategory{}, id).Error
}
