package service

import (
	"context"
	"errors"

	"github.com/ctfpad/backend/src/domain"
	"github.com/ctfpad/backend/src/repository"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type CategoryService struct {
	categoryRepo *repository.CategoryRepository
}

func NewCategoryService(categoryRepo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

func (s *CategoryService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("component", "category-service").Logger()
	return &l
}

func (s *CategoryService) CreateCategory(ctx context.Context, name string) (*domain.ChallengeCategory, error) {
	category := &domain.ChallengeCategory{Name: name}

	if err := s.categoryRepo.CreateCategory(category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			opts := []domain.ErrorOption{domain.WithMsg("category already exists")}
			// Point the caller at the existing row.
			if existing, findErr := s.categoryRepo.FindCategoryByName(name); findErr == nil {
				opts = append(opts, domain.WithDetail("categoryId", existing.ID))
			}
			return nil, domain.NewError(domain.ErrorCodeResourceConflict, err, opts...)
		}
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}

	s.logger(ctx).Info().Uint("category_id", category.ID).Str("name", name).Msg("category created")
	return category, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*domain.ChallengeCategory, error) {
	category, err := s.categoryRepo.FindCategoryByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.ErrorCodeResourceNotFound, err,
				domain.WithMsg("category not found"))
		}
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	return category, nil
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]*domain.ChallengeCategory, error) {
	categories, err := s.categoryRepo.FindCategories()
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	return categories, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	if err := s.categoryRepo.DeleteCategory(id); err != nil {
		return domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	return nil
}
