package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"dailymate/internal/model"
)

// CategoryRepository manages task categories.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Upsert inserts or replaces the category. A name that belongs to another
// category yields ErrDuplicateName.
func (r *CategoryRepository) Upsert(ctx context.Context, category *model.Category) error {
	if err := upsert(r.db.WithContext(ctx), category); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("upsert category %q: %w", category.Name, ErrDuplicateName)
		}
		return fmt.Errorf("upsert category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) UpsertAll(ctx context.Context, categories []model.Category) error {
	if len(categories) == 0 {
		return nil
	}
	if err := upsertInBatches(r.db.WithContext(ctx), categories); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("upsert categories: %w", ErrDuplicateName)
		}
		return fmt.Errorf("upsert categories: %w", err)
	}
	return nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	categories := []model.Category{}
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// FindByID returns nil without error when the category does not exist.
func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	switch {
	case err == nil:
		return &category, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find category: %w", err)
	}
}

func (r *CategoryRepository) DeleteByID(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Category{}).Error; err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) DeleteAll(ctx context.Context) error {
	err := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Category{}).Error
	if err != nil {
		return fmt.Errorf("delete categories: %w", err)
	}
	return nil
}
