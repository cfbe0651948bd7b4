package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"dailymate/internal/live"
	"dailymate/internal/model"
	"dailymate/internal/repository"
)

// CategoryService provides helpers around categories.
type CategoryService struct {
	repo    *repository.CategoryRepository
	tracker *live.Tracker
	now     func() time.Time
}

func NewCategoryService(repo *repository.CategoryRepository, tracker *live.Tracker) *CategoryService {
	return &CategoryService{repo: repo, tracker: tracker, now: time.Now}
}

// Create adds a category. Names must be unique; a taken name yields
// repository.ErrDuplicateName.
func (s *CategoryService) Create(ctx context.Context, name string, color *int64) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	now := s.now()
	category := model.Category{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Upsert(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// Update replaces the stored category and refreshes its update time.
func (s *CategoryService) Update(ctx context.Context, category *model.Category) error {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return ErrNameRequired
	}
	existing, err := s.repo.FindByID(ctx, category.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, category.ID)
	}
	category.CreatedAt = existing.CreatedAt
	category.UpdatedAt = s.now()
	return s.repo.Upsert(ctx, category)
}

// Delete removes the category. Tasks keep their category id.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteByID(ctx, id)
}

func (s *CategoryService) Get(ctx context.Context, id string) (*model.Category, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.repo.List(ctx)
}

// Observe lists categories by name.
func (s *CategoryService) Observe() *live.Query[[]model.Category] {
	return live.NewQuery(s.tracker, s.repo.List, tableCategories)
}
