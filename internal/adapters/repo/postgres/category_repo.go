package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunvir/vastra/internal/domain"
)

type CategoryRepo struct{ db *gorm.DB }

func NewCategoryRepo(db *gorm.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) Save(ctx context.Context, c *domain.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CategoryRepo) All(ctx context.Context) ([]domain.Category, error) {
	var list []domain.Category
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CategoryRepo) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var c domain.Category
	if err := r.db.WithContext(ctx).First(&c, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListWithCounts computes available-product counts with one grouped query
// instead of walking a lazy relation per category.
func (r *CategoryRepo) ListWithCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	cats, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	type row struct {
		CategoryID uuid.UUID
		N          int64
	}
	var rows []row
	err = r.db.WithContext(ctx).Model(&domain.Product{}).
		Select("category_id, COUNT(*) as n").
		Where("available = ?", true).
		Group("category_id").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int64, len(rows))
	for _, w := range rows {
		counts[w.CategoryID] = w.N
	}
	out := make([]domain.CategoryCount, 0, len(cats))
	for _, c := range cats {
		out = append(out, domain.CategoryCount{Category: c, ProductCount: counts[c.ID]})
	}
	return out, nil
}
