package usecase

import (
	"context"
	"strings"

	"github.com/arjunvir/vastra/internal/domain"
)

type CatalogUC struct {
	Products   domain.ProductRepo
	Categories domain.CategoryRepo
}

func (uc *CatalogUC) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	if f.PageSize == 0 {
		f.PageSize = 12
	}
	return uc.Products.List(ctx, f)
}

func (uc *CatalogUC) Featured(ctx context.Context, limit int) ([]domain.Product, error) {
	t := true
	list, _, err := uc.Products.List(ctx, domain.ProductFilter{Featured: &t, Page: 1, PageSize: limit})
	return list, err
}

func (uc *CatalogUC) NewArrivals(ctx context.Context, limit int) ([]domain.Product, error) {
	return uc.Products.NewArrivals(ctx, limit)
}

func (uc *CatalogUC) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.Products.FindBySlug(ctx, slug)
}

func (uc *CatalogUC) CategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.Categories.FindBySlug(ctx, slug)
}

func (uc *CatalogUC) AllCategories(ctx context.Context) ([]domain.Category, error) {
	return uc.Categories.All(ctx)
}

func (uc *CatalogUC) CategoriesWithCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	return uc.Categories.ListWithCounts(ctx)
}
