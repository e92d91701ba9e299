package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/product_catalog/services/catalog/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Create(ctx context.Context, p *models.Product) error {
	if err := r.DB.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *GormRepo) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (r *GormRepo) Update(ctx context.Context, p *models.Product) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"name":        p.Name,
			"description": p.Description,
			"category":    p.Category,
			"price":       p.Price,
			"rating":      p.Rating,
			"updated_at":  p.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return fmt.Errorf("delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) Filter(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.MinRating != nil {
		q = q.Where("rating >= ?", *f.MinRating)
	}

	items := make([]models.Product, 0)
	if err := q.Order("created_at ASC, id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("filter products: %w", err)
	}
	return items, nil
}

// Search matches q as a case-insensitive literal substring of name or
// description.
func (r *GormRepo) Search(ctx context.Context, q string) ([]models.Product, error) {
	items := make([]models.Product, 0)
	if strings.TrimSpace(q) == "" {
		return items, nil
	}
	if r.DB.Dialector.Name() == sqliteDialect {
		return r.searchFolded(ctx, q)
	}

	pattern := containsPattern(q)
	err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return items, nil
}

const sqliteDialect = "sqlite"

// searchFolded matches in Go because sqlite LOWER only folds ASCII.
func (r *GormRepo) searchFolded(ctx context.Context, q string) ([]models.Product, error) {
	var all []models.Product
	if err := r.DB.WithContext(ctx).Order("created_at ASC, id ASC").Find(&all).Error; err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	needle := strings.ToLower(q)
	items := make([]models.Product, 0)
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), needle) || strings.Contains(strings.ToLower(p.Description), needle) {
			items = append(items, p)
		}
	}
	return items, nil
}
