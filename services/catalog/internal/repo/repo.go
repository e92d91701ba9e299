package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/product_catalog/services/catalog/internal/models"
)

var ErrNotFound = errors.New("product not found")

// Repository lists in created_at, id order.
type Repository interface {
	Create(ctx context.Context, p *models.Product) error
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Filter(ctx context.Context, f models.ProductFilter) ([]models.Product, error)
	Search(ctx context.Context, q string) ([]models.Product, error)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
}
