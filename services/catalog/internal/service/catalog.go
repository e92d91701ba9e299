package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/product_catalog/pkg/events"
	"github.com/Skotchmaster/product_catalog/pkg/logging"
	"github.com/Skotchmaster/product_catalog/pkg/validation"
	"github.com/Skotchmaster/product_catalog/services/catalog/internal/models"
	"github.com/Skotchmaster/product_catalog/services/catalog/internal/repo"
	"github.com/Skotchmaster/product_catalog/services/catalog/internal/transport"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("product not found")
)

var validate = validation.New()

const eventTimeout = 5 * time.Second

// Indexer mirrors products into an external search engine.
type Indexer interface {
	Index(ctx context.Context, p models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, q string) ([]models.Product, error)
}

type CatalogService struct {
	Repo repo.Repository
	// Searcher is optional. Search uses Repo when the searcher errors and
	// for good once an index update was missed.
	Searcher Indexer
	Events   events.Publisher
	Now      func() time.Time

	stale atomic.Bool
}

type ProductEvent struct {
	Type      string    `json:"type"`
	ProductID string    `json:"product_id"`
	Name      string    `json:"name,omitempty"`
	Category  string    `json:"category,omitempty"`
	Price     float64   `json:"price,omitempty"`
	At        time.Time `json:"at"`
}

func (s *CatalogService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func checkProduct(p *models.Product) error {
	if err := validate.Validate(p); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func (s *CatalogService) Create(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create")

	if req.Price == nil {
		return nil, fmt.Errorf("%w: price: required", ErrValidation)
	}

	now := s.now()
	p := &models.Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    strings.TrimSpace(req.Category),
		Price:       *req.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Rating != nil {
		p.Rating = *req.Rating
	}
	if err := checkProduct(p); err != nil {
		l.Warn("create_product_error", "status", 400, "error", err)
		return nil, err
	}

	if err := s.Repo.Create(ctx, p); err != nil {
		l.Error("create_product_error", "status", 500, "reason", "cannot store product", "error", err)
		return nil, err
	}

	s.index(ctx, *p)
	s.publish(ctx, "product_created", p)

	l.Info("create_product_success", "product_id", p.ID.String())
	return p, nil
}

func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// Update merges the non-nil fields of req into the stored product.
func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, req transport.UpdateProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.update")

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Category != nil {
		p.Category = strings.TrimSpace(*req.Category)
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Rating != nil {
		p.Rating = *req.Rating
	}
	if err := checkProduct(p); err != nil {
		l.Warn("update_product_error", "status", 400, "product_id", id.String(), "error", err)
		return nil, err
	}
	p.UpdatedAt = s.now()

	if err := s.Repo.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		l.Error("update_product_error", "status", 500, "reason", "cannot store product", "error", err)
		return nil, err
	}

	s.index(ctx, *p)
	s.publish(ctx, "product_updated", p)

	l.Info("update_product_success", "product_id", id.String())
	return p, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "catalog.delete")

	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		l.Error("delete_product_error", "status", 500, "error", err)
		return err
	}

	if s.Searcher != nil {
		if err := s.Searcher.Delete(ctx, id); err != nil {
			s.markStale(ctx, "search_delete_error", id, err)
		}
	}
	s.publish(ctx, "product_deleted", &models.Product{ID: id})

	l.Info("delete_product_success", "product_id", id.String())
	return nil
}

func (s *CatalogService) Filter(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	f.Category = strings.TrimSpace(f.Category)
	return s.Repo.Filter(ctx, f)
}

func (s *CatalogService) Search(ctx context.Context, q string) ([]models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []models.Product{}, nil
	}

	if s.Searcher != nil && !s.stale.Load() {
		items, err := s.Searcher.Search(ctx, q)
		if err == nil {
			return items, nil
		}
		logging.FromContext(ctx).Warn("search_fallback", "reason", "search engine failed, using repository", "error", err)
	}
	return s.Repo.Search(ctx, q)
}

func (s *CatalogService) index(ctx context.Context, p models.Product) {
	if s.Searcher == nil {
		return
	}
	if err := s.Searcher.Index(ctx, p); err != nil {
		s.markStale(ctx, "search_index_error", p.ID, err)
	}
}

// markStale routes every later search to Repo until restart, since the
// index no longer mirrors the store.
func (s *CatalogService) markStale(ctx context.Context, event string, id uuid.UUID, err error) {
	s.stale.Store(true)
	logging.FromContext(ctx).Error(event, "product_id", id.String(), "reason", "search index is stale, searching the store instead", "error", err)
}

func (s *CatalogService) publish(ctx context.Context, typ string, p *models.Product) {
	if s.Events == nil {
		return
	}
	ev := ProductEvent{
		Type:      typ,
		ProductID: p.ID.String(),
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price,
		At:        s.now(),
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventTimeout)
	defer cancel()
	if err := s.Events.Publish(pubCtx, ev.ProductID, ev); err != nil {
		logging.FromContext(ctx).Warn("product_event_error", "type", typ, "error", err)
	}
}
