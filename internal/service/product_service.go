package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/product-service/internal/domain"
	"github.com/spec-kit/product-service/internal/events"
	"github.com/spec-kit/product-service/internal/repository"
	apperrors "github.com/spec-kit/product-service/pkg/util"
)

// ProductCache is a read-through cache over product lookups.
type ProductCache interface {
	Get(ctx context.Context, id string) (*domain.Product, bool)
	Set(ctx context.Context, product *domain.Product)
	Invalidate(ctx context.Context, id string)
}

// ProductService coordinates catalog operations.
type ProductService struct {
	products   repository.ProductRepository
	cache      ProductCache
	dispatcher events.Dispatcher
}

// NewProductService builds the service. Cache and dispatcher may be nil.
func NewProductService(products repository.ProductRepository, cache ProductCache, dispatcher events.Dispatcher) *ProductService {
	return &ProductService{products: products, cache: cache, dispatcher: dispatcher}
}

// ProductInput carries create/update fields.
type ProductInput struct {
	Name        string
	Description *string
	Price       *float64
}

// Create adds a product, rejecting duplicate names.
func (s *ProductService) Create(ctx context.Context, actor string, input ProductInput) (*domain.Product, error) {
	if _, err := s.products.GetByName(ctx, input.Name); err == nil {
		return nil, apperrors.NewConflict("product name must be unique", map[string]any{"name": input.Name})
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	product := &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.publish(ctx, actor, events.EventProductCreated, product)
	return product, nil
}

// Get returns a product by id, consulting the cache first.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	if s.cache != nil {
		if product, ok := s.cache.Get(ctx, id); ok {
			return product, nil
		}
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("product", map[string]any{"id": id})
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, product)
	}
	return product, nil
}

// List returns all products ordered by name.
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

// Update modifies a product and drops it from the cache.
func (s *ProductService) Update(ctx context.Context, actor, id string, input ProductInput) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("product", map[string]any{"id": id})
		}
		return nil, err
	}

	if input.Name != "" && input.Name != product.Name {
		if existing, err := s.products.GetByName(ctx, input.Name); err == nil && existing.ID != id {
			return nil, apperrors.NewConflict("product name must be unique", map[string]any{"name": input.Name})
		} else if err != nil && err != pgx.ErrNoRows {
			return nil, err
		}
		product.Name = input.Name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Price != nil {
		product.Price = input.Price
	}

	if err := s.products.Update(ctx, product); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("product", map[string]any{"id": id})
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
	s.publish(ctx, actor, events.EventProductUpdated, product)
	return product, nil
}

// Delete removes a product and drops it from the cache.
func (s *ProductService) Delete(ctx context.Context, actor, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("product", map[string]any{"id": id})
		}
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
	s.publish(ctx, actor, events.EventProductDeleted, events.ProductChangedPayload{ProductID: id})
	return nil
}

func (s *ProductService) publish(ctx context.Context, actor string, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	body := payload
	if product, ok := payload.(*domain.Product); ok {
		body = events.ProductChangedPayload{ProductID: product.ID, Name: product.Name}
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload:   body,
	})
}
