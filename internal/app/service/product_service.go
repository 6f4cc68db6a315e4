package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"minimarket/internal/common"
	"minimarket/internal/domain/model"
	"minimarket/internal/domain/policy"
	"minimarket/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/redis/go-redis/v9"
)

const maxProductNameLen = 100

type ProductService struct {
	productRepo repository.ProductRepository
	cache       *redis.Client // nil disables caching
	cacheTTL    time.Duration
}

func NewProductService(productRepo repository.ProductRepository, cache *redis.Client, cacheTTL time.Duration) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
	}
}

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// UpdateProductRequest carries partial updates. Nil fields (absent or null
// in the JSON body) leave the stored value untouched.
type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

// Create stores a new product owned by ownerID. The owner always comes from
// the authenticated caller, never from the request body.
func (s *ProductService) Create(ctx context.Context, ownerID string, req CreateProductRequest) (*model.Product, error) {
	if ownerID == "" {
		return nil, common.ErrForbidden
	}
	if err := validateName(req.Name); err != nil {
		return nil, err
	}
	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}

	product := &model.Product{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        req.Name,
		Slug:        slug.Make(req.Name),
		Description: req.Description,
		Price:       req.Price,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// List is public. ownerID, when non-empty, narrows the result to one owner.
func (s *ProductService) List(ctx context.Context, limit, offset int, ownerID string) ([]model.Product, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.productRepo.List(ctx, repository.ProductFilter{
		OwnerID: ownerID,
		Limit:   limit,
		Offset:  offset,
	})
}

// Get is public. Reads go through the Redis cache when one is configured;
// cache trouble falls back to the store and never fails the request.
func (s *ProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, common.ErrNotFound
	}

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, productCacheKey(id)).Bytes(); err == nil {
			product := &model.Product{}
			if err := json.Unmarshal(data, product); err == nil {
				return product, nil
			}
		}
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, product)
	return product, nil
}

// Update loads, authorizes, then merges only the provided fields. The
// NotFound check always precedes the ownership check.
func (s *ProductService) Update(ctx context.Context, id, callerID string, req UpdateProductRequest) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := policy.AuthorizeMutation(product.OwnerID, callerID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			return nil, err
		}
		product.Name = *req.Name
		product.Slug = slug.Make(*req.Name)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return nil, err
		}
		product.Price = *req.Price
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.cacheInvalidate(ctx, id)
	return product, nil
}

// Delete removes a product after the same load-then-authorize sequence as
// Update.
func (s *ProductService) Delete(ctx context.Context, id, callerID string) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := policy.AuthorizeMutation(product.OwnerID, callerID); err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.cacheInvalidate(ctx, id)
	return nil
}

func (s *ProductService) cacheSet(ctx context.Context, product *model.Product) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, productCacheKey(product.ID), data, s.cacheTTL).Err(); err != nil {
		log.Printf("product cache set failed: %v", err)
	}
}

func (s *ProductService) cacheInvalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, productCacheKey(id)).Err(); err != nil {
		log.Printf("product cache invalidate failed: %v", err)
	}
}

func productCacheKey(id string) string {
	return "product:" + id
}

func validateName(name string) error {
	if name == "" || len(name) > maxProductNameLen {
		return fmt.Errorf("product name must be 1-%d characters: %w", maxProductNameLen, common.ErrInvalidInput)
	}
	return nil
}

func validatePrice(price float64) error {
	if price <= 0 {
		return fmt.Errorf("product price must be positive: %w", common.ErrInvalidInput)
	}
	return nil
}
