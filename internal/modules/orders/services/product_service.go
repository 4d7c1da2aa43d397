package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/internal/modules/orders/models"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/repositories"
)

// ProductService manages the catalog: base prices, variants and the
// ingredient costing used for margin display.
type ProductService struct {
	productRepo repositories.ProductRepo
}

func NewProductService(productRepo repositories.ProductRepo) *ProductService {
	return &ProductService{productRepo: productRepo}
}

func (s *ProductService) CreateProduct(businessID uuid.UUID, req *models.CreateProductRequest) (*models.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.New("product name is required")
	}
	if req.Price < 0 {
		return nil, errors.New("product price cannot be negative")
	}
	for _, v := range req.Variants {
		if strings.TrimSpace(v.Name) == "" {
			return nil, errors.New("variant name is required")
		}
		if v.Price < 0 {
			return nil, fmt.Errorf("variant %s price cannot be negative", v.Name)
		}
	}

	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}

	product := &models.Product{
		BusinessID:  businessID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Variants:    req.Variants,
		Ingredients: req.Ingredients,
		ImageURL:    req.ImageURL,
		IsAvailable: isAvailable,
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	log.Printf("✅ Product created: %s (%.2f)", product.Name, product.Price)
	return product, nil
}

func (s *ProductService) GetProduct(businessID uuid.UUID, id string) (*models.Product, error) {
	return s.productRepo.GetByID(businessID, id)
}

func (s *ProductService) ListProducts(filter repositories.ProductFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

func (s *ProductService) UpdateProduct(businessID uuid.UUID, id string, req *models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.productRepo.GetByID(businessID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, errors.New("product name cannot be empty")
		}
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, errors.New("product price cannot be negative")
		}
		product.Price = *req.Price
	}
	if req.Variants != nil {
		product.Variants = *req.Variants
	}
	if req.Ingredients != nil {
		product.Ingredients = *req.Ingredients
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(businessID uuid.UUID, id string) error {
	return s.productRepo.Delete(businessID, id)
}
