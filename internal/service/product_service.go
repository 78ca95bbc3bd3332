package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DTOs

type CreateProductRequest struct {
	Name              string          `json:"name" binding:"required"`
	Category          string          `json:"category"`
	SKU               string          `json:"sku" binding:"required"`
	BuyPrice          decimal.Decimal `json:"buy_price" binding:"required"`
	SellPrice         decimal.Decimal `json:"sell_price" binding:"required"`
	Stock             *int            `json:"stock"`
	LowStockThreshold *int            `json:"low_stock_threshold"`
}

// UpdateProductRequest carries only the fields the caller wants changed;
// nil pointers leave the stored value untouched (PATCH and PUT share it).
type UpdateProductRequest struct {
	Name              *string          `json:"name"`
	Category          *string          `json:"category"`
	SKU               *string          `json:"sku"`
	BuyPrice          *decimal.Decimal `json:"buy_price"`
	SellPrice         *decimal.Decimal `json:"sell_price"`
	Stock             *int             `json:"stock"`
	LowStockThreshold *int             `json:"low_stock_threshold"`
}

type ProductResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Category          string `json:"category"`
	SKU               string `json:"sku"`
	BuyPrice          string `json:"buy_price"`
	SellPrice         string `json:"sell_price"`
	Stock             int    `json:"stock"`
	LowStockThreshold int    `json:"low_stock_threshold"`
	IsLowStock        bool   `json:"is_low_stock"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

type ProductService interface {
	ListProducts(ctx context.Context, page, limit int, search string) ([]ProductResponse, int64, error)
	GetProduct(ctx context.Context, id string) (ProductResponse, error)
	CreateProduct(ctx context.Context, req CreateProductRequest) (ProductResponse, error)
	UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (ProductResponse, error)
	DeleteProduct(ctx context.Context, id string) error
}

type productService struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

func NewProductService(productRepo repository.ProductRepository, orderRepo repository.OrderRepository) ProductService {
	return &productService{productRepo: productRepo, orderRepo: orderRepo}
}

func toProductResponse(p *model.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID.String(),
		Name:              p.Name,
		Category:          p.Category,
		SKU:               p.SKU,
		BuyPrice:          p.BuyPrice.StringFixed(2),
		SellPrice:         p.SellPrice.StringFixed(2),
		Stock:             p.Stock,
		LowStockThreshold: p.LowStockThreshold,
		IsLowStock:        p.IsLowStock(),
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         p.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *productService) ListProducts(ctx context.Context, page, limit int, search string) ([]ProductResponse, int64, error) {
	products, total, err := s.productRepo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	res := make([]ProductResponse, 0, len(products))
	for i := range products {
		res = append(res, toProductResponse(&products[i]))
	}
	return res, total, nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return ProductResponse{}, err
	}
	return toProductResponse(product), nil
}

func (s *productService) CreateProduct(ctx context.Context, req CreateProductRequest) (ProductResponse, error) {
	stock := 0
	if req.Stock != nil {
		stock = *req.Stock
	}
	threshold := 10
	if req.LowStockThreshold != nil {
		threshold = *req.LowStockThreshold
	}
	if stock < 0 {
		return ProductResponse{}, &apperror.ValidationError{Field: "stock", Message: "must not be negative"}
	}
	if threshold < 0 {
		return ProductResponse{}, &apperror.ValidationError{Field: "low_stock_threshold", Message: "must not be negative"}
	}

	if existing, err := s.productRepo.FindBySKU(ctx, req.SKU); err == nil && existing != nil {
		return ProductResponse{}, &apperror.ValidationError{Field: "sku", Message: "already in use"}
	}

	product := model.Product{
		Name:              req.Name,
		Category:          req.Category,
		SKU:               req.SKU,
		BuyPrice:          req.BuyPrice,
		SellPrice:         req.SellPrice,
		Stock:             stock,
		LowStockThreshold: threshold,
	}
	if err := s.productRepo.Create(ctx, &product); err != nil {
		return ProductResponse{}, fmt.Errorf("failed to create product: %w", err)
	}
	return toProductResponse(&product), nil
}

func (s *productService) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return ProductResponse{}, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.SKU != nil {
		product.SKU = *req.SKU
	}
	if req.BuyPrice != nil {
		product.BuyPrice = *req.BuyPrice
	}
	if req.SellPrice != nil {
		product.SellPrice = *req.SellPrice
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return ProductResponse{}, &apperror.ValidationError{Field: "stock", Message: "must not be negative"}
		}
		product.Stock = *req.Stock
	}
	if req.LowStockThreshold != nil {
		if *req.LowStockThreshold < 0 {
			return ProductResponse{}, &apperror.ValidationError{Field: "low_stock_threshold", Message: "must not be negative"}
		}
		product.LowStockThreshold = *req.LowStockThreshold
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return ProductResponse{}, fmt.Errorf("failed to update product: %w", err)
	}
	return toProductResponse(product), nil
}

// DeleteProduct refuses to remove a product that any order line still
// references; order history keeps its price snapshots intact.
func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return err
	}

	referenced, err := s.orderRepo.HasItemsForProduct(ctx, product.ID)
	if err != nil {
		return fmt.Errorf("failed to check order references: %w", err)
	}
	if referenced {
		return &apperror.ReferencedEntityError{Entity: "product", ID: product.ID.String(), ReferencedBy: "order items"}
	}

	if err := s.productRepo.Delete(ctx, product.ID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (s *productService) findProduct(ctx context.Context, id string) (*model.Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, &apperror.NotFoundError{Entity: "product", ID: id}
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperror.NotFoundError{Entity: "product", ID: id}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return product, nil
}
