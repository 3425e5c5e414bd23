package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// CreateProductInput is the request to register a product
type CreateProductInput struct {
	SKU           string  `json:"sku" binding:"required,max=50"`
	Name          string  `json:"name" binding:"required,max=200"`
	CostPrice     float64 `json:"cost_price" binding:"min=0"`
	SellingPrice  float64 `json:"selling_price" binding:"min=0"`
	InitialStock  int64   `json:"initial_stock" binding:"min=0"`
	MinStockLevel int64   `json:"min_stock_level" binding:"min=0"`
}

// UpdateProductInput is the request to change product details. Stock is never
// touched here; stock moves only through sales, order completion and manual
// adjustment.
type UpdateProductInput struct {
	Name          string  `json:"name" binding:"required,max=200"`
	CostPrice     float64 `json:"cost_price" binding:"min=0"`
	SellingPrice  float64 `json:"selling_price" binding:"min=0"`
	MinStockLevel int64   `json:"min_stock_level" binding:"min=0"`
}

// ProductDTO is the product response
type ProductDTO struct {
	ID            string    `json:"id"`
	SKU           string    `json:"sku"`
	Name          string    `json:"name"`
	CostPrice     string    `json:"cost_price"`
	SellingPrice  string    `json:"selling_price"`
	StockQuantity int64     `json:"stock_quantity"`
	MinStockLevel int64     `json:"min_stock_level"`
	BelowMinimum  bool      `json:"below_minimum"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProductListDTO is the paginated list response
type ProductListDTO struct {
	Products []ProductDTO `json:"products"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	Limit    int          `json:"limit"`
}

func toProductDTO(p *catalog.Product) ProductDTO {
	return ProductDTO{
		ID:            p.ID.String(),
		SKU:           p.SKU,
		Name:          p.Name,
		CostPrice:     p.CostPrice.String(),
		SellingPrice:  p.SellingPrice.String(),
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		BelowMinimum:  p.IsBelowMinimum(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ProductService handles catalog maintenance
type ProductService struct {
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewProductService creates a product service
func NewProductService(productRepo catalog.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{productRepo: productRepo, logger: logger}
}

// CreateProduct registers a product with an optional opening stock level
func (s *ProductService) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	exists, err := s.productRepo.ExistsBySKU(ctx, input.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("SKU_EXISTS", "A product with this SKU already exists")
	}

	product, err := catalog.NewProduct(input.SKU, input.Name,
		valueobject.NewMoneyUSDFromFloat(input.CostPrice),
		valueobject.NewMoneyUSDFromFloat(input.SellingPrice))
	if err != nil {
		return nil, err
	}
	if input.InitialStock > 0 {
		if err := product.SetStock(input.InitialStock); err != nil {
			return nil, err
		}
	}
	if input.MinStockLevel > 0 {
		if err := product.SetMinStockLevel(input.MinStockLevel); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
	)

	dto := toProductDTO(product)
	return &dto, nil
}

// UpdateProduct changes details of an existing product
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*ProductDTO, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ID", "Invalid product ID")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := product.UpdateDetails(input.Name,
		valueobject.NewMoneyUSDFromFloat(input.CostPrice),
		valueobject.NewMoneyUSDFromFloat(input.SellingPrice)); err != nil {
		return nil, err
	}
	if err := product.SetMinStockLevel(input.MinStockLevel); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	dto := toProductDTO(product)
	return &dto, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id string) (*ProductDTO, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ID", "Invalid product ID")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	dto := toProductDTO(product)
	return &dto, nil
}

// GetProductBySKU retrieves a product by SKU
func (s *ProductService) GetProductBySKU(ctx context.Context, sku string) (*ProductDTO, error) {
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}

	product, err := s.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}

	dto := toProductDTO(product)
	return &dto, nil
}

// ListProducts retrieves products with pagination
func (s *ProductService) ListProducts(ctx context.Context, page, limit int) (*ProductListDTO, error) {
	filter := shared.NewFilter(page, limit)

	found, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	list := &ProductListDTO{
		Products: make([]ProductDTO, 0, len(found)),
		Total:    total,
		Page:     filter.Page,
		Limit:    filter.PageSize,
	}
	for idx := range found {
		list.Products = append(list.Products, toProductDTO(&found[idx]))
	}
	return list, nil
}

// ListProductsBelowMinimum retrieves products whose stock fell under their
// minimum level
func (s *ProductService) ListProductsBelowMinimum(ctx context.Context) ([]ProductDTO, error) {
	found, err := s.productRepo.FindBelowMinimum(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}

	dtos := make([]ProductDTO, 0, len(found))
	for idx := range found {
		dtos = append(dtos, toProductDTO(&found[idx]))
	}
	return dtos, nil
}

// DeleteProduct removes a product from the catalog
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	productID, err := uuid.Parse(id)
	if err != nil {
		return shared.NewDomainError("INVALID_ID", "Invalid product ID")
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return err
	}

	s.logger.Info("Product deleted", zap.String("product_id", id))
	return nil
}
