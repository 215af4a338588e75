package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ==================== Product DTOs ====================

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	SKU             string          `json:"sku" binding:"required,min=1,max=50"`
	Name            string          `json:"name" binding:"required,min=1,max=200"`
	Description     string          `json:"description"`
	CategoryID      *uuid.UUID      `json:"category_id"`
	PurchasePrice   decimal.Decimal `json:"purchase_price"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	InitialStock    int             `json:"initial_stock" binding:"min=0"`
	MinStock        int             `json:"min_stock" binding:"min=0"`
	MaxStock        int             `json:"max_stock" binding:"min=0"`
}

// UpdateProductRequest represents a request to update product details.
// Prices change through the dedicated price endpoint.
type UpdateProductRequest struct {
	Name            string          `json:"name" binding:"required,min=1,max=200"`
	Description     string          `json:"description"`
	CategoryID      *uuid.UUID      `json:"category_id"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	MinStock        int             `json:"min_stock" binding:"min=0"`
	MaxStock        int             `json:"max_stock" binding:"min=0"`
}

// ChangePriceRequest represents a gated price change
type ChangePriceRequest struct {
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	ValidationID  *uuid.UUID      `json:"validation_id"`
}

// DeleteProductRequest represents a gated product deletion
type DeleteProductRequest struct {
	ValidationID *uuid.UUID `json:"validation_id"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search      string     `form:"search"`
	CategoryID  *uuid.UUID `form:"category_id"`
	Active      *bool      `form:"active"`
	StockStatus string     `form:"stock_status" binding:"omitempty,oneof=in_stock low_stock out_of_stock"`
	Page        int        `form:"page"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID              uuid.UUID       `json:"id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	CategoryID      *uuid.UUID      `json:"category_id,omitempty"`
	PurchasePrice   decimal.Decimal `json:"purchase_price"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	FinalPrice      decimal.Decimal `json:"final_price"`
	CurrentStock    int             `json:"current_stock"`
	MinStock        int             `json:"min_stock"`
	MaxStock        int             `json:"max_stock"`
	StockStatus     string          `json:"stock_status"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain product to a response DTO
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		Description:     p.Description,
		CategoryID:      p.CategoryID,
		PurchasePrice:   p.PurchasePrice,
		SellingPrice:    p.SellingPrice,
		DiscountPercent: p.DiscountPercent,
		TaxRate:         p.TaxRate,
		FinalPrice:      p.FinalPrice().Amount(),
		CurrentStock:    p.CurrentStock,
		MinStock:        p.MinStock,
		MaxStock:        p.MaxStock,
		StockStatus:     string(p.StockStatus()),
		Active:          p.Active,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// ==================== Category DTOs ====================

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description"`
}

// CategoryListFilter represents filter options for the category list
type CategoryListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCategoryResponse converts a domain category to a response DTO
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
