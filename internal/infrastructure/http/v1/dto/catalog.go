package dto

import (
	"retailpos/internal/core/types"
)

// --- Brand ---

type CreateBrandRequest struct {
	Name    string `json:"name" binding:"required"`
	Country string `json:"country"`
}

type UpdateBrandRequest struct {
	Name    *string `json:"name"`
	Country *string `json:"country"`
	Version int     `json:"version" binding:"required,min=1"`
}

// --- Model ---

type CreateModelRequest struct {
	BrandID     int64  `json:"brandId" binding:"required"`
	Name        string `json:"name" binding:"required"`
	NameAr      string `json:"nameAr"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type UpdateModelRequest struct {
	BrandID     *int64  `json:"brandId"`
	Name        *string `json:"name"`
	NameAr      *string `json:"nameAr"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Version     int     `json:"version" binding:"required,min=1"`
}

// --- Variant ---

type CreateVariantRequest struct {
	ModelID   int64       `json:"modelId" binding:"required"`
	Color     string      `json:"color"`
	Size      string      `json:"size"`
	SKU       string      `json:"sku" binding:"required"`
	Barcode   string      `json:"barcode"`
	SalePrice types.Money `json:"salePrice"`
	CostPrice types.Money `json:"costPrice"`
	MinStock  *int64      `json:"minStock"`
}

type UpdateVariantRequest struct {
	ModelID   *int64       `json:"modelId"`
	Color     *string      `json:"color"`
	Size      *string      `json:"size"`
	SKU       *string      `json:"sku"`
	Barcode   *string      `json:"barcode"`
	SalePrice *types.Money `json:"salePrice"`
	MinStock  *int64       `json:"minStock"`
	Version   int          `json:"version" binding:"required,min=1"`
}

// --- Customer ---

type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
	Version int     `json:"version" binding:"required,min=1"`
}

// --- Supplier ---

type CreateSupplierRequest struct {
	Name          string `json:"name" binding:"required"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	ContactPerson string `json:"contactPerson"`
	Address       string `json:"address"`
	Notes         string `json:"notes"`
}

type UpdateSupplierRequest struct {
	Name          *string `json:"name"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	ContactPerson *string `json:"contactPerson"`
	Address       *string `json:"address"`
	Notes         *string `json:"notes"`
	Version       int     `json:"version" binding:"required,min=1"`
}
