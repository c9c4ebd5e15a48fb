package handlers

import (
	"github.com/gin-gonic/gin"

	"retailpos/internal/domain/catalogs/brand"
	"retailpos/internal/domain/catalogs/customer"
	"retailpos/internal/domain/catalogs/model"
	"retailpos/internal/domain/catalogs/supplier"
	"retailpos/internal/infrastructure/http/v1/dto"
)

func applyStr(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// --- Brand ---

type BrandHandler struct {
	*CatalogHandler[*brand.Brand, dto.CreateBrandRequest, dto.UpdateBrandRequest]
}

func NewBrandHandler(base *BaseHandler, service *brand.Service) *BrandHandler {
	return &BrandHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*brand.Brand, dto.CreateBrandRequest, dto.UpdateBrandRequest]{
			Service: service.CatalogService,
			MapCreate: func(req dto.CreateBrandRequest) *brand.Brand {
				b := brand.New(req.Name)
				b.Country = req.Country
				return b
			},
			MapUpdate: func(req dto.UpdateBrandRequest, b *brand.Brand) *brand.Brand {
				applyStr(&b.Name, req.Name)
				applyStr(&b.Country, req.Country)
				b.Version = req.Version
				return b
			},
		}),
	}
}

// --- Model ---

type ModelHandler struct {
	*CatalogHandler[*model.Model, dto.CreateModelRequest, dto.UpdateModelRequest]
	service *model.Service
}

func NewModelHandler(base *BaseHandler, service *model.Service) *ModelHandler {
	return &ModelHandler{
		service: service,
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*model.Model, dto.CreateModelRequest, dto.UpdateModelRequest]{
			Service: service.CatalogService,
			MapCreate: func(req dto.CreateModelRequest) *model.Model {
				m := model.New(req.BrandID, req.Name)
				m.NameAr = req.NameAr
				m.Category = req.Category
				m.Description = req.Description
				return m
			},
			MapUpdate: func(req dto.UpdateModelRequest, m *model.Model) *model.Model {
				if req.BrandID != nil {
					m.BrandID = *req.BrandID
				}
				applyStr(&m.Name, req.Name)
				applyStr(&m.NameAr, req.NameAr)
				applyStr(&m.Category, req.Category)
				applyStr(&m.Description, req.Description)
				m.Version = req.Version
				return m
			},
		}),
	}
}

// ListByBrand handles GET /models/by-brand/:id.
func (h *ModelHandler) ListByBrand(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}

	models, err := h.service.ListByBrand(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": models})
}

// --- Customer ---

type CustomerHandler struct {
	*CatalogHandler[*customer.Customer, dto.CreateCustomerRequest, dto.UpdateCustomerRequest]
}

func NewCustomerHandler(base *BaseHandler, service *customer.Service) *CustomerHandler {
	return &CustomerHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*customer.Customer, dto.CreateCustomerRequest, dto.UpdateCustomerRequest]{
			Service: service.CatalogService,
			MapCreate: func(req dto.CreateCustomerRequest) *customer.Customer {
				cu := customer.New(req.Name)
				cu.Phone = req.Phone
				cu.Email = req.Email
				cu.Address = req.Address
				cu.Notes = req.Notes
				return cu
			},
			MapUpdate: func(req dto.UpdateCustomerRequest, cu *customer.Customer) *customer.Customer {
				applyStr(&cu.Name, req.Name)
				applyStr(&cu.Phone, req.Phone)
				applyStr(&cu.Email, req.Email)
				applyStr(&cu.Address, req.Address)
				applyStr(&cu.Notes, req.Notes)
				cu.Version = req.Version
				return cu
			},
		}),
	}
}

// --- Supplier ---

type SupplierHandler struct {
	*CatalogHandler[*supplier.Supplier, dto.CreateSupplierRequest, dto.UpdateSupplierRequest]
}

func NewSupplierHandler(base *BaseHandler, service *supplier.Service) *SupplierHandler {
	return &SupplierHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*supplier.Supplier, dto.CreateSupplierRequest, dto.UpdateSupplierRequest]{
			Service: service.CatalogService,
			MapCreate: func(req dto.CreateSupplierRequest) *supplier.Supplier {
				sp := supplier.New(req.Name)
				sp.Phone = req.Phone
				sp.Email = req.Email
				sp.ContactPerson = req.ContactPerson
				sp.Address = req.Address
				sp.Notes = req.Notes
				return sp
			},
			MapUpdate: func(req dto.UpdateSupplierRequest, sp *supplier.Supplier) *supplier.Supplier {
				applyStr(&sp.Name, req.Name)
				applyStr(&sp.Phone, req.Phone)
				applyStr(&sp.Email, req.Email)
				applyStr(&sp.ContactPerson, req.ContactPerson)
				applyStr(&sp.Address, req.Address)
				applyStr(&sp.Notes, req.Notes)
				sp.Version = req.Version
				return sp
			},
		}),
	}
}
