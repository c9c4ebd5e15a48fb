package handlers

import (
	"github.com/gin-gonic/gin"

	"retailpos/internal/domain/catalogs/variant"
	"retailpos/internal/domain/registers/stockledger"
	"retailpos/internal/infrastructure/http/v1/dto"
)

// VariantHandler extends the generic catalog CRUD with the search and
// stock surfaces the POS screens live on.
type VariantHandler struct {
	*CatalogHandler[*variant.Variant, dto.CreateVariantRequest, dto.UpdateVariantRequest]
	service *variant.Service
	stock   *stockledger.Service
}

func NewVariantHandler(base *BaseHandler, service *variant.Service, stock *stockledger.Service) *VariantHandler {
	return &VariantHandler{
		service: service,
		stock:   stock,
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*variant.Variant, dto.CreateVariantRequest, dto.UpdateVariantRequest]{
			Service: service.CatalogService,
			MapCreate: func(req dto.CreateVariantRequest) *variant.Variant {
				v := variant.New(req.ModelID, req.SKU)
				v.Color = req.Color
				v.Size = req.Size
				v.Barcode = req.Barcode
				v.SalePrice = req.SalePrice
				v.CostPrice = req.CostPrice
				if req.MinStock != nil {
					v.MinStock = *req.MinStock
				}
				return v
			},
			MapUpdate: func(req dto.UpdateVariantRequest, v *variant.Variant) *variant.Variant {
				if req.ModelID != nil {
					v.ModelID = *req.ModelID
				}
				applyStr(&v.Color, req.Color)
				applyStr(&v.Size, req.Size)
				applyStr(&v.SKU, req.SKU)
				applyStr(&v.Barcode, req.Barcode)
				if req.SalePrice != nil {
					v.SalePrice = *req.SalePrice
				}
				if req.MinStock != nil {
					v.MinStock = *req.MinStock
				}
				v.Version = req.Version
				return v
			},
		}),
	}
}

// Search handles GET /variants/search?q=. Resolution order is barcode,
// SKU prefix, model name.
func (h *VariantHandler) Search(c *gin.Context) {
	results, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.Error(c, err)
		return
	}
	if results == nil {
		results = []variant.SearchResult{}
	}
	h.OK(c, gin.H{"items": results})
}

// ListByModel handles GET /variants/by-model/:id.
func (h *VariantHandler) ListByModel(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}

	variants, err := h.service.ListByModel(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": variants})
}

// GetStock handles GET /variants/:id/stock.
func (h *VariantHandler) GetStock(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}

	qty, err := h.stock.GetStock(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"variantId": id, "stock": qty})
}

// StockHistory handles GET /variants/:id/moves.
func (h *VariantHandler) StockHistory(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}

	filter := stockledger.HistoryFilter{
		Limit: h.ParseIntQuery(c, "limit", 100),
	}
	moves, err := h.stock.History(c.Request.Context(), id, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": moves})
}
