package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/willowtrellis/farmstand-api/internal/application/catalog"
	"github.com/willowtrellis/farmstand-api/internal/application/dto"
	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
)

// CatalogHandler serves the sheet-backed catalogs and their cache controls.
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler builds the handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// Products godoc
// @Summary      List in-stock produce
// @Description  Syncs the catalog with the spreadsheet (at most once per cache TTL) and returns products with quantity > 0, sorted by category.
// @Tags         catalog
// @Produce      json
// @Success      200  {array}   dto.ProductResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/products [get]
func (h *CatalogHandler) Products(c *fiber.Ctx) error {
	return h.list(c, entity.KindProduce)
}

// Seeds godoc
// @Summary      List in-stock seeds
// @Tags         catalog
// @Produce      json
// @Success      200  {array}   dto.ProductResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/seeds [get]
func (h *CatalogHandler) Seeds(c *fiber.Ctx) error {
	return h.list(c, entity.KindSeed)
}

func (h *CatalogHandler) list(c *fiber.Ctx, kind entity.CatalogKind) error {
	products, err := h.uc.ListProducts(c.Context(), kind)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.JSON(out)
}

// Revalidate godoc
// @Summary      Clear catalog caches
// @Description  The next catalog read goes to the spreadsheet. Accepts an admin token or X-Revalidate-Token.
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        kind  query  string  false  "produce or seed; all catalogs when omitted"
// @Success      200   {object}  dto.TimestampResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/revalidate [post]
func (h *CatalogHandler) Revalidate(c *fiber.Ctx) error {
	return h.clear(c, "Product cache cleared successfully")
}

// ClearCache godoc
// @Summary      Clear catalog caches
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        kind  query  string  false  "produce or seed; all catalogs when omitted"
// @Success      200   {object}  dto.TimestampResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/clear-cache [post]
func (h *CatalogHandler) ClearCache(c *fiber.Ctx) error {
	return h.clear(c, "Product cache cleared - next fetch will be fresh from Google Sheets")
}

func (h *CatalogHandler) clear(c *fiber.Ctx, msg string) error {
	var (
		err error
		out dto.TimestampResponse
	)
	if kind := c.Query("kind"); kind != "" {
		out.Timestamp, err = h.uc.ClearCache(c.Context(), entity.CatalogKind(kind))
	} else {
		out.Timestamp, err = h.uc.ClearAll(c.Context())
	}
	if err != nil {
		return respondError(c, err)
	}
	out.Message = msg
	return c.JSON(out)
}

// RefreshProducts godoc
// @Summary      Force a produce resync
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RefreshResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/products/refresh [post]
func (h *CatalogHandler) RefreshProducts(c *fiber.Ctx) error {
	return h.refresh(c, entity.KindProduce, "Product cache cleared and data refreshed from Google Sheets")
}

// RefreshSeeds godoc
// @Summary      Force a seeds resync
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RefreshResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/seeds/refresh [post]
func (h *CatalogHandler) RefreshSeeds(c *fiber.Ctx) error {
	return h.refresh(c, entity.KindSeed, "Seed cache cleared and data refreshed from Google Sheets")
}

func (h *CatalogHandler) refresh(c *fiber.Ctx, kind entity.CatalogKind, msg string) error {
	count, at, err := h.uc.Refresh(c.Context(), kind)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.RefreshResponse{Success: true, Message: msg, ProductCount: count, Timestamp: at})
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:                   p.ID,
		Name:                 p.Name,
		ImageURL:             p.ImageURL,
		Price:                p.Price,
		Quantity:             p.Quantity,
		Category:             p.Category,
		Description:          p.Description,
		PlantingInstructions: p.PlantingInstructions,
	}
}
