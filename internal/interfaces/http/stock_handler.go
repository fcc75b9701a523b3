package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/stock"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// StockHandler maneja las peticiones HTTP del libro de stock (personal).
type StockHandler struct {
	ledger *stock.LedgerUseCase
	query  *stock.QueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *stock.LedgerUseCase, query *stock.QueryUseCase) *StockHandler {
	return &StockHandler{ledger: ledger, query: query}
}

// Initialize godoc
// @Summary      Inicializar stock de un producto (personal)
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetStockRequest  true  "product_id, quantity"
// @Success      201   {object}  dto.StockView
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/initialize [post]
func (h *StockHandler) Initialize(c *fiber.Ctx) error {
	var in dto.SetStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Kind == "" {
		in.Kind = entity.ChangeKindManual
	}
	view, err := h.ledger.SetQuantity(c.Context(), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// Update godoc
// @Summary      Fijar cantidad de stock (personal)
// @Description  Escritura absoluta con registro en el historial. kind: morning, evening o manual.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetStockRequest  true  "product_id, quantity, kind opcional"
// @Success      200   {object}  dto.StockView
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/update [put]
func (h *StockHandler) Update(c *fiber.Ctx) error {
	var in dto.SetStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	view, err := h.ledger.SetQuantity(c.Context(), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// BulkUpdate godoc
// @Summary      Fijar stock en lote (personal)
// @Description  Conteos programados de mañana/tarde. Se aplica en orden y se
//
//	detiene en el primer error, devolviendo lo ya aplicado.
//
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkSetStockRequest  true  "kind, updates"
// @Success      200   {array}   dto.StockView
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/bulk-update [put]
func (h *StockHandler) BulkUpdate(c *fiber.Ctx) error {
	var in dto.BulkSetStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	views, err := h.ledger.BulkSetQuantity(c.Context(), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"updated": views})
}

// CheckAvailability godoc
// @Summary      Verificar disponibilidad de stock
// @Description  Consulta informativa; la verificación vinculante ocurre al crear el pedido.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckAvailabilityRequest  true  "items"
// @Success      200   {array}   dto.AvailabilityItemView
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/check-availability [post]
func (h *StockHandler) CheckAvailability(c *fiber.Ctx) error {
	var in dto.CheckAvailabilityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	views, err := h.ledger.CheckAvailability(c.Context(), in.Items)
	if err != nil {
		return respondError(c, err)
	}
	allAvailable := true
	for _, v := range views {
		if !v.Sufficient {
			allAvailable = false
			break
		}
	}
	return c.JSON(fiber.Map{"all_available": allAvailable, "items": views})
}

// List godoc
// @Summary      Listar stock (personal)
// @Tags         stock
// @Produce      json
// @Param        limit   query  int  false  "Límite de página"
// @Param        offset  query  int  false  "Offset de página"
// @Success      200  {array}  dto.StockWithProductView
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	list, err := h.query.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"stock": list,
		"page":  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(list)},
	})
}

// GetByProduct godoc
// @Summary      Stock actual de un producto
// @Tags         stock
// @Produce      json
// @Param        productId  path  int  true  "ID del producto"
// @Success      200  {object}  dto.StockView
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/product/{productId} [get]
func (h *StockHandler) GetByProduct(c *fiber.Ctx) error {
	productID, err := parseID(c, "productId")
	if err != nil {
		return respondError(c, err)
	}
	quantity, err := h.ledger.GetQuantity(c.Context(), productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"product_id": productID, "quantity": quantity})
}

// History godoc
// @Summary      Historial de cambios de stock de un producto (personal)
// @Tags         stock
// @Produce      json
// @Param        productId  path   int  true   "ID del producto"
// @Param        limit      query  int  false  "Límite de página"
// @Param        offset     query  int  false  "Offset de página"
// @Success      200  {array}  dto.StockChangeView
// @Router       /api/stock/product/{productId}/history [get]
func (h *StockHandler) History(c *fiber.Ctx) error {
	productID, err := parseID(c, "productId")
	if err != nil {
		return respondError(c, err)
	}
	page := pageFromQuery(c)
	list, err := h.ledger.History(c.Context(), productID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"history": list,
		"page":    dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(list)},
	})
}

// LowStock godoc
// @Summary      Productos con stock bajo (personal)
// @Tags         stock
// @Produce      json
// @Param        threshold  query  int  false  "Umbral (por defecto 10)"
// @Success      200  {array}  dto.StockWithProductView
// @Router       /api/stock/low-stock [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	threshold := int64(c.QueryInt("threshold"))
	if threshold <= 0 {
		threshold = stock.DefaultLowStockThreshold
	}
	list, err := h.query.LowStock(c.Context(), threshold)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"threshold": threshold, "items": list})
}

// Statistics godoc
// @Summary      Estadísticas de stock (personal)
// @Tags         stock
// @Produce      json
// @Success      200  {object}  dto.StockStatsResponse
// @Router       /api/stock/statistics [get]
func (h *StockHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.query.Statistics(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
