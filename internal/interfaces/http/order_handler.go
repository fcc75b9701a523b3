package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/orders"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// OrderHandler maneja las peticiones HTTP de pedidos.
type OrderHandler struct {
	lifecycle *orders.LifecycleUseCase
	query     *orders.QueryUseCase
	receipt   *orders.ReceiptUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(lifecycle *orders.LifecycleUseCase, query *orders.QueryUseCase, receipt *orders.ReceiptUseCase) *OrderHandler {
	return &OrderHandler{lifecycle: lifecycle, query: query, receipt: receipt}
}

// Create godoc
// @Summary      Crear pedido
// @Description  Crea un pedido descontando stock de forma atómica. Si falta stock
//
//	de algún producto no se crea nada. Después de la hora de corte hay que
//	confirmar con force_after_cutoff.
//
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "delivery_slot, items; delivery_date y force_after_cutoff opcionales"
// @Success      201   {object}  dto.OrderView
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	view, err := h.lifecycle.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// GetByID godoc
// @Summary      Obtener pedido por ID
// @Tags         orders
// @Produce      json
// @Param        id  path  int  true  "ID del pedido"
// @Success      200  {object}  dto.OrderView
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	view, err := h.query.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	// Un cliente solo puede ver sus propios pedidos.
	if !IsStaff(c) && view.UserID != GetUserID(c) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el pedido pertenece a otro usuario"})
	}
	return c.JSON(view)
}

// GetByNumber godoc
// @Summary      Obtener pedido por número
// @Tags         orders
// @Produce      json
// @Param        number  path  string  true  "Número de pedido (EA-...)"
// @Success      200  {object}  dto.OrderView
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/number/{number} [get]
func (h *OrderHandler) GetByNumber(c *fiber.Ctx) error {
	view, err := h.query.GetByNumber(c.Context(), c.Params("number"))
	if err != nil {
		return respondError(c, err)
	}
	if !IsStaff(c) && view.UserID != GetUserID(c) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el pedido pertenece a otro usuario"})
	}
	return c.JSON(view)
}

// ListByUser godoc
// @Summary      Listar pedidos de un usuario
// @Tags         orders
// @Produce      json
// @Param        userId  path   int  true   "ID del usuario"
// @Param        limit   query  int  false  "Límite de página"
// @Param        offset  query  int  false  "Offset de página"
// @Success      200  {array}   dto.OrderView
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/orders/user/{userId} [get]
func (h *OrderHandler) ListByUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}
	if !IsStaff(c) && userID != GetUserID(c) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo puedes listar tus propios pedidos"})
	}
	page := pageFromQuery(c)
	list, err := h.query.ListByUser(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"orders": list,
		"page":   dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(list)},
	})
}

// ListAll godoc
// @Summary      Listar todos los pedidos (personal)
// @Tags         orders
// @Produce      json
// @Param        limit   query  int  false  "Límite de página"
// @Param        offset  query  int  false  "Offset de página"
// @Success      200  {array}   dto.OrderSummary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) ListAll(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	list, err := h.query.ListAll(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"orders": list,
		"page":   dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(list)},
	})
}

// ListByStatus godoc
// @Summary      Listar pedidos por estado (personal)
// @Tags         orders
// @Produce      json
// @Param        status  path   string  true   "Estado del pedido"
// @Param        limit   query  int     false  "Límite de página"
// @Param        offset  query  int     false  "Offset de página"
// @Success      200  {array}   dto.OrderSummary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/orders/status/{status} [get]
func (h *OrderHandler) ListByStatus(c *fiber.Ctx) error {
	status := c.Params("status")
	if !entity.IsValidOrderStatus(status) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "estado desconocido"})
	}
	page := pageFromQuery(c)
	list, err := h.query.ListByStatus(c.Context(), status, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"orders": list,
		"page":   dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(list)},
	})
}

// Statistics godoc
// @Summary      Estadísticas de pedidos (personal)
// @Description  Totales por estado e ingreso acumulado. El ingreso excluye pedidos cancelados.
// @Tags         orders
// @Produce      json
// @Success      200  {object}  dto.OrderStatsResponse
// @Router       /api/orders/statistics [get]
func (h *OrderHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.query.Statistics(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// DeliverySlots godoc
// @Summary      Franjas de entrega disponibles
// @Tags         orders
// @Produce      json
// @Success      200  {array}  dto.DeliverySlotView
// @Router       /api/orders/delivery-slots [get]
func (h *OrderHandler) DeliverySlots(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"slots": h.query.DeliverySlots()})
}

// UpdateStatus godoc
// @Summary      Avanzar estado de un pedido (personal)
// @Description  Solo transiciones válidas del flujo de entrega. Para cancelar usar /cancel.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path  int                          true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderStatusRequest true  "status destino"
// @Success      200   {object}  dto.OrderView
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	view, err := h.lifecycle.UpdateStatus(c.Context(), id, in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// Cancel godoc
// @Summary      Cancelar pedido
// @Description  Devuelve el stock reservado. Cancelar un pedido ya cancelado es
//
//	idempotente; un pedido entregado no se puede cancelar.
//
// @Tags         orders
// @Produce      json
// @Param        id  path  int  true  "ID del pedido"
// @Success      200  {object}  dto.OrderView
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [put]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	// Un cliente solo puede cancelar sus propios pedidos.
	if !IsStaff(c) {
		existing, err := h.query.GetByID(c.Context(), id)
		if err != nil {
			return respondError(c, err)
		}
		if existing.UserID != GetUserID(c) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el pedido pertenece a otro usuario"})
		}
	}
	view, err := h.lifecycle.Cancel(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// Receipt godoc
// @Summary      Comprobante PDF del pedido
// @Tags         orders
// @Produce      application/pdf
// @Param        id  path  int  true  "ID del pedido"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if !IsStaff(c) {
		existing, err := h.query.GetByID(c.Context(), id)
		if err != nil {
			return respondError(c, err)
		}
		if existing.UserID != GetUserID(c) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el pedido pertenece a otro usuario"})
		}
	}
	pdfBytes, err := h.receipt.Generate(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="pedido.pdf"`)
	return c.Send(pdfBytes)
}

// parseID lee un parámetro de ruta numérico positivo.
func parseID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidInput
	}
	return id, nil
}

// pageFromQuery lee limit/offset del query string con valores por defecto.
func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	}
	page.DefaultPage()
	return page
}
