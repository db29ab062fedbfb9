package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// InventoryHandler maneja las posiciones y el libro de movimientos (protegido).
type InventoryHandler struct {
	uc *inventory.StockControlUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.StockControlUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// InitiateStock godoc
// @Summary      Iniciar stock de un producto
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InitiateStockRequest  true  "product_id, quantity, unit_price"
// @Success      201   {object}  dto.StockPositionResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *InventoryHandler) InitiateStock(c *fiber.Ctx) error {
	var in dto.InitiateStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.InitiateStockFromRequest(c.UserContext(), GetLogin(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListPositions godoc
// @Summary      Listar posiciones de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo de filas (por defecto 100, máximo 500)"
// @Success      200  {array}  dto.PositionViewResponse
// @Router       /api/stock [get]
func (h *InventoryHandler) ListPositions(c *fiber.Ctx) error {
	var q dto.ListQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	list, err := h.uc.ListPositionsView(c.UserContext(), q.Limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// GetPosition godoc
// @Summary      Posición de stock de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  int  true  "ID del producto"
// @Success      200  {object}  dto.StockPositionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{product_id} [get]
func (h *InventoryHandler) GetPosition(c *fiber.Ctx) error {
	id, ok, err := paramID(c, "product_id")
	if !ok {
		return err
	}
	pos, err := h.uc.GetPosition(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	if pos == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "Produto não encontrado"})
	}
	return c.JSON(inventory.ToPositionResponse(pos))
}

// ApplyMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  quantity positiva es entrada, negativa es salida. Reemplaza el precio unitario de la posición.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyMovementRequest  true  "product_id, document, quantity, unit_price, freight_price"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *InventoryHandler) ApplyMovement(c *fiber.Ctx) error {
	var in dto.ApplyMovementRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.ApplyMovementFromRequest(c.UserContext(), GetLogin(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        limit       query  int     false  "Máximo de filas (por defecto 100, máximo 500)"
// @Param        direction   query  string  false  "in | out"
// @Param        product_id  query  int     false  "Filtrar por producto"
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/stock/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	return h.listMovements(c, q)
}

// ListEntries godoc
// @Summary      Listar entradas
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo de filas"
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/stock/movements/in [get]
func (h *InventoryHandler) ListEntries(c *fiber.Ctx) error {
	return h.listDirection(c, entity.DirectionIn)
}

// ListExits godoc
// @Summary      Listar salidas
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo de filas"
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/stock/movements/out [get]
func (h *InventoryHandler) ListExits(c *fiber.Ctx) error {
	return h.listDirection(c, entity.DirectionOut)
}

func (h *InventoryHandler) listDirection(c *fiber.Ctx, dir entity.MovementDirection) error {
	var q dto.ListQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	return h.listMovements(c, dto.MovementListQuery{Limit: q.Limit, Direction: string(dir)})
}

func (h *InventoryHandler) listMovements(c *fiber.Ctx, q dto.MovementListQuery) error {
	list, err := h.uc.ListMovementsView(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}
