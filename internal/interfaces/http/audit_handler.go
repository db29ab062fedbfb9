package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
)

// AuditHandler consulta de la bitácora (protegido).
type AuditHandler struct {
	uc *usecase.AuditUseCase
}

func NewAuditHandler(uc *usecase.AuditUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Últimas entradas de auditoría
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo de filas (por defecto 100, máximo 500)"
// @Success      200  {array}  dto.AuditEntryResponse
// @Router       /api/audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var q dto.ListQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	list, err := h.uc.List(c.UserContext(), q.Limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}
