package http

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/celutaller-api/internal/application/dto"
	"github.com/jhoicas/celutaller-api/internal/application/returncase"
	"github.com/jhoicas/celutaller-api/internal/domain"
)

// returnService operaciones de devoluciones que expone la API.
// Lo implementa *returncase.UseCase.
type returnService interface {
	Create(ctx context.Context, in dto.CreateReturnRequest) (*dto.ReturnDetailResponse, error)
	List(ctx context.Context, q dto.ReturnListQuery) ([]dto.ReturnSummaryResponse, error)
	GetDetail(ctx context.Context, id int64) (*dto.ReturnDetailResponse, error)
	Update(ctx context.Context, id int64, in dto.UpdateReturnRequest) (*dto.ReturnDetailResponse, error)
	AddMovement(ctx context.Context, id int64, in dto.MovementRequest) ([]dto.MovementResponse, error)
	AddHistoryComment(ctx context.Context, id int64, in dto.HistoryCommentRequest) ([]dto.HistoryResponse, error)
	Transition(ctx context.Context, id int64, in dto.TransitionRequest) (*dto.ReturnDetailResponse, error)
	AddAttachment(ctx context.Context, id int64, in dto.AttachmentRequest) ([]dto.AttachmentResponse, error)
	Close(ctx context.Context, id int64, in dto.CloseReturnRequest) (*dto.ReturnDetailResponse, error)
	ExportCSV(ctx context.Context, q dto.ReturnReportQuery) (string, error)
	ExportXLSX(ctx context.Context, q dto.ReturnReportQuery) ([]byte, error)
	ExportPDF(ctx context.Context, id int64) ([]byte, error)
}

// ReturnHandler maneja las peticiones HTTP de devoluciones a proveedor.
type ReturnHandler struct {
	svc returnService
}

// NewReturnHandler construye el handler.
func NewReturnHandler(svc returnService) *ReturnHandler {
	return &ReturnHandler{svc: svc}
}

// List godoc
// @Summary      Listar devoluciones
// @Description  Máximo 200, más recientes primero. alerta = 72h | 24h | overdue.
// @Tags         returns
// @Security     ApiKey
// @Produce      json
// @Param        estado  query  string  false  "Estado exacto"
// @Param        alerta  query  string  false  "Bucket de alerta SLA"
// @Param        q       query  string  false  "Código, proveedor o cliente"
// @Success      200     {array}   dto.ReturnSummaryResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/returns [get]
func (h *ReturnHandler) List(c *fiber.Ctx) error {
	var q dto.ReturnListQuery
	if err := c.QueryParser(&q); err != nil {
		return writeError(c, domain.NewValidationError("query", "parámetros inválidos"))
	}
	out, err := h.svc.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar devolución
// @Tags         returns
// @Security     ApiKey
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReturnRequest  true  "Devolución y primer movimiento"
// @Success      201   {object}  dto.ReturnDetailResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/returns [post]
func (h *ReturnHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Detalle de devolución
// @Tags         returns
// @Security     ApiKey
// @Produce      json
// @Param        id   path  int  true  "ID de la devolución"
// @Success      200  {object}  dto.ReturnDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/returns/{id} [get]
func (h *ReturnHandler) GetByID(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.svc.GetDetail(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar datos descriptivos
// @Tags         returns
// @Security     ApiKey
// @Accept       json
// @Produce      json
// @Param        id    path  int                      true  "ID de la devolución"
// @Param        body  body  dto.UpdateReturnRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ReturnDetailResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/returns/{id} [patch]
func (h *ReturnHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddMovement godoc
// @Summary      Registrar movimiento de custodia
// @Tags         returns
// @Security     ApiKey
// @Accept       json
// @Produce      json
// @Param        id    path  int                  true  "ID de la devolución"
// @Param        body  body  dto.MovementRequest  true  "Movimiento"
// @Success      201   {array}   dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/movimientos [post]
func (h *ReturnHandler) AddMovement(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.AddMovement(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AddHistory godoc
// @Summary      Agregar comentario al historial
// @Tags         returns
// @Security     ApiKey
// @Accept       json
// @Produce      json
// @Param        id    path  int                        true  "ID de la devolución"
// @Param        body  body  dto.HistoryCommentRequest  true  "Comentario"
// @Success      201   {array}   dto.HistoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/historial [post]
func (h *ReturnHandler) AddHistory(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.HistoryCommentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.AddHistoryComment(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Transition godoc
// @Summary      Cambiar estado
// @Description  entregada_proveedor exige slaProveedor si la devolución no tiene uno.
// @Tags         returns
// @Security     ApiKey
// @Accept       json
// @Produce      json
// @Param        id    path  int                    true  "ID de la devolución"
// @Param        body  body  dto.TransitionRequest  true  "Estado destino"
// @Success      200   {object}  dto.ReturnDetailResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/estado [post]
func (h *ReturnHandler) Transition(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.Transition(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddAttachment godoc
// @Summary      Agregar adjunto
// @Tags         returns
// @Security     ApiKey
// @Accept       json
// @Produce      json
// @Param        id    path  int                    true  "ID de la devolución"
// @Param        body  body  dto.AttachmentRequest  true  "Adjunto"
// @Success      201   {array}   dto.AttachmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/adjuntos [post]
func (h *ReturnHandler) AddAttachment(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.AttachmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.AddAttachment(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Close godoc
// @Summary      Cerrar devolución
// @Description  Requiere ajusteStock=true y un movimiento entrega_final.
// @Tags         returns
// @Security     ApiKey
// @Accept       json
// @Produce      json
// @Param        id    path  int                     true  "ID de la devolución"
// @Param        body  body  dto.CloseReturnRequest  true  "Datos de cierre"
// @Success      200   {object}  dto.ReturnDetailResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/cerrar [post]
func (h *ReturnHandler) Close(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.CloseReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.Close(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar reporte de devoluciones
// @Description  CSV por defecto; formato=xlsx para hoja de cálculo. desde/hasta filtran por fecha de creación (YYYY-MM-DD o RFC3339).
// @Tags         returns
// @Security     ApiKey
// @Produce      text/csv
// @Param        estado   query  string  false  "Estado exacto"
// @Param        desde    query  string  false  "Creadas desde"
// @Param        hasta    query  string  false  "Creadas hasta"
// @Param        formato  query  string  false  "csv | xlsx"
// @Param        charset  query  string  false  "utf-8 | windows-1252 (CSV)"
// @Success      200      {string}  string
// @Failure      400      {object}  dto.ErrorResponse
// @Router       /api/returns/report/export [get]
func (h *ReturnHandler) Export(c *fiber.Ctx) error {
	var q dto.ReturnReportQuery
	if err := c.QueryParser(&q); err != nil {
		return writeError(c, domain.NewValidationError("query", "parámetros inválidos"))
	}
	var err error
	if q.From, err = parseDateParam(c.Query("desde"), false); err != nil {
		return writeError(c, domain.NewValidationError("desde", "fecha inválida"))
	}
	if q.To, err = parseDateParam(c.Query("hasta"), true); err != nil {
		return writeError(c, domain.NewValidationError("hasta", "fecha inválida"))
	}

	switch strings.ToLower(q.Format) {
	case "", "csv":
		charset := strings.ToLower(q.Charset)
		if charset != "" && charset != "utf-8" && charset != "windows-1252" {
			return writeError(c, domain.NewValidationError("charset", "debe ser uno de: utf-8 windows-1252"))
		}
		out, err := h.svc.ExportCSV(c.UserContext(), q)
		if err != nil {
			return writeError(c, err)
		}
		c.Attachment("devoluciones.csv")
		if charset == "windows-1252" {
			b, err := returncase.EncodeWindows1252(out)
			if err != nil {
				return writeError(c, err)
			}
			c.Set(fiber.HeaderContentType, "text/csv; charset=windows-1252")
			return c.Send(b)
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		return c.SendString(out)
	case "xlsx":
		out, err := h.svc.ExportXLSX(c.UserContext(), q)
		if err != nil {
			return writeError(c, err)
		}
		c.Attachment("devoluciones.xlsx")
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		return c.Send(out)
	default:
		return writeError(c, domain.NewValidationError("formato", "debe ser uno de: csv xlsx"))
	}
}

// PDF godoc
// @Summary      Acta de devolución en PDF
// @Tags         returns
// @Security     ApiKey
// @Produce      application/pdf
// @Param        id   path  int  true  "ID de la devolución"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/pdf [get]
func (h *ReturnHandler) PDF(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.svc.ExportPDF(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment(fmt.Sprintf("devolucion-%d.pdf", id))
	return c.Send(out)
}

// parseDateParam acepta YYYY-MM-DD o RFC3339. Para el extremo superior una
// fecha sin hora cubre el día completo.
func parseDateParam(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
