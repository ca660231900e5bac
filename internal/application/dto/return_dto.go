package dto

import (
	"encoding/json"
	"time"
)

// MovementRequest movimiento de custodia (primer movimiento o POST /api/returns/:id/movimientos).
type MovementRequest struct {
	Type        string     `json:"tipo" validate:"required,min=2"`
	DeliveredBy string     `json:"entregadoPor" validate:"required"`
	ReceivedBy  string     `json:"recibidoPor" validate:"required"`
	Date        *time.Time `json:"fecha,omitempty"` // vacío = ahora
	Notes       *string    `json:"notas,omitempty"`
}

// CreateReturnRequest body para POST /api/returns.
// Se exige exactamente uno de InventoryItemID / ProductName.
type CreateReturnRequest struct {
	InventoryItemID *int64          `json:"inventarioItemId,omitempty" validate:"omitempty,gt=0"`
	ProductName     *string         `json:"productoNombre,omitempty" validate:"omitempty,min=2"`
	SupplierID      *int64          `json:"proveedorId,omitempty" validate:"omitempty,gt=0"`
	ClientID        *int64          `json:"clienteId,omitempty" validate:"omitempty,gt=0"`
	Reason          string          `json:"motivo" validate:"required,min=3"`
	Diagnosis       *string         `json:"diagnostico,omitempty"`
	SupplierSLA     *time.Time      `json:"slaProveedor,omitempty"`
	FirstMovement   MovementRequest `json:"primerMovimiento"`
}

// UpdateReturnRequest body para PATCH /api/returns/:id. Solo campos descriptivos.
type UpdateReturnRequest struct {
	Reason      *string    `json:"motivo,omitempty" validate:"omitempty,min=3"`
	Diagnosis   *string    `json:"diagnostico,omitempty"`
	SupplierID  *int64     `json:"proveedorId,omitempty" validate:"omitempty,gt=0"`
	ClientID    *int64     `json:"clienteId,omitempty" validate:"omitempty,gt=0"`
	SupplierSLA *time.Time `json:"slaProveedor,omitempty"`
}

// HistoryCommentRequest body para POST /api/returns/:id/historial.
type HistoryCommentRequest struct {
	Comment string `json:"comentario" validate:"required,min=1"`
}

// TransitionRequest body para POST /api/returns/:id/estado.
type TransitionRequest struct {
	Status      string     `json:"estado" validate:"required"`
	Comment     string     `json:"comentario,omitempty"`
	SupplierSLA *time.Time `json:"slaProveedor,omitempty"`
}

// AttachmentRequest body para POST /api/returns/:id/adjuntos.
type AttachmentRequest struct {
	Type       string  `json:"tipo" validate:"required"`
	URL        string  `json:"url" validate:"required,url"`
	Name       *string `json:"nombre,omitempty"`
	UploadedBy string  `json:"subidoPor" validate:"required"`
}

// CloseReturnRequest body para POST /api/returns/:id/cerrar.
// StockAdjusted es puntero para distinguir "no enviado" de false.
type CloseReturnRequest struct {
	FinalResolution string  `json:"resultadoFinal" validate:"required,min=3"`
	StockAdjusted   *bool   `json:"ajusteStock" validate:"required"`
	AdjustmentNotes *string `json:"ajusteNotas,omitempty"`
	ClosedBy        string  `json:"cerradaPor" validate:"required"`
}

// ReturnListQuery filtros de GET /api/returns.
type ReturnListQuery struct {
	Status string `query:"estado"`
	Alert  string `query:"alerta"`
	Search string `query:"q"`
}

// ReturnReportQuery filtros de GET /api/returns/report/export.
type ReturnReportQuery struct {
	Status  string     `query:"estado"`
	From    *time.Time `query:"-"`
	To      *time.Time `query:"-"`
	Format  string     `query:"formato"` // csv (por defecto) o xlsx
	Charset string     `query:"charset"` // utf-8 (por defecto) o windows-1252; solo CSV
}

// ReturnSummaryResponse fila del listado de devoluciones.
type ReturnSummaryResponse struct {
	ID              int64      `json:"id"`
	Code            string     `json:"codigo"`
	Status          string     `json:"estado"`
	Reason          string     `json:"motivo"`
	Diagnosis       *string    `json:"diagnostico"`
	SupplierSLA     *time.Time `json:"slaProveedor"`
	SLAAlert        *string    `json:"slaAlerta"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	FinalResolution *string    `json:"resultadoFinal"`
	SupplierName    *string    `json:"proveedorNombre"`
	ClientName      *string    `json:"clienteNombre"`
}

// MovementResponse movimiento de custodia.
type MovementResponse struct {
	ID          int64     `json:"id"`
	Type        string    `json:"tipo"`
	DeliveredBy string    `json:"entregadoPor"`
	ReceivedBy  string    `json:"recibidoPor"`
	Date        time.Time `json:"fecha"`
	Notes       *string   `json:"notas"`
}

// HistoryResponse entrada del historial.
type HistoryResponse struct {
	ID        int64           `json:"id"`
	Status    string          `json:"estado"`
	Comment   string          `json:"comentario"`
	Actor     string          `json:"actor"`
	Metadata  json.RawMessage `json:"metadata"`
	CreatedAt time.Time       `json:"createdAt"`
}

// AttachmentResponse adjunto de evidencia.
type AttachmentResponse struct {
	ID         int64     `json:"id"`
	Type       string    `json:"tipo"`
	URL        string    `json:"url"`
	Name       *string   `json:"nombre"`
	UploadedBy string    `json:"subidoPor"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ReturnDetailResponse devolución con movimientos, historial y adjuntos.
type ReturnDetailResponse struct {
	ReturnSummaryResponse
	InventoryItemID *int64               `json:"inventarioItemId"`
	ProductName     *string              `json:"productoNombre"`
	SupplierID      *int64               `json:"proveedorId"`
	ClientID        *int64               `json:"clienteId"`
	StockAdjusted   bool                 `json:"ajusteStock"`
	AdjustmentNotes *string              `json:"ajusteNotas"`
	ClosedBy        *string              `json:"cerradaPor"`
	ClosedAt        *time.Time           `json:"cerradaEn"`
	Movements       []MovementResponse   `json:"movements"`
	History         []HistoryResponse    `json:"history"`
	Attachments     []AttachmentResponse `json:"attachments"`
}
