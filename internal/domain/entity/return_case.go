package entity

import (
	"encoding/json"
	"time"
)

// ReturnStatus estado de una devolución.
type ReturnStatus string

// Estados del flujo de devoluciones.
const (
	ReturnStatusReported          ReturnStatus = "reportada"
	ReturnStatusTechnicalReview   ReturnStatus = "revision_tecnica"
	ReturnStatusSentToSupplier    ReturnStatus = "entregada_proveedor"
	ReturnStatusAwaitingReturn    ReturnStatus = "espera_regreso"
	ReturnStatusReplaced          ReturnStatus = "devuelta_reemplazo"
	ReturnStatusRefunded          ReturnStatus = "devuelta_reembolso"
	ReturnStatusRepairedDelivered ReturnStatus = "reparada_entregada"
	ReturnStatusRejected          ReturnStatus = "rechazada"
	ReturnStatusClosed            ReturnStatus = "cerrada"
)

// Tipos de movimiento de custodia con significado para el flujo.
const (
	CustodyTypeWorkshopReception = "recepcion_taller"
	CustodyTypeSupplierDelivery  = "entrega_proveedor"
	CustodyTypeFinalDelivery     = "entrega_final" // requerido antes de cerrar
)

// ActorSystem autor de las entradas de historial generadas por la aplicación.
const ActorSystem = "sistema"

// ReturnCase representa una devolución a proveedor o revisión de garantía.
// Exactamente uno de InventoryItemID / ProductName viene informado al crearla.
type ReturnCase struct {
	ID              int64
	Code            string // DEV-YYMMDD-NNNN
	InventoryItemID *int64
	ProductName     *string
	SupplierID      *int64
	ClientID        *int64
	Reason          string
	Diagnosis       *string
	SupplierSLA     *time.Time
	Status          ReturnStatus
	FinalResolution *string
	StockAdjusted   bool
	AdjustmentNotes *string
	ClosedBy        *string
	ClosedAt        *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Proyección de lectura (LEFT JOIN proveedores / clients).
	SupplierName *string
	ClientName   *string
}

// CustodyMovement entrega física del artículo entre dos partes. Inmutable.
type CustodyMovement struct {
	ID          int64
	ReturnID    int64
	Type        string
	DeliveredBy string
	ReceivedBy  string
	Date        time.Time
	Notes       *string
}

// HistoryEntry auditoría de cambios de estado y comentarios.
type HistoryEntry struct {
	ID        int64
	ReturnID  int64
	Status    ReturnStatus
	Comment   string
	Actor     string
	Metadata  json.RawMessage
	CreatedAt time.Time
}

// Attachment evidencia asociada a la devolución (solo se agregan).
type Attachment struct {
	ID         int64
	ReturnID   int64
	Type       string
	URL        string
	Name       *string
	UploadedBy string
	CreatedAt  time.Time
}

// ReturnCaseDetail agregado: la devolución con sus tres colecciones hijas.
type ReturnCaseDetail struct {
	Case        *ReturnCase
	Movements   []*CustodyMovement // fecha ASC
	History     []*HistoryEntry    // created_at DESC
	Attachments []*Attachment      // created_at DESC
}
