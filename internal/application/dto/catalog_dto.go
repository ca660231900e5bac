package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CreateSupplierRequest body para POST /api/providers.
type CreateSupplierRequest struct {
	Name    string  `json:"nombre" validate:"required,min=1,max=200"`
	Contact *string `json:"contacto,omitempty"`
	Phone   *string `json:"telefono,omitempty"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Notes   *string `json:"notas,omitempty"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nombre"`
	Contact   *string   `json:"contacto"`
	Phone     *string   `json:"telefono"`
	Email     *string   `json:"email"`
	Notes     *string   `json:"notas"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateClientRequest body para POST /api/clients.
type CreateClientRequest struct {
	Name     string  `json:"nombre" validate:"required,min=1,max=200"`
	Document *string `json:"documento,omitempty"`
	Phone    *string `json:"telefono,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Address  *string `json:"direccion,omitempty"`
	Notes    *string `json:"notas,omitempty"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nombre"`
	Document  *string   `json:"documento"`
	Phone     *string   `json:"telefono"`
	Email     *string   `json:"email"`
	Address   *string   `json:"direccion"`
	Notes     *string   `json:"notas"`
	CreatedAt time.Time `json:"createdAt"`
}

// ClientListQuery filtro de GET /api/clients.
type ClientListQuery struct {
	Search string `query:"q"`
}

// CreateInventoryItemRequest body para POST /api/inventory.
type CreateInventoryItemRequest struct {
	Name          string          `json:"nombre" validate:"required,min=1"`
	Category      string          `json:"categoria" validate:"required,min=1"`
	SupplierID    *int64          `json:"proveedorId,omitempty" validate:"omitempty,gt=0"`
	CurrentStock  int             `json:"stockActual" validate:"gte=0"`
	MinimumStock  int             `json:"stockMinimo" validate:"gte=0"`
	PurchasePrice decimal.Decimal `json:"precioCompra"`
	SalePrice     decimal.Decimal `json:"precioVenta"`
	Description   *string         `json:"descripcion,omitempty"`
}

// UpdateInventoryItemRequest body para PATCH /api/inventory/:id. Campos ausentes no cambian.
type UpdateInventoryItemRequest struct {
	Name          *string          `json:"nombre,omitempty" validate:"omitempty,min=1"`
	Category      *string          `json:"categoria,omitempty" validate:"omitempty,min=1"`
	SupplierID    NullableInt64    `json:"proveedorId"`
	CurrentStock  *int             `json:"stockActual,omitempty" validate:"omitempty,gte=0"`
	MinimumStock  *int             `json:"stockMinimo,omitempty" validate:"omitempty,gte=0"`
	PurchasePrice *decimal.Decimal `json:"precioCompra,omitempty"`
	SalePrice     *decimal.Decimal `json:"precioVenta,omitempty"`
	Description   *string          `json:"descripcion,omitempty"`
}

// InventoryItemQuery filtros de GET /api/inventory.
type InventoryItemQuery struct {
	Search string `query:"q"`
	Stock  string `query:"estado" validate:"omitempty,oneof=bajo ok"`
}

// InventoryItemResponse salida de un repuesto.
type InventoryItemResponse struct {
	ID            int64           `json:"id"`
	Name          string          `json:"nombre"`
	Category      string          `json:"categoria"`
	SupplierID    *int64          `json:"proveedorId"`
	SupplierName  *string         `json:"proveedorNombre,omitempty"`
	CurrentStock  int             `json:"stockActual"`
	MinimumStock  int             `json:"stockMinimo"`
	PurchasePrice decimal.Decimal `json:"precioCompra"`
	SalePrice     decimal.Decimal `json:"precioVenta"`
	Description   *string         `json:"descripcion"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// StockAlertResponse fila de GET /api/inventory/alerts.
type StockAlertResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"nombre"`
	CurrentStock int    `json:"stockActual"`
	MinimumStock int    `json:"stockMinimo"`
}

// NullableInt64 distingue un campo ausente (Set=false) de un null explícito (Set=true, Value=nil).
type NullableInt64 struct {
	Set   bool
	Value *int64
}

// UnmarshalJSON solo se invoca cuando la clave está presente en el body.
func (n *NullableInt64) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}
