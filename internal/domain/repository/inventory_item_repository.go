package repository

import (
	"context"

	"github.com/jhoicas/celutaller-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// InventoryItemFilter filtros del listado de repuestos.
type InventoryItemFilter struct {
	Search      string
	StockFilter string // entity.StockFilterLow, entity.StockFilterOK o vacío
}

// InventoryItemPatch campos editables de un repuesto; nil = sin cambio.
// ClearSupplier desvincula el proveedor (proveedorId: null).
type InventoryItemPatch struct {
	Name          *string
	Category      *string
	SupplierID    *int64
	ClearSupplier bool
	CurrentStock  *int
	MinimumStock  *int
	PurchasePrice *decimal.Decimal
	SalePrice     *decimal.Decimal
	Description   *string
}

// IsEmpty indica si el patch no modifica ningún campo.
func (p InventoryItemPatch) IsEmpty() bool {
	return p.Name == nil && p.Category == nil && p.SupplierID == nil && !p.ClearSupplier &&
		p.CurrentStock == nil && p.MinimumStock == nil && p.PurchasePrice == nil &&
		p.SalePrice == nil && p.Description == nil
}

// InventoryItemRepository define el puerto de persistencia para repuestos.
type InventoryItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	List(ctx context.Context, filter InventoryItemFilter) ([]*entity.InventoryItem, error)
	ListLowStock(ctx context.Context) ([]*entity.InventoryItem, error)
	// Update devuelve (nil, nil) si el repuesto no existe.
	Update(ctx context.Context, id int64, patch InventoryItemPatch) (*entity.InventoryItem, error)
	// Delete devuelve false si el repuesto no existe.
	Delete(ctx context.Context, id int64) (bool, error)
}
