package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Filtros de estado de stock para el listado de repuestos.
const (
	StockFilterLow = "bajo" // stock_actual <= stock_minimo
	StockFilterOK  = "ok"
)

// InventoryItem repuesto del inventario del taller.
type InventoryItem struct {
	ID            int64
	Name          string
	Category      string
	SupplierID    *int64
	SupplierName  *string // solo lectura (JOIN proveedores)
	CurrentStock  int
	MinimumStock  int
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	Description   *string
	UpdatedAt     time.Time
}

// IsLowStock indica si el repuesto está en o por debajo del mínimo.
func (i *InventoryItem) IsLowStock() bool {
	return i.CurrentStock <= i.MinimumStock
}
