package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/celutaller-api/internal/domain/entity"
	"github.com/jhoicas/celutaller-api/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

// InventoryItemRepo implementación de InventoryItemRepository.
// Los precios NUMERIC se leen como decimal.Decimal (codec registrado en NewPool).
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador.
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

const inventoryItemSelect = `
	SELECT i.id, i.nombre, i.categoria, i.proveedor_id, p.nombre, i.stock_actual, i.stock_minimo,
		i.precio_compra, i.precio_venta, i.descripcion, i.updated_at
	FROM inventario_items i
	LEFT JOIN proveedores p ON p.id = i.proveedor_id`

func scanInventoryItem(row pgx.Row) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	err := row.Scan(&it.ID, &it.Name, &it.Category, &it.SupplierID, &it.SupplierName, &it.CurrentStock,
		&it.MinimumStock, &it.PurchasePrice, &it.SalePrice, &it.Description, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create persiste un repuesto y completa ID y UpdatedAt.
func (r *InventoryItemRepo) Create(ctx context.Context, it *entity.InventoryItem) error {
	query := `
		INSERT INTO inventario_items
			(nombre, categoria, proveedor_id, stock_actual, stock_minimo, precio_compra, precio_venta, descripcion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, updated_at`
	err := r.q.QueryRow(ctx, query, it.Name, it.Category, it.SupplierID, it.CurrentStock, it.MinimumStock,
		it.PurchasePrice, it.SalePrice, it.Description).Scan(&it.ID, &it.UpdatedAt)
	if err != nil {
		return storageErr("insert inventory item", err)
	}
	return nil
}

// List lista repuestos por nombre.
func (r *InventoryItemRepo) List(ctx context.Context, f repository.InventoryItemFilter) ([]*entity.InventoryItem, error) {
	var w where
	if f.Search != "" {
		w.add("LOWER(i.nombre) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}
	switch f.StockFilter {
	case entity.StockFilterLow:
		w.conds = append(w.conds, "i.stock_actual <= i.stock_minimo")
	case entity.StockFilterOK:
		w.conds = append(w.conds, "i.stock_actual > i.stock_minimo")
	}
	return r.query(ctx, "list inventory items", inventoryItemSelect+w.sql()+" ORDER BY i.nombre ASC", w.args...)
}

// ListLowStock repuestos en o bajo el mínimo, stock ascendente.
func (r *InventoryItemRepo) ListLowStock(ctx context.Context) ([]*entity.InventoryItem, error) {
	return r.query(ctx, "list low stock items",
		inventoryItemSelect+" WHERE i.stock_actual <= i.stock_minimo ORDER BY i.stock_actual ASC, i.nombre ASC")
}

func (r *InventoryItemRepo) query(ctx context.Context, op, query string, args ...any) ([]*entity.InventoryItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		it, err := scanInventoryItem(rows)
		if err != nil {
			return nil, storageErr(op, err)
		}
		list = append(list, it)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return list, nil
}

// Update aplica el patch y devuelve el repuesto actualizado; (nil, nil) si no existe.
func (r *InventoryItemRepo) Update(ctx context.Context, id int64, p repository.InventoryItemPatch) (*entity.InventoryItem, error) {
	query := `
		UPDATE inventario_items SET
			nombre = COALESCE($2, nombre),
			categoria = COALESCE($3, categoria),
			proveedor_id = CASE WHEN $4::boolean THEN NULL ELSE COALESCE($5, proveedor_id) END,
			stock_actual = COALESCE($6, stock_actual),
			stock_minimo = COALESCE($7, stock_minimo),
			precio_compra = COALESCE($8, precio_compra),
			precio_venta = COALESCE($9, precio_venta),
			descripcion = COALESCE($10, descripcion),
			updated_at = NOW()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, p.Name, p.Category, p.ClearSupplier, p.SupplierID,
		p.CurrentStock, p.MinimumStock, p.PurchasePrice, p.SalePrice, p.Description)
	if err != nil {
		return nil, storageErr("update inventory item", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	it, err := scanInventoryItem(r.q.QueryRow(ctx, inventoryItemSelect+" WHERE i.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get inventory item", err)
	}
	return it, nil
}

// Delete elimina un repuesto; false si no existía.
func (r *InventoryItemRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM inventario_items WHERE id = $1`, id)
	if err != nil {
		return false, storageErr("delete inventory item", err)
	}
	return tag.RowsAffected() > 0, nil
}
