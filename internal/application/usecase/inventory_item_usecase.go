package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/celutaller-api/internal/application/dto"
	"github.com/jhoicas/celutaller-api/internal/domain"
	"github.com/jhoicas/celutaller-api/internal/domain/entity"
	"github.com/jhoicas/celutaller-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// InventoryItemUseCase casos de uso del inventario de repuestos.
type InventoryItemUseCase struct {
	repo repository.InventoryItemRepository
}

// NewInventoryItemUseCase construye el caso de uso.
func NewInventoryItemUseCase(repo repository.InventoryItemRepository) *InventoryItemUseCase {
	return &InventoryItemUseCase{repo: repo}
}

// Create registra un repuesto.
func (uc *InventoryItemUseCase) Create(ctx context.Context, in dto.CreateInventoryItemRequest) (*dto.InventoryItemResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := checkPrices(&in.PurchasePrice, &in.SalePrice); err != nil {
		return nil, err
	}
	item := &entity.InventoryItem{
		Name:          strings.TrimSpace(in.Name),
		Category:      strings.TrimSpace(in.Category),
		SupplierID:    in.SupplierID,
		CurrentStock:  in.CurrentStock,
		MinimumStock:  in.MinimumStock,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		Description:   in.Description,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toInventoryItemResponse(item), nil
}

// List lista repuestos por nombre, filtrando por texto y estado de stock.
func (uc *InventoryItemUseCase) List(ctx context.Context, q dto.InventoryItemQuery) ([]dto.InventoryItemResponse, error) {
	if err := dto.Validate(q); err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx, repository.InventoryItemFilter{
		Search:      strings.TrimSpace(q.Search),
		StockFilter: q.Stock,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventoryItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toInventoryItemResponse(it))
	}
	return items, nil
}

// Alerts lista repuestos con stock en o por debajo del mínimo (stock ascendente).
func (uc *InventoryItemUseCase) Alerts(ctx context.Context) ([]dto.StockAlertResponse, error) {
	list, err := uc.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockAlertResponse, 0, len(list))
	for _, it := range list {
		items = append(items, dto.StockAlertResponse{
			ID:           it.ID,
			Name:         it.Name,
			CurrentStock: it.CurrentStock,
			MinimumStock: it.MinimumStock,
		})
	}
	return items, nil
}

// Update aplica una actualización parcial.
func (uc *InventoryItemUseCase) Update(ctx context.Context, id int64, in dto.UpdateInventoryItemRequest) (*dto.InventoryItemResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := checkPrices(in.PurchasePrice, in.SalePrice); err != nil {
		return nil, err
	}
	patch := repository.InventoryItemPatch{
		Name:          in.Name,
		Category:      in.Category,
		CurrentStock:  in.CurrentStock,
		MinimumStock:  in.MinimumStock,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		Description:   in.Description,
	}
	if in.SupplierID.Set {
		if in.SupplierID.Value == nil {
			patch.ClearSupplier = true
		} else if *in.SupplierID.Value <= 0 {
			return nil, domain.NewValidationError("proveedorId", "debe ser mayor que 0")
		} else {
			patch.SupplierID = in.SupplierID.Value
		}
	}
	if patch.IsEmpty() {
		return nil, domain.ErrNothingToUpdate
	}
	item, err := uc.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toInventoryItemResponse(item), nil
}

// Delete elimina un repuesto; domain.ErrNotFound si no existe.
func (uc *InventoryItemUseCase) Delete(ctx context.Context, id int64) error {
	ok, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

func checkPrices(purchase, sale *decimal.Decimal) error {
	if purchase != nil && purchase.IsNegative() {
		return domain.NewValidationError("precioCompra", "debe ser mayor o igual que 0")
	}
	if sale != nil && sale.IsNegative() {
		return domain.NewValidationError("precioVenta", "debe ser mayor o igual que 0")
	}
	return nil
}

func toInventoryItemResponse(it *entity.InventoryItem) *dto.InventoryItemResponse {
	return &dto.InventoryItemResponse{
		ID:            it.ID,
		Name:          it.Name,
		Category:      it.Category,
		SupplierID:    it.SupplierID,
		SupplierName:  it.SupplierName,
		CurrentStock:  it.CurrentStock,
		MinimumStock:  it.MinimumStock,
		PurchasePrice: it.PurchasePrice,
		SalePrice:     it.SalePrice,
		Description:   it.Description,
		UpdatedAt:     it.UpdatedAt,
	}
}
