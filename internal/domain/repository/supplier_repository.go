package repository

import (
	"context"

	"github.com/jhoicas/celutaller-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	List(ctx context.Context) ([]*entity.Supplier, error)
}
