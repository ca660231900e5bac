package repository

import (
	"context"

	"github.com/jhoicas/celutaller-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para clientes.
type ClientRepository interface {
	Create(ctx context.Context, c *entity.Client) error
	GetByID(ctx context.Context, id int64) (*entity.Client, error)
	// Search busca por nombre o documento; search vacío lista los más recientes.
	Search(ctx context.Context, search string, limit int) ([]*entity.Client, error)
}
