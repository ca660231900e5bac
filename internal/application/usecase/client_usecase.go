package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/celutaller-api/internal/application/dto"
	"github.com/jhoicas/celutaller-api/internal/domain"
	"github.com/jhoicas/celutaller-api/internal/domain/entity"
	"github.com/jhoicas/celutaller-api/internal/domain/repository"
)

const clientSearchLimit = 50

// ClientUseCase casos de uso del catálogo de clientes.
type ClientUseCase struct {
	repo repository.ClientRepository
	now  func() time.Time
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo, now: time.Now}
}

// Create registra un cliente con los campos recortados.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	c := &entity.Client{
		Name:      strings.TrimSpace(in.Name),
		Document:  trimmed(in.Document),
		Phone:     trimmed(in.Phone),
		Email:     trimmed(in.Email),
		Address:   trimmed(in.Address),
		Notes:     trimmed(in.Notes),
		CreatedAt: uc.now(),
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toClientResponse(c), nil
}

// GetByID obtiene un cliente; domain.ErrNotFound si no existe.
func (uc *ClientUseCase) GetByID(ctx context.Context, id int64) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toClientResponse(c), nil
}

// Search busca por nombre o documento (más recientes primero, máximo 50).
func (uc *ClientUseCase) Search(ctx context.Context, q dto.ClientListQuery) ([]dto.ClientResponse, error) {
	list, err := uc.repo.Search(ctx, strings.TrimSpace(q.Search), clientSearchLimit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toClientResponse(c))
	}
	return items, nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Document:  c.Document,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
	}
}
