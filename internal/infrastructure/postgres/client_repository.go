package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/celutaller-api/internal/domain/entity"
	"github.com/jhoicas/celutaller-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador.
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, nombre, documento, telefono, email, direccion, notas, created_at`

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	if err := row.Scan(&c.ID, &c.Name, &c.Document, &c.Phone, &c.Email, &c.Address, &c.Notes, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un cliente.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (nombre, documento, telefono, email, direccion, notas, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, c.Name, c.Document, c.Phone, c.Email, c.Address, c.Notes, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		return storageErr("insert client", err)
	}
	return nil
}

// GetByID obtiene un cliente; (nil, nil) si no existe.
func (r *ClientRepo) GetByID(ctx context.Context, id int64) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get client", err)
	}
	return c, nil
}

// Search busca por nombre o documento, más recientes primero.
func (r *ClientRepo) Search(ctx context.Context, search string, limit int) ([]*entity.Client, error) {
	var w where
	if search != "" {
		w.add("(LOWER(nombre) LIKE ? OR LOWER(COALESCE(documento, '')) LIKE ?)", "%"+strings.ToLower(search)+"%")
	}
	args := append(w.args, limit)
	query := `SELECT ` + clientColumns + ` FROM clients` + w.sql() + fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("search clients", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, storageErr("scan client", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("search clients", err)
	}
	return list, nil
}
