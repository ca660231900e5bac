package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/celutaller-api/internal/domain"
)

func TestWhere_PlaceholdersConsecutivos(t *testing.T) {
	var w where
	assert.Equal(t, "", w.sql())

	w.add("d.estado = ?", "reportada")
	w.add("(LOWER(d.codigo) LIKE ? OR LOWER(p.nombre) LIKE ?)", "%dev%")
	assert.Equal(t, " WHERE d.estado = $1 AND (LOWER(d.codigo) LIKE $2 OR LOWER(p.nombre) LIKE $2)", w.sql())
	assert.Equal(t, []any{"reportada", "%dev%"}, w.args)
}

func TestStorageErr(t *testing.T) {
	cause := errors.New("conn reset")
	err := storageErr("list returns", cause)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, cause)

	fk := fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23503", ConstraintName: "fk_devolucion_proveedor"})
	err = storageErr("insert return", fk)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	var verr *domain.ValidationError
	if assert.ErrorAs(t, err, &verr) {
		assert.Equal(t, "proveedorId", verr.Fields[0].Field)
	}
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db?sslmode=disable", migrateURL("postgres://u:p@h:5432/db?sslmode=disable"))
	assert.Equal(t, "pgx5://u@h/db", migrateURL("postgresql://u@h/db"))
}

func TestLookupIPv4_Literales(t *testing.T) {
	ip, err := lookupIPv4(context.Background(), "127.0.0.1")
	assert.NoError(t, err)
	assert.Equal(t, "127.0.0.1", ip)

	_, err = lookupIPv4(context.Background(), "::1")
	assert.Error(t, err)
}
