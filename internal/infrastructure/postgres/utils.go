package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/celutaller-api/internal/domain"
)

// storageErr envuelve err con domain.ErrStorage conservando la causa.
func storageErr(op string, err error) error {
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%s: %w", op, domain.NewValidationError(foreignKeyField(err), "referencia inexistente"))
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

// foreignKeyField traduce la columna de la constraint al nombre JSON expuesto.
func foreignKeyField(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return ""
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "proveedor"):
		return "proveedorId"
	case strings.Contains(pgErr.ConstraintName, "cliente"):
		return "clienteId"
	case strings.Contains(pgErr.ConstraintName, "inventario"):
		return "inventarioItemId"
	default:
		return pgErr.ConstraintName
	}
}

// where arma condiciones con placeholders $n consecutivos.
type where struct {
	conds []string
	args  []any
}

// add agrega una condición; cada "?" se reemplaza por el siguiente $n con el mismo valor.
func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}
