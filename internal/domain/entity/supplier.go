package entity

import "time"

// Supplier proveedor de repuestos; destino habitual de las devoluciones.
type Supplier struct {
	ID        int64
	Name      string
	Contact   *string
	Phone     *string
	Email     *string
	Notes     *string
	CreatedAt time.Time
}
