package entity

import "time"

// Client representa un cliente del taller.
type Client struct {
	ID        int64
	Name      string
	Document  *string // cédula o NIT
	Phone     *string
	Email     *string
	Address   *string
	Notes     *string
	CreatedAt time.Time
}
