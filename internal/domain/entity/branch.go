package entity

import "time"

// Branch representa una sucursal de la tienda (administración de personal y despachos).
type Branch struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
