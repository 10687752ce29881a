package entity

import "time"

// Category agrupa productos para navegación del catálogo.
type Category struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
}
