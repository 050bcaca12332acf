package entity

import "time"

// Customer representa un cliente del concesionario (comprador).
// El registro lo administra el módulo de clientes; el núcleo de ventas solo lo lee.
type Customer struct {
	ID        string
	CompanyID string
	TaxID     string // Cédula o NIT (Colombia)
	FirstName string
	LastName  string
	Address   string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName devuelve nombres y apellidos separados por un espacio.
func (c *Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
