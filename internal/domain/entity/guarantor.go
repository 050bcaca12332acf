package entity

import "time"

// Guarantor representa un fiador (codeudor) ya registrado.
type Guarantor struct {
	ID        string
	CompanyID string
	TaxID     string
	FirstName string
	LastName  string
	Address   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
