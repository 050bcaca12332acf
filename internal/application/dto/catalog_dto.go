package dto

import "github.com/shopspring/decimal"

// CustomerResponse cliente en búsquedas.
type CustomerResponse struct {
	ID       string `json:"id"`
	TaxID    string `json:"tax_id"`
	FullName string `json:"full_name"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
}

// ModelResponse modelo vendible con su disponibilidad por color.
type ModelResponse struct {
	ID        string            `json:"id"`
	Code      string            `json:"code"`
	Name      string            `json:"name"`
	BasePrice decimal.Decimal   `json:"base_price"`
	Colors    []ColorResponse   `json:"colors"`
	Chassis   []ChassisResponse `json:"chassis"`
}

// ColorResponse stock y precio efectivo de un color.
type ColorResponse struct {
	Color    string          `json:"color"`
	Stock    int             `json:"stock"`
	Discount decimal.Decimal `json:"discount"`
	Price    decimal.Decimal `json:"price"`
}

// ChassisResponse chasis identificado disponible.
type ChassisResponse struct {
	ID      string          `json:"id"`
	Color   string          `json:"color"`
	Chassis string          `json:"chassis"`
	Price   decimal.Decimal `json:"price"`
}

// UnitResponse unidad individual disponible.
type UnitResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Color       string          `json:"color"`
	Chassis     string          `json:"chassis"`
	Price       decimal.Decimal `json:"price"`
}
