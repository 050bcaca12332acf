package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// VehicleModel registro de inventario por modelo (nivel color/stock).
// ColorStock y ColorDiscount se indexan por el nombre del color tal como se muestra en el catálogo.
type VehicleModel struct {
	ID            string
	CompanyID     string
	Code          string
	Name          string
	BasePrice     decimal.Decimal
	ColorStock    map[string]int
	ColorDiscount map[string]decimal.Decimal // porcentaje 0..100; ausente = sin descuento
	Chassis       []ChassisRecord            // unidades identificadas (stock 1) con precio propio
	UpdatedAt     time.Time
}

// ChassisRecord unidad identificada de un modelo: stock 1, con su propio precio y descuento.
type ChassisRecord struct {
	ID       string
	ModelID  string
	Color    string
	Chassis  string // número de chasis (VIN)
	Stock    int
	Price    decimal.Decimal // cero = usa el precio base del modelo
	Discount *decimal.Decimal
}

// IndividualUnit unidad individual listada con precio fijo (usados, exhibición).
type IndividualUnit struct {
	ID          string
	CompanyID   string
	Description string
	Price       decimal.Decimal
	Color       string
	ChassisID   string
	Available   bool
	UpdatedAt   time.Time
}
