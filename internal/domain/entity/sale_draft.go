package entity

import (
	"encoding/json"
	"time"
)

// SaleDraft borrador persistido de una venta en configuración.
// Snapshot es opaco para el almacén: el núcleo de ventas lo serializa y deserializa.
type SaleDraft struct {
	ID         string
	CompanyID  string
	CustomerID string
	Snapshot   json.RawMessage
	SavedAt    time.Time
}
