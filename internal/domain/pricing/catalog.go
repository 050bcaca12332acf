package pricing

import "github.com/jhoicas/concesionario-api/internal/domain/entity"

// Catalog vista de solo lectura del inventario que necesita el resolvedor.
// La capa de aplicación la arma con registros ya cargados; resolver nunca hace I/O.
type Catalog interface {
	Model(id string) (*entity.VehicleModel, bool)
	Unit(id string) (*entity.IndividualUnit, bool)
}

// StaticCatalog catálogo en memoria construido a partir de registros del almacén de inventario.
type StaticCatalog struct {
	models map[string]*entity.VehicleModel
	units  map[string]*entity.IndividualUnit
}

var _ Catalog = (*StaticCatalog)(nil)

// NewStaticCatalog indexa los registros por ID.
func NewStaticCatalog(models []*entity.VehicleModel, units []*entity.IndividualUnit) *StaticCatalog {
	c := &StaticCatalog{
		models: make(map[string]*entity.VehicleModel, len(models)),
		units:  make(map[string]*entity.IndividualUnit, len(units)),
	}
	for _, m := range models {
		if m != nil {
			c.models[m.ID] = m
		}
	}
	for _, u := range units {
		if u != nil {
			c.units[u.ID] = u
		}
	}
	return c
}

func (c *StaticCatalog) Model(id string) (*entity.VehicleModel, bool) {
	m, ok := c.models[id]
	return m, ok
}

func (c *StaticCatalog) Unit(id string) (*entity.IndividualUnit, bool) {
	u, ok := c.units[id]
	return u, ok
}
