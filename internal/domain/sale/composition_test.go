package sale_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/domain/pricing"
	"github.com/jhoicas/concesionario-api/internal/domain/sale"
)

func newItem(t *testing.T, sel pricing.Selection, qty int) sale.LineItem {
	t.Helper()
	it, err := sale.NewLineItem(sel, qty, testQuoter())
	require.NoError(t, err)
	return it
}

// ──────────────────────────────────────────────────────────────────────────────
// Agregar
// ──────────────────────────────────────────────────────────────────────────────

func TestAddItem_MismaSeleccionSeFusiona(t *testing.T) {
	comp, err := sale.NewComposition().AddItem(newItem(t, redModel(pricing.ChassisSelection{}), 2))
	require.NoError(t, err)
	comp, err = comp.AddItem(newItem(t, redModel(pricing.ChassisSelection{}), 1))
	require.NoError(t, err)

	require.Equal(t, 1, comp.Len())
	it, _ := comp.Item(0)
	assert.Equal(t, 3, it.Quantity)
	assert.True(t, comp.Total().Equal(dec("5400000")), "3 × 1.800.000, fue %s", comp.Total())
}

func TestAddItem_FusionQueSuperaStockSeRechazaSinCambios(t *testing.T) {
	comp, err := sale.NewComposition().AddItem(newItem(t, redModel(pricing.ChassisSelection{}), 3))
	require.NoError(t, err)

	next, err := comp.AddItem(newItem(t, redModel(pricing.ChassisSelection{}), 3))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	it, _ := next.Item(0)
	assert.Equal(t, 3, it.Quantity, "la composición devuelta no cambia")
	assert.Equal(t, 1, next.Len())
}

func TestAddItem_ChasisDistintoEsOtraLinea(t *testing.T) {
	comp, err := sale.NewComposition().AddItem(newItem(t, redModel(pricing.ChassisSelection{}), 1))
	require.NoError(t, err)
	comp, err = comp.AddItem(newItem(t, redModel(pricing.ChassisSelection{RecordID: "CH-2"}), 1))
	require.NoError(t, err)
	comp, err = comp.AddItem(newItem(t, redModel(pricing.ChassisSelection{Identifier: "vin-libre"}), 1))
	require.NoError(t, err)

	assert.Equal(t, 3, comp.Len())
}

func TestAddItem_LineasDelMismoColorCompartenStock(t *testing.T) {
	q := pricing.NewResolver(catalogWithStock(2))
	item := func(sel pricing.Selection, qty int) sale.LineItem {
		it, err := sale.NewLineItem(sel, qty, q)
		require.NoError(t, err)
		return it
	}
	comp, err := sale.NewComposition().AddItem(item(redModel(pricing.ChassisSelection{Identifier: "A"}), 2))
	require.NoError(t, err)

	next, err := comp.AddItem(item(redModel(pricing.ChassisSelection{Identifier: "B"}), 2))
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.True(t, ve.Has("items[0].quantity"))
	assert.True(t, ve.Has("items[1].quantity"))
	assert.Equal(t, 1, next.Len(), "la composición devuelta no cambia")

	_, err = comp.AddItem(item(redModel(pricing.ChassisSelection{RecordID: "CH-2"}), 1))
	assert.True(t, errors.Is(err, domain.ErrValidation), "el chasis registrado descuenta del mismo color")

	comp, err = comp.AddItem(item(pricing.Selection{Kind: pricing.SourceModel, ReferenceID: "M", Color: "black"}, 2))
	require.NoError(t, err, "otro color tiene su propio stock")
	assert.Equal(t, 2, comp.Len())
}

func TestAddItem_NoModificaLaComposicionOriginal(t *testing.T) {
	base, err := sale.NewComposition().AddItem(newItem(t, redModel(pricing.ChassisSelection{}), 1))
	require.NoError(t, err)

	_, err = base.AddItem(newItem(t, redModel(pricing.ChassisSelection{}), 1))
	require.NoError(t, err)

	it, _ := base.Item(0)
	assert.Equal(t, 1, it.Quantity)
}

func TestNewLineItem_UnidadIndividualNoAdmiteMasDeUna(t *testing.T) {
	_, err := sale.NewLineItem(pricing.Selection{Kind: pricing.SourceIndividualUnit, ReferenceID: "U-1"}, 2, testQuoter())
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.True(t, ve.Has("quantity"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Modificar / quitar
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateItem_CambioDeColorReResuelveYLimpiaChasis(t *testing.T) {
	comp := sale.NewComposition(newItem(t, redModel(pricing.ChassisSelection{RecordID: "CH-2"}), 1))

	next, err := comp.UpdateItem(0, sale.ItemPatch{Color: strPtr("black")}, testQuoter())
	require.NoError(t, err)

	it, _ := next.Item(0)
	assert.Equal(t, "black", it.Color)
	assert.True(t, it.Chassis.IsZero(), "el chasis del color anterior no sobrevive")
	assert.True(t, it.UnitPrice.Equal(dec("2000000")))
	assert.Equal(t, 2, it.MaxQuantity)
	assert.False(t, it.HasChassis())
}

func TestUpdateItem_CambioDeChasisReResuelve(t *testing.T) {
	comp := sale.NewComposition(newItem(t, redModel(pricing.ChassisSelection{}), 1))

	next, err := comp.UpdateItem(0, sale.ItemPatch{Chassis: &pricing.ChassisSelection{RecordID: "CH-2"}}, testQuoter())
	require.NoError(t, err)

	it, _ := next.Item(0)
	assert.Equal(t, "CH-2", it.Chassis.RecordID)
	assert.Equal(t, 1, it.MaxQuantity)
}

func TestUpdateItem_CantidadFueraDeStockSeRechaza(t *testing.T) {
	comp := sale.NewComposition(newItem(t, redModel(pricing.ChassisSelection{}), 1))

	_, err := comp.UpdateItem(0, sale.ItemPatch{Quantity: intPtr(6)}, testQuoter())
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.True(t, ve.Has("quantity"))

	_, err = comp.UpdateItem(0, sale.ItemPatch{Quantity: intPtr(0)}, testQuoter())
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestUpdateItem_CantidadQueExcedeElStockDelColor(t *testing.T) {
	q := pricing.NewResolver(catalogWithStock(2))
	a, err := sale.NewLineItem(redModel(pricing.ChassisSelection{Identifier: "A"}), 1, q)
	require.NoError(t, err)
	b, err := sale.NewLineItem(redModel(pricing.ChassisSelection{Identifier: "B"}), 1, q)
	require.NoError(t, err)
	comp := sale.NewComposition(a, b)

	_, err = comp.UpdateItem(1, sale.ItemPatch{Quantity: intPtr(2)}, q)
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.True(t, ve.Has("items[0].quantity"))
	assert.True(t, ve.Has("items[1].quantity"))
}

func TestUpdateItem_PrecioManualRecalculaSubtotal(t *testing.T) {
	comp := sale.NewComposition(newItem(t, redModel(pricing.ChassisSelection{}), 2))

	next, err := comp.UpdateItem(0, sale.ItemPatch{UnitPrice: decPtr("1750000")}, nil)
	require.NoError(t, err)
	assert.True(t, next.Total().Equal(dec("3500000")))
}

func TestUpdateItem_QuedaIgualAOtraLineaYSeFusionan(t *testing.T) {
	comp := sale.NewComposition(
		newItem(t, redModel(pricing.ChassisSelection{}), 1),
		newItem(t, pricing.Selection{Kind: pricing.SourceModel, ReferenceID: "M", Color: "black"}, 1),
	)

	next, err := comp.UpdateItem(1, sale.ItemPatch{Color: strPtr("red")}, testQuoter())
	require.NoError(t, err)

	require.Equal(t, 1, next.Len())
	it, _ := next.Item(0)
	assert.Equal(t, 2, it.Quantity)
	assert.Equal(t, "red", it.Color)
}

func TestUpdateItem_UnidadIndividualNoCambiaColor(t *testing.T) {
	comp := sale.NewComposition(newItem(t, pricing.Selection{Kind: pricing.SourceIndividualUnit, ReferenceID: "U-1"}, 1))
	_, err := comp.UpdateItem(0, sale.ItemPatch{Color: strPtr("red")}, testQuoter())
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestRemoveItem_IndiceInexistente(t *testing.T) {
	comp := sale.NewComposition(newItem(t, redModel(pricing.ChassisSelection{}), 1))

	_, err := comp.RemoveItem(3)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	next, err := comp.RemoveItem(0)
	require.NoError(t, err)
	assert.Equal(t, 0, next.Len())
	assert.Equal(t, 1, comp.Len())
	assert.True(t, next.Total().IsZero())
}
