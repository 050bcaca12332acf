package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func TestParseMoney_FormatosColombianos(t *testing.T) {
	cases := map[string]string{
		"2.000.000":   "2000000",
		"2000000,50":  "2000000.5",
		"$ 1.850.000": "1850000",
		"1850000.00":  "1850000",
		"1.850":       "1850",
		"1850000.5":   "1850000.5",
	}
	for in, want := range cases {
		got, err := parseMoney(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got.String(), in)
	}
	_, err := parseMoney("-5")
	assert.Error(t, err)
}

func TestReadModels_AgrupaColoresYChasis(t *testing.T) {
	csvText := "codigo;nombre;precio_base;color;stock;descuento;chasis;precio_chasis\n" +
		"NKD125;NKD 125;2.000.000;Rojo;3;10;;\n" +
		"NKD125;NKD 125;2.000.000;Negro;2;;;\n" +
		"NKD125;NKD 125;2.000.000;Rojo;0;;9C2KC1670LR000002;1.900.000\n" +
		"CT100;Boxer CT100;4.100.000;Azul Eléctrico;1;;;\n"
	var raw bytes.Buffer
	w := transform.NewWriter(&raw, charmap.Windows1252.NewEncoder())
	_, err := w.Write([]byte(csvText))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	models, err := readModels(transform.NewReader(&raw, charmap.Windows1252.NewDecoder()), "EMP-1")
	require.NoError(t, err)
	require.Len(t, models, 2)

	assert.Equal(t, "CT100", models[0].code)
	assert.Contains(t, models[0].colors, "Azul Eléctrico")

	nkd := models[1]
	assert.Equal(t, 4, nkd.colors["Rojo"].stock)
	assert.Equal(t, "10", nkd.colors["Rojo"].discount.String())
	assert.Nil(t, nkd.colors["Negro"].discount)
	require.Len(t, nkd.chassis, 1)
	assert.Equal(t, "1900000", nkd.chassis[0].price.String())

	again, err := readModels(strings.NewReader(csvText), "EMP-1")
	require.NoError(t, err)
	assert.Equal(t, nkd.id, again[1].id, "los IDs deben ser estables entre cargas")

	var out bytes.Buffer
	nColors, nChassis := writeSQL(&out, "EMP-1", models)
	assert.Equal(t, 3, nColors)
	assert.Equal(t, 1, nChassis)
	assert.Contains(t, out.String(), "ON CONFLICT (model_id, color)")
	assert.Contains(t, out.String(), "2000000.00")
}
