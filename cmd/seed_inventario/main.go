// seed_inventario genera un script SQL para cargar el inventario vendible (modelos, colores y
// chasis) a partir de la exportación CSV del sistema de bodega.
//
// Uso: go run ./cmd/seed_inventario <company_id> [ruta/inventario.csv]
// Por defecto busca inventario.csv en el directorio actual.
// Escribe: seed_inventario.sql en la raíz del módulo.
//
// Columnas (separador ';', primera fila encabezado, Windows-1252):
//
//	codigo;nombre;precio_base;color;stock;descuento;chasis;precio_chasis
//
// Una fila con chasis registra una unidad identificada y suma 1 al stock de su color.
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Espacio de nombres para IDs deterministas: volver a cargar el mismo CSV actualiza en vez de duplicar.
var seedNamespace = uuid.MustParse("6f1c0c2e-8d4b-4a7e-9b1a-3c5d7e9f0a12")

type model struct {
	id        string
	code      string
	name      string
	basePrice decimal.Decimal
	colors    map[string]*color
	chassis   []chassis
}

type color struct {
	stock    int
	discount *decimal.Decimal
}

type chassis struct {
	id       string
	color    string
	number   string
	price    decimal.Decimal
	discount *decimal.Decimal
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: seed_inventario <company_id> [inventario.csv]")
		os.Exit(2)
	}
	companyID := os.Args[1]
	csvPath := "inventario.csv"
	if len(os.Args) > 2 {
		csvPath = os.Args[2]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	models, err := readModels(transform.NewReader(f, charmap.Windows1252.NewDecoder()), companyID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "seed_inventario.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	nColors, nChassis := writeSQL(out, companyID, models)
	fmt.Printf("Generado %s: %d modelos, %d colores, %d chasis\n", outPath, len(models), nColors, nChassis)
}

func readModels(r io.Reader, companyID string) ([]*model, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	byCode := make(map[string]*model)
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 || len(rec) < 5 {
			continue
		}
		field := func(i int) string {
			if i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}

		code, name, colorName := field(0), field(1), field(3)
		if code == "" || colorName == "" {
			continue
		}
		m := byCode[code]
		if m == nil {
			price, err := parseMoney(field(2))
			if err != nil {
				return nil, fmt.Errorf("línea %d: precio_base: %w", line, err)
			}
			m = &model{
				id:        uuid.NewSHA1(seedNamespace, []byte(companyID+"/"+code)).String(),
				code:      code,
				name:      name,
				basePrice: price,
				colors:    make(map[string]*color),
			}
			byCode[code] = m
		}
		c := m.colors[colorName]
		if c == nil {
			c = &color{}
			m.colors[colorName] = c
		}

		discount, err := parseDiscount(field(5))
		if err != nil {
			return nil, fmt.Errorf("línea %d: descuento: %w", line, err)
		}

		if number := field(6); number != "" {
			price := decimal.Zero
			if raw := field(7); raw != "" {
				if price, err = parseMoney(raw); err != nil {
					return nil, fmt.Errorf("línea %d: precio_chasis: %w", line, err)
				}
			}
			m.chassis = append(m.chassis, chassis{
				id:       uuid.NewSHA1(seedNamespace, []byte(companyID+"/chasis/"+number)).String(),
				color:    colorName,
				number:   number,
				price:    price,
				discount: discount,
			})
			c.stock++
			continue
		}

		stock, err := strconv.Atoi(field(4))
		if err != nil || stock < 0 {
			return nil, fmt.Errorf("línea %d: stock inválido %q", line, field(4))
		}
		c.stock += stock
		if discount != nil {
			c.discount = discount
		}
	}

	out := make([]*model, 0, len(byCode))
	for _, m := range byCode {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].code < out[j].code })
	return out, nil
}

func writeSQL(w io.Writer, companyID string, models []*model) (nColors, nChassis int) {
	fmt.Fprintf(w, "-- Inventario vendible de la empresa %s\n", companyID)
	fmt.Fprint(w, "-- Generado por cmd/seed_inventario\n\n")

	for _, m := range models {
		fmt.Fprintf(w, "INSERT INTO vehicle_models (id, company_id, code, name, base_price)\n")
		fmt.Fprintf(w, "VALUES ('%s', '%s', '%s', '%s', %s)\n",
			m.id, escapeSQL(companyID), escapeSQL(m.code), escapeSQL(m.name), m.basePrice.StringFixed(2))
		fmt.Fprint(w, "ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, base_price = EXCLUDED.base_price, updated_at = now();\n")

		names := make([]string, 0, len(m.colors))
		for n := range m.colors {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			c := m.colors[n]
			fmt.Fprintf(w, "INSERT INTO model_colors (model_id, color, stock, discount) VALUES ('%s', '%s', %d, %s)\n",
				m.id, escapeSQL(n), c.stock, sqlDecimal(c.discount))
			fmt.Fprint(w, "ON CONFLICT (model_id, color) DO UPDATE SET stock = EXCLUDED.stock, discount = EXCLUDED.discount;\n")
			nColors++
		}

		for _, ch := range m.chassis {
			fmt.Fprintf(w, "INSERT INTO chassis_records (id, model_id, color, chassis, stock, price, discount)\n")
			fmt.Fprintf(w, "VALUES ('%s', '%s', '%s', '%s', 1, %s, %s)\n",
				ch.id, m.id, escapeSQL(ch.color), escapeSQL(ch.number), ch.price.StringFixed(2), sqlDecimal(ch.discount))
			fmt.Fprint(w, "ON CONFLICT (id) DO UPDATE SET price = EXCLUDED.price, discount = EXCLUDED.discount;\n")
			nChassis++
		}
		fmt.Fprintln(w)
	}
	return nColors, nChassis
}

// parseMoney acepta "2.000.000", "2000000,50", "$ 1.850.000" y "1850000.00".
func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	s = strings.ReplaceAll(s, " ", "")
	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	case strings.Count(s, ".") == 1 && len(s)-strings.Index(s, ".") == 4:
		// "1.850" es separador de miles, no decimales.
		s = strings.ReplaceAll(s, ".", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("valor negativo %s", d)
	}
	return d.Round(2), nil
}

func parseDiscount(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return nil, err
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("fuera de rango 0..100: %s", d)
	}
	return &d, nil
}

func sqlDecimal(d *decimal.Decimal) string {
	if d == nil {
		return "NULL"
	}
	return d.StringFixed(2)
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
