// Package pdf genera el plan de pagos impreso que se entrega al cliente junto con la cotización.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Concesionario        │  PLAN DE PAGOS + Fecha       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + CC/NIT + contacto                         │
//	│  PRODUCTOS: Cant | Descripción | P.Unit | Subtotal           │
//	│  CONDICIONES: Total / Cuota inicial / Tasa / Cuotas          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: N° | Vence | Cuota | Interés | Capital | Saldo        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES + leyenda                                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/concesionario-api/internal/application/sales"
	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/financing"
	"github.com/jhoicas/concesionario-api/internal/domain/sale"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// printer formatea cifras con separadores de miles colombianos (1.234.567).
var printer = message.NewPrinter(language.MustParse("es-CO"))

var frequencyLabels = map[financing.Frequency]string{
	financing.Daily:    "Diaria",
	financing.Weekly:   "Semanal",
	financing.Biweekly: "Quincenal",
	financing.Monthly:  "Mensual",
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ sales.ScheduleDocumentGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa sales.ScheduleDocumentGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateSchedule genera el PDF del plan de pagos y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateSchedule(doc sales.ScheduleDocument) ([]byte, error) {
	c := doc.Configuration
	if c.Schedule == nil || c.Financing == nil {
		return nil, fmt.Errorf("pdf: la venta no tiene plan de pagos")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Plan de pagos", true).
		WithAuthor(doc.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(doc.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(itemsHeaderRow())
	m.AddRows(itemRows(c.Composition.Items())...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(termsRow(c))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(scheduleHeaderRow())
	m.AddRows(installmentRows(c.Schedule.Installments)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(c))

	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New(
			"Documento informativo. Los valores de las cuotas pueden variar si cambian las condiciones "+
				"del crédito antes de la firma del contrato.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(doc sales.ScheduleDocument) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(doc.CompanyName, "Concesionario"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("PLAN DE PAGOS", props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Fecha: "+doc.GeneratedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func customerRow(customer *entity.Customer) core.Row {
	name, detail := "—", ""
	if customer != nil {
		name = customer.FullName()
		detail = fmt.Sprintf("CC/NIT: %s   |   Tel: %s   |   Dirección: %s",
			customer.TaxID, nonEmpty(customer.Phone, "—"), nonEmpty(customer.Address, "—"))
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(detail, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func itemsHeaderRow() core.Row {
	return row.New(7).Add(
		head("Cant.", 1, align.Center),
		head("Producto", 6, align.Left),
		head("Precio Unit.", 2, align.Right),
		head("Subtotal", 3, align.Right),
	)
}

func itemRows(items []sale.LineItem) []core.Row {
	out := make([]core.Row, 0, len(items))
	for _, it := range items {
		desc := it.Description
		if it.Color != "" {
			desc += " · " + it.Color
		}
		if it.Chassis.Identifier != "" {
			desc += " · chasis " + it.Chassis.Identifier
		}
		out = append(out, row.New(6).Add(
			cell(fmt.Sprint(it.Quantity), 1, align.Center),
			cell(desc, 6, align.Left),
			cell(formatMoney(it.UnitPrice), 2, align.Right),
			cell(formatMoney(it.Subtotal()), 3, align.Right),
		))
	}
	return out
}

func termsRow(c sale.Configuration) core.Row {
	f := c.Financing
	freq := frequencyLabels[f.Frequency]
	return row.New(16).Add(
		col.New(6).Add(
			text.New("CONDICIONES DEL CRÉDITO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New("Valor de la venta: "+formatMoney(c.TotalAmount), props.Text{Size: 8, Top: 6}),
			text.New("Cuota inicial: "+formatMoney(f.DownPayment), props.Text{Size: 8, Top: 11}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("Tasa de interés: %s %%", f.InterestRate.String()), props.Text{Size: 8, Top: 6, Align: align.Right}),
			text.New(fmt.Sprintf("%d cuotas · periodicidad %s", f.InstallmentCount, freq), props.Text{Size: 8, Top: 11, Align: align.Right}),
		),
	)
}

func scheduleHeaderRow() core.Row {
	return row.New(7).Add(
		head("N°", 1, align.Center),
		head("Vence", 2, align.Center),
		head("Cuota", 2, align.Right),
		head("Interés", 2, align.Right),
		head("Capital", 2, align.Right),
		head("Saldo", 3, align.Right),
	)
}

func installmentRows(installments []financing.Installment) []core.Row {
	out := make([]core.Row, 0, len(installments))
	for _, in := range installments {
		out = append(out, row.New(5).Add(
			cell(fmt.Sprint(in.Index), 1, align.Center),
			cell(in.DueDate.Format("02/01/2006"), 2, align.Center),
			cell(formatMoney(in.TotalPayment), 2, align.Right),
			cell(formatMoney(in.InterestPortion), 2, align.Right),
			cell(formatMoney(in.PrincipalPortion), 2, align.Right),
			cell(formatMoney(in.RemainingBalance), 3, align.Right),
		))
	}
	return out
}

func totalsRow(c sale.Configuration) core.Row {
	s := c.Schedule
	paid := s.TotalPaid()
	label := func(v string) core.Component {
		return text.New(v, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(v string) core.Component {
		return text.New(v, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(22).Add(
		col.New(4),
		col.New(4).Add(
			label("Monto financiado:"),
			label("Total intereses:"),
			label("TOTAL CON INTERESES:"),
		),
		col.New(4).Add(
			value(formatMoney(s.FinancedAmount)),
			value(formatMoney(s.TotalInterest())),
			text.New(formatMoney(c.Financing.DownPayment.Add(paid)), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func head(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 1, Left: 1, Right: 1,
	}))
}

func cell(v string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(v, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney pesos sin centavos con separador de miles: 1800000 → "$1.800.000".
func formatMoney(d decimal.Decimal) string {
	return "$" + printer.Sprintf("%d", d.Round(0).IntPart())
}
