// Package pdf genera el acta de devolución a proveedor.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Taller                │  Código DEV + Estado        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: Producto / Proveedor / Cliente / SLA / Motivo        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CUSTODIA: Fecha | Tipo | Entrega | Recibe | Notas           │
//	│  HISTORIAL: Fecha | Estado | Comentario | Actor              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CIERRE: Resultado + ajuste de stock + QR del código         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/celutaller-api/internal/application/returncase"
	"github.com/jhoicas/celutaller-api/internal/domain/entity"
)

var _ returncase.PDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const dateLayout = "02/01/2006 15:04"

// MarotoPDFGenerator implementa returncase.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateReturnPDF genera el acta y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateReturnPDF(_ context.Context, d *entity.ReturnCaseDetail, shopName string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Acta de devolución "+d.Case.Code, true).
		WithAuthor(shopName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(d.Case, shopName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(caseRows(d.Case)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("CADENA DE CUSTODIA"))
	m.AddRows(tableHeaderRow([]string{"Fecha", "Tipo", "Entrega", "Recibe", "Notas"}, []int{2, 2, 2, 2, 4}))
	for _, mv := range d.Movements {
		m.AddRows(tableRow([]string{
			mv.Date.Format(dateLayout), mv.Type, mv.DeliveredBy, mv.ReceivedBy, deref(mv.Notes, ""),
		}, []int{2, 2, 2, 2, 4}))
	}

	m.AddRows(row.New(3))
	m.AddRows(sectionTitle("HISTORIAL"))
	m.AddRows(tableHeaderRow([]string{"Fecha", "Estado", "Comentario", "Actor"}, []int{2, 3, 5, 2}))
	for _, h := range d.History {
		m.AddRows(tableRow([]string{
			h.CreatedAt.Format(dateLayout), string(h.Status), h.Comment, h.Actor,
		}, []int{2, 3, 5, 2}))
	}

	m.AddRows(row.New(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(closureRow(d.Case))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar acta: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: taller (izq) y código + estado (der).
func headerRow(rc *entity.ReturnCase, shopName string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(shopName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Acta de devolución a proveedor", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(rc.Code, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Estado: "+string(rc.Status), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorPrimary,
			}),
			text.New("Registrada: "+rc.CreatedAt.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func caseRows(rc *entity.ReturnCase) []core.Row {
	product := deref(rc.ProductName, "")
	if rc.InventoryItemID != nil {
		product = fmt.Sprintf("Repuesto #%d", *rc.InventoryItemID)
	}
	field := func(label, value string) core.Row {
		return row.New(6).Add(
			col.New(3).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1})),
			col.New(9).Add(text.New(value, props.Text{Size: 8, Top: 1})),
		)
	}
	return []core.Row{
		field("Producto:", product),
		field("Proveedor:", deref(rc.SupplierName, "—")),
		field("Cliente:", deref(rc.ClientName, "—")),
		field("SLA proveedor:", formatTime(rc.SupplierSLA)),
		field("Motivo:", rc.Reason),
		field("Diagnóstico:", deref(rc.Diagnosis, "—")),
	}
}

func sectionTitle(s string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	))
}

func tableHeaderRow(labels []string, sizes []int) core.Row {
	cols := make([]core.Col, 0, len(labels))
	for i, l := range labels {
		cols = append(cols, col.New(sizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1, Left: 1,
		})))
	}
	return row.New(6).Add(cols...)
}

func tableRow(values []string, sizes []int) core.Row {
	cols := make([]core.Col, 0, len(values))
	for i, v := range values {
		cols = append(cols, col.New(sizes[i]).Add(text.New(v, props.Text{Size: 7.5, Top: 1, Left: 1})))
	}
	return row.New(7).Add(cols...)
}

// closureRow: resultado final y QR con el código para ubicar la devolución.
func closureRow(rc *entity.ReturnCase) core.Row {
	summary := "Devolución abierta"
	if rc.Status == entity.ReturnStatusClosed {
		summary = fmt.Sprintf("Resultado: %s\nAjuste de stock: %s\nCerrada por %s el %s",
			deref(rc.FinalResolution, "—"),
			deref(rc.AdjustmentNotes, "confirmado"),
			deref(rc.ClosedBy, "—"),
			formatTime(rc.ClosedAt),
		)
	}
	return row.New(40).Add(
		col.New(8).Add(text.New(summary, props.Text{Size: 9, Top: 4, Color: colorGray})),
		col.New(4).Add(code.NewQr(rc.Code, props.Rect{Percent: 90, Center: true})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func deref(s *string, fallback string) string {
	if s != nil && *s != "" {
		return *s
	}
	return fallback
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format(dateLayout)
}
