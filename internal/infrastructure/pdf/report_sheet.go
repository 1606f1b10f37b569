// Package pdf genera la ficha imprimible de un reporte de incidente.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: SIGRA + título          │  N° reporte + fecha      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: área / severidad / estado / trabajador / UUID        │
//	│  DESCRIPCIÓN                                                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BITÁCORA: Fecha | Estado | Administrador | Detalle          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el UUID de cliente                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

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
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/sigra-api/internal/application/reports"
	"github.com/jhoicas/sigra-api/internal/domain/entity"
)

var _ reports.SheetGenerator = (*ReportSheetGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 191, Green: 87, Blue: 0}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const (
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 15:04"
	wrapWidth      = 110
)

// ── Generator ─────────────────────────────────────────────────────────────────

// ReportSheetGenerator implementa reports.SheetGenerator usando Maroto v2.
type ReportSheetGenerator struct{}

// NewReportSheetGenerator construye el generador.
func NewReportSheetGenerator() *ReportSheetGenerator { return &ReportSheetGenerator{} }

// sheet estado de una generación. cases.Caser no se comparte entre goroutines.
type sheet struct {
	upper cases.Caser
}

// GenerateReportSheet genera el PDF y devuelve sus bytes.
func (*ReportSheetGenerator) GenerateReportSheet(
	_ context.Context,
	report *entity.ReportView,
	trail []*entity.AuditEntry,
) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte nulo")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Reporte de incidente N° %d", report.ID), true).
		WithAuthor("SIGRA", true).
		Build()

	m := maroto.New(cfg)
	g := sheet{upper: cases.Upper(language.Spanish)}

	m.AddRows(g.headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.detailRows(report)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.trailRows(trail)...)
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g sheet) headerRow(r *entity.ReportView) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New("SIGRA · REPORTE DE INCIDENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(r.Title, props.Text{
				Style: fontstyle.Bold, Size: 12, Top: 7,
			}),
		),
		col.New(4).Add(
			text.New("N° "+strconv.FormatInt(r.ID, 10), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+r.ReportDate.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
			text.New(g.upper.String(r.StateName), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 13, Color: colorPrimary,
			}),
		),
	)
}

func (g sheet) detailRows(r *entity.ReportView) []core.Row {
	owner := "-"
	if r.OwnerRUT != nil {
		owner = fmt.Sprintf("%s (RUT %s)", nonEmpty(r.OwnerName, "-"), formatRUT(*r.OwnerRUT))
	}
	field := func(label, value string) core.Col {
		return col.New(4).Add(
			text.New(g.upper.String(label), props.Text{Style: fontstyle.Bold, Size: 7, Color: colorGray, Top: 1}),
			text.New(nonEmpty(value, "-"), props.Text{Size: 9, Top: 5}),
		)
	}

	rows := []core.Row{
		row.New(12).Add(
			field("área", r.AreaName),
			field("severidad", r.SeverityName),
			field("trabajador", owner),
		),
		row.New(12).Add(
			field("creado", r.CreatedAt.Format(dateTimeLayout)),
			field("actualizado", r.UpdatedAt.Format(dateTimeLayout)),
			field("uuid de cliente", r.ClientUUID),
		),
		row.New(6).Add(col.New(12).Add(
			text.New(g.upper.String("descripción"), props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	desc := "Sin descripción."
	if r.Description != nil && *r.Description != "" {
		desc = *r.Description
	}
	for _, chunk := range wrap(desc, wrapWidth) {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(chunk, props.Text{Size: 9, Top: 0.5}),
		)))
	}
	return rows
}

func (g sheet) trailRows(trail []*entity.AuditEntry) []core.Row {
	h := func(label string, size int) core.Col {
		return col.New(size).Add(text.New(g.upper.String(label), props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorWhite, Top: 2, Left: 1,
		}))
	}
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New(g.upper.String("bitácora"), props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
			h("fecha", 3),
			h("estado", 2),
			h("administrador", 3),
			h("detalle", 4),
		),
	}
	if len(trail) == 0 {
		return append(rows, row.New(7).Add(col.New(12).Add(
			text.New("Sin cambios de estado registrados.", props.Text{Size: 8, Top: 1, Color: colorGray}),
		)))
	}
	for _, e := range trail {
		detail := ""
		if e.Detail != nil {
			detail = *e.Detail
		}
		rows = append(rows, row.New(7).Add(
			col.New(3).Add(text.New(e.CreatedAt.Format(dateTimeLayout), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(e.StateName, strconv.Itoa(e.StateID)), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(e.AdminName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(nonEmpty(detail, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
		))
	}
	return rows
}

// footerRow: QR con el UUID de cliente para cruzar la ficha con el registro en la app.
func footerRow(r *entity.ReportView) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(r.ClientUUID, props.Rect{
			Percent: 95,
			Center:  true,
		})),
		col.New(9).Add(
			text.New("Escanee el código para ubicar este reporte\nen la aplicación móvil.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Documento generado por SIGRA. La bitácora es de solo anexión.", props.Text{
				Size: 6.5, Top: 24, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatRUT inserta puntos de miles. Ej: 12345678 → "12.345.678".
func formatRUT(rut int64) string {
	s := strconv.FormatInt(rut, 10)
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}

// wrap divide s en trozos de máximo n runas.
func wrap(s string, n int) []string {
	runes := []rune(s)
	var parts []string
	for len(runes) > n {
		parts = append(parts, string(runes[:n]))
		runes = runes[n:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
