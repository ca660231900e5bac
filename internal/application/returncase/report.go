package returncase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/celutaller-api/internal/application/dto"
	"github.com/jhoicas/celutaller-api/internal/domain"
	"github.com/jhoicas/celutaller-api/internal/domain/entity"
	"github.com/jhoicas/celutaller-api/internal/domain/repository"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const reportSheet = "Devoluciones"

var reportHeader = []string{
	"codigo",
	"estado",
	"motivo",
	"diagnostico",
	"fecha_creacion",
	"fecha_actualizacion",
	"sla_proveedor",
	"resultado",
	"proveedor",
	"cliente",
}

// ExportCSV genera el reporte CSV (sin tope de filas, más recientes primero).
func (uc *UseCase) ExportCSV(ctx context.Context, q dto.ReturnReportQuery) (string, error) {
	rows, err := uc.reportRows(ctx, q)
	if err != nil {
		return "", err
	}
	return BuildCSV(rows), nil
}

// ExportXLSX genera el mismo reporte como hoja de cálculo.
func (uc *UseCase) ExportXLSX(ctx context.Context, q dto.ReturnReportQuery) ([]byte, error) {
	rows, err := uc.reportRows(ctx, q)
	if err != nil {
		return nil, err
	}
	return uc.xlsx.WriteReport(reportSheet, reportHeader, rows)
}

// ExportPDF genera el acta de la devolución id.
func (uc *UseCase) ExportPDF(ctx context.Context, id int64) ([]byte, error) {
	detail, err := loadDetail(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, domain.ErrNotFound
	}
	return uc.pdf.GenerateReturnPDF(ctx, detail, uc.shopName)
}

func (uc *UseCase) reportRows(ctx context.Context, q dto.ReturnReportQuery) ([][]string, error) {
	filter := repository.ReturnCaseFilter{CreatedFrom: q.From, CreatedTo: q.To}
	if q.Status != "" {
		status, err := parseStatus(q.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(list))
	for _, rc := range list {
		rows = append(rows, reportRow(rc))
	}
	return rows, nil
}

func reportRow(rc *entity.ReturnCase) []string {
	return []string{
		rc.Code,
		string(rc.Status),
		rc.Reason,
		str(rc.Diagnosis),
		isoTime(&rc.CreatedAt),
		isoTime(&rc.UpdatedAt),
		isoTime(rc.SupplierSLA),
		str(rc.FinalResolution),
		str(rc.SupplierName),
		str(rc.ClientName),
	}
}

// BuildCSV une encabezado y filas con "\n", sin salto final.
func BuildCSV(rows [][]string) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(reportHeader, ","))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = escapeCSV(v)
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n")
}

// escapeCSV entrecomilla solo si el valor contiene coma, comilla o salto de línea.
func escapeCSV(v string) string {
	if !strings.ContainsAny(v, ",\"\n") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// EncodeWindows1252 recodifica el CSV para Excel en configuración regional
// española. Los caracteres sin equivalente se reemplazan.
func EncodeWindows1252(csv string) ([]byte, error) {
	out, _, err := transform.String(encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()), csv)
	if err != nil {
		return nil, fmt.Errorf("csv windows-1252: %w", err)
	}
	return []byte(out), nil
}

func isoTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
