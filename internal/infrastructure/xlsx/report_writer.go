// Package xlsx exporta reportes tabulares a hojas de cálculo con excelize.
package xlsx

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/celutaller-api/internal/application/returncase"
)

var _ returncase.SpreadsheetWriter = (*ReportWriter)(nil)

// ReportWriter implementa returncase.SpreadsheetWriter.
type ReportWriter struct{}

// NewReportWriter construye el writer.
func NewReportWriter() *ReportWriter { return &ReportWriter{} }

// WriteReport escribe encabezado (en negrita, fila 1) y filas en la hoja sheet.
func (w *ReportWriter) WriteReport(sheet string, header []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}

	if err := setRow(f, sheet, 1, header); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo encabezado: %w", err)
	}
	if len(header) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return nil, fmt.Errorf("xlsx: estilo encabezado: %w", err)
		}
	}

	for i, r := range rows {
		if err := setRow(f, sheet, i+2, r); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, rowNo int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		return fmt.Errorf("xlsx: celda: %w", err)
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("xlsx: fila %d: %w", rowNo, err)
	}
	return nil
}
