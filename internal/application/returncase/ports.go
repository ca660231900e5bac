package returncase

import (
	"context"

	"github.com/jhoicas/celutaller-api/internal/domain/entity"
	"github.com/jhoicas/celutaller-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una única transacción dedicada, con el
// repositorio de devoluciones atado a ella. Error en fn → rollback completo.
type TxRunner interface {
	RunReturns(ctx context.Context, fn func(repo repository.ReturnCaseRepository) error) error
}

// PDFGenerator genera el acta de una devolución.
type PDFGenerator interface {
	GenerateReturnPDF(ctx context.Context, detail *entity.ReturnCaseDetail, shopName string) ([]byte, error)
}

// SpreadsheetWriter serializa el reporte tabular a XLSX.
type SpreadsheetWriter interface {
	WriteReport(sheet string, header []string, rows [][]string) ([]byte, error)
}
