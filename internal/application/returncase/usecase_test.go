package returncase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/celutaller-api/internal/application/dto"
	"github.com/jhoicas/celutaller-api/internal/application/returncase"
	"github.com/jhoicas/celutaller-api/internal/domain"
	"github.com/jhoicas/celutaller-api/internal/domain/entity"
	"github.com/jhoicas/celutaller-api/pkg/logger"
)

var fixedNow = time.Date(2025, 3, 10, 15, 4, 5, 0, time.UTC)

type fixture struct {
	repo *memRepo
	pdf  *stubPDF
	xlsx *stubXLSX
	uc   *returncase.UseCase
}

func newFixture() *fixture {
	repo := newMemRepo()
	f := &fixture{repo: repo, pdf: &stubPDF{}, xlsx: &stubXLSX{}}
	f.uc = returncase.NewUseCase(repo, &memTx{repo: repo}, f.pdf, f.xlsx, "CeluTaller", logger.Nop()).
		WithClock(func() time.Time { return fixedNow })
	return f
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func createReq(product string) dto.CreateReturnRequest {
	return dto.CreateReturnRequest{
		ProductName: strPtr(product),
		Reason:      "no enciende",
		FirstMovement: dto.MovementRequest{
			Type:        entity.CustodyTypeWorkshopReception,
			DeliveredBy: "cliente",
			ReceivedBy:  "mostrador",
		},
	}
}

func TestCreate_PantallaX(t *testing.T) {
	f := newFixture()

	got, err := f.uc.Create(context.Background(), createReq("Pantalla X"))
	require.NoError(t, err)

	assert.Equal(t, string(entity.ReturnStatusReported), got.Status)
	assert.Equal(t, "DEV-250310-0001", got.Code)
	require.Len(t, got.Movements, 1)
	assert.Equal(t, entity.CustodyTypeWorkshopReception, got.Movements[0].Type)
	assert.Equal(t, fixedNow, got.Movements[0].Date, "sin fecha se usa el instante actual")
	require.Len(t, got.History, 1)
	assert.Equal(t, string(entity.ReturnStatusReported), got.History[0].Status)
	assert.Equal(t, "Ingreso reportado", got.History[0].Comment)
	assert.Equal(t, entity.ActorSystem, got.History[0].Actor)
	assert.NotNil(t, got.Attachments)
	assert.Empty(t, got.Attachments)
}

func TestCreate_NotasDelPrimerMovimientoComoComentario(t *testing.T) {
	f := newFixture()
	req := createReq("Pantalla X")
	req.FirstMovement.Notes = strPtr("caja golpeada")

	got, err := f.uc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "caja golpeada", got.History[0].Comment)
}

func TestCreate_ProductoOInventarioExclusivos(t *testing.T) {
	f := newFixture()

	sinNada := createReq("")
	sinNada.ProductName = nil
	_, err := f.uc.Create(context.Background(), sinNada)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	ambos := createReq("Pantalla X")
	ambos.InventoryItemID = new(int64)
	*ambos.InventoryItemID = 7
	_, err = f.uc.Create(context.Background(), ambos)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	soloItem := createReq("")
	soloItem.ProductName = nil
	soloItem.InventoryItemID = ambos.InventoryItemID
	_, err = f.uc.Create(context.Background(), soloItem)
	assert.NoError(t, err)
}

func TestCreate_ValidacionCampos(t *testing.T) {
	f := newFixture()
	req := createReq("Pantalla X")
	req.Reason = "x"
	req.FirstMovement.ReceivedBy = ""

	_, err := f.uc.Create(context.Background(), req)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	fields := make([]string, 0, len(verr.Fields))
	for _, fe := range verr.Fields {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "motivo")
	assert.Contains(t, fields, "primerMovimiento.recibidoPor")
	assert.Empty(t, f.repo.st.cases, "nada se persiste")
}

func TestCreate_RollbackSiFallaElHistorial(t *testing.T) {
	f := newFixture()
	f.repo.failOn = "AddHistory"

	_, err := f.uc.Create(context.Background(), createReq("Pantalla X"))
	require.Error(t, err)
	assert.Empty(t, f.repo.st.cases)
	assert.Empty(t, f.repo.st.movements)
}

func TestTransition_HastaEntregadaProveedorConSLA(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.uc.Create(ctx, createReq("Pantalla X"))
	require.NoError(t, err)

	_, err = f.uc.Transition(ctx, created.ID, dto.TransitionRequest{Status: string(entity.ReturnStatusTechnicalReview)})
	require.NoError(t, err)

	sla := fixedNow.Add(48 * time.Hour)
	got, err := f.uc.Transition(ctx, created.ID, dto.TransitionRequest{
		Status:      string(entity.ReturnStatusSentToSupplier),
		SupplierSLA: &sla,
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.ReturnStatusSentToSupplier), got.Status)
	require.NotNil(t, got.SLAAlert)
	assert.Equal(t, "72h", *got.SLAAlert)
	require.Len(t, got.History, 3)
	assert.Equal(t, "Estado actualizado a entregada_proveedor", got.History[0].Comment)
	assert.JSONEq(t, `{"estadoAnterior":"revision_tecnica","estadoNuevo":"entregada_proveedor"}`, string(got.History[0].Metadata))
}

func TestTransition_ReportadaACerradaFalla(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.uc.Create(ctx, createReq("Pantalla X"))
	require.NoError(t, err)

	_, err = f.uc.Transition(ctx, created.ID, dto.TransitionRequest{Status: string(entity.ReturnStatusClosed)})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err := f.uc.GetDetail(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ReturnStatusReported), got.Status)
	assert.Len(t, got.History, 1)
}

func TestTransition_SinSLAFalla(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.uc.Create(ctx, createReq("Pantalla X"))
	require.NoError(t, err)
	_, err = f.uc.Transition(ctx, created.ID, dto.TransitionRequest{Status: string(entity.ReturnStatusTechnicalReview)})
	require.NoError(t, err)

	_, err = f.uc.Transition(ctx, created.ID, dto.TransitionRequest{Status: string(entity.ReturnStatusSentToSupplier)})
	assert.ErrorIs(t, err, domain.ErrMissingSLA)
}

func TestTransition_EstadoDesconocidoYNoExiste(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Transition(context.Background(), 1, dto.TransitionRequest{Status: "perdida"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Transition(context.Background(), 99, dto.TransitionRequest{Status: string(entity.ReturnStatusRejected)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransition_RollbackSiFallaElHistorial(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.uc.Create(ctx, createReq("Pantalla X"))
	require.NoError(t, err)

	f.repo.failOn = "AddHistory"
	_, err = f.uc.Transition(ctx, created.ID, dto.TransitionRequest{Status: string(entity.ReturnStatusRejected)})
	require.ErrorIs(t, err, errBoom)

	f.repo.failOn = ""
	got, err := f.uc.GetDetail(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ReturnStatusReported), got.Status, "el estado no cambia si el historial falla")
}

func rejected(t *testing.T, f *fixture) int64 {
	t.Helper()
	ctx := context.Background()
	created, err := f.uc.Create(ctx, createReq("Pantalla X"))
	require.NoError(t, err)
	_, err = f.uc.Transition(ctx, created.ID, dto.TransitionRequest{Status: string(entity.ReturnStatusRejected)})
	require.NoError(t, err)
	return created.ID
}

func closeReq(adjusted bool) dto.CloseReturnRequest {
	return dto.CloseReturnRequest{
		FinalResolution: "cambio por unidad nueva",
		StockAdjusted:   boolPtr(adjusted),
		ClosedBy:        "ana",
	}
}

func TestClose_RequiereAjusteDeStock(t *testing.T) {
	f := newFixture()
	id := rejected(t, f)

	_, err := f.uc.Close(context.Background(), id, closeReq(false))
	assert.ErrorIs(t, err, domain.ErrStockAdjustmentRequired)

	invalida := closeReq(false)
	invalida.FinalResolution = ""
	invalida.ClosedBy = ""
	_, err = f.uc.Close(context.Background(), 999, invalida)
	assert.ErrorIs(t, err, domain.ErrStockAdjustmentRequired, "se reporta aunque el resto del body sea inválido")
}

func TestClose_RequiereEntregaFinal(t *testing.T) {
	f := newFixture()
	id := rejected(t, f)

	_, err := f.uc.Close(context.Background(), id, closeReq(true))
	assert.ErrorIs(t, err, domain.ErrMissingFinalMovement)
}

func TestClose_Exitoso(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := rejected(t, f)
	_, err := f.uc.AddMovement(ctx, id, dto.MovementRequest{
		Type:        entity.CustodyTypeFinalDelivery,
		DeliveredBy: "mostrador",
		ReceivedBy:  "cliente",
	})
	require.NoError(t, err)

	got, err := f.uc.Close(ctx, id, closeReq(true))
	require.NoError(t, err)
	assert.Equal(t, string(entity.ReturnStatusClosed), got.Status)
	assert.True(t, got.StockAdjusted)
	require.NotNil(t, got.ClosedBy)
	assert.Equal(t, "ana", *got.ClosedBy)
	require.NotNil(t, got.ClosedAt)
	assert.Equal(t, fixedNow, *got.ClosedAt)
	assert.Equal(t, "Cerrada por ana", got.History[0].Comment)

	_, err = f.uc.Close(ctx, id, closeReq(true))
	assert.ErrorIs(t, err, domain.ErrAlreadyClosed)
}

func TestUpdate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.uc.Update(ctx, 1, dto.UpdateReturnRequest{})
	assert.ErrorIs(t, err, domain.ErrNothingToUpdate)

	_, err = f.uc.Update(ctx, 42, dto.UpdateReturnRequest{Diagnosis: strPtr("flex roto")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	created, err := f.uc.Create(ctx, createReq("Pantalla X"))
	require.NoError(t, err)
	got, err := f.uc.Update(ctx, created.ID, dto.UpdateReturnRequest{Diagnosis: strPtr("flex roto")})
	require.NoError(t, err)
	require.NotNil(t, got.Diagnosis)
	assert.Equal(t, "flex roto", *got.Diagnosis)
	assert.Equal(t, string(entity.ReturnStatusReported), got.Status)
}

func TestAddHistoryComment_UsaEstadoActual(t *testing.T) {
	f := newFixture()
	id := rejected(t, f)

	list, err := f.uc.AddHistoryComment(context.Background(), id, dto.HistoryCommentRequest{Comment: "llamar al cliente"})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "llamar al cliente", list[0].Comment)
	assert.Equal(t, string(entity.ReturnStatusRejected), list[0].Status)

	_, err = f.uc.AddHistoryComment(context.Background(), 404, dto.HistoryCommentRequest{Comment: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddAttachment_URLInvalida(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.uc.Create(ctx, createReq("Pantalla X"))
	require.NoError(t, err)

	_, err = f.uc.AddAttachment(ctx, created.ID, dto.AttachmentRequest{Type: "foto", URL: "no es url", UploadedBy: "ana"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := f.uc.AddAttachment(ctx, created.ID, dto.AttachmentRequest{Type: "foto", URL: "https://cdn.example.com/a.jpg", UploadedBy: "ana"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "https://cdn.example.com/a.jpg", list[0].URL)
}

func TestList_FiltraPorAlerta(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	mk := func(sla time.Time) int64 {
		created, err := f.uc.Create(ctx, createReq("Pantalla X"))
		require.NoError(t, err)
		_, err = f.uc.Update(ctx, created.ID, dto.UpdateReturnRequest{SupplierSLA: &sla})
		require.NoError(t, err)
		return created.ID
	}
	vencida := mk(fixedNow.Add(-time.Hour))
	en24 := mk(fixedNow.Add(time.Hour))
	en72 := mk(fixedNow.Add(50 * time.Hour))
	mk(fixedNow.Add(100 * time.Hour))

	cases := map[string]int64{"overdue": vencida, "24h": en24, "72h": en72}
	for alert, want := range cases {
		list, err := f.uc.List(ctx, dto.ReturnListQuery{Alert: alert})
		require.NoError(t, err, alert)
		require.Len(t, list, 1, alert)
		assert.Equal(t, want, list[0].ID, alert)
		assert.Equal(t, alert, *list[0].SLAAlert)
	}

	all, err := f.uc.List(ctx, dto.ReturnListQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	_, err = f.uc.List(ctx, dto.ReturnListQuery{Alert: "48h"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestList_FiltraPorEstado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	rejected(t, f)
	_, err := f.uc.Create(ctx, createReq("Batería"))
	require.NoError(t, err)

	list, err := f.uc.List(ctx, dto.ReturnListQuery{Status: string(entity.ReturnStatusRejected)})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, string(entity.ReturnStatusRejected), list[0].Status)
}

func TestExportCSV_EscapaComas(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	req := createReq("Pantalla X")
	req.Reason = "Broken, cracked"
	_, err := f.uc.Create(ctx, req)
	require.NoError(t, err)

	out, err := f.uc.ExportCSV(ctx, dto.ReturnReportQuery{})
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "codigo,estado,motivo,diagnostico,fecha_creacion,fecha_actualizacion,sla_proveedor,resultado,proveedor,cliente", lines[0])
	assert.Equal(t, `DEV-250310-0001,reportada,"Broken, cracked",,2025-03-10T15:04:05.000Z,2025-03-10T15:04:05.000Z,,,,`, lines[1])
}

func TestBuildCSV_ComillasYSaltos(t *testing.T) {
	out := returncase.BuildCSV([][]string{{`dice "hola"`, "a\nb", "simple", "", "", "", "", "", "", ""}})
	lines := strings.SplitN(out, "\n", 2)
	assert.Equal(t, `"dice ""hola""","a`+"\n"+`b",simple,,,,,,,`, lines[1])
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestExportXLSXYPDF(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.uc.Create(ctx, createReq("Pantalla X"))
	require.NoError(t, err)

	_, err = f.uc.ExportXLSX(ctx, dto.ReturnReportQuery{Status: string(entity.ReturnStatusReported)})
	require.NoError(t, err)
	assert.Len(t, f.xlsx.header, 10)
	require.Len(t, f.xlsx.rows, 1)
	assert.Equal(t, created.Code, f.xlsx.rows[0][0])

	pdf, err := f.uc.ExportPDF(ctx, created.ID)
	require.NoError(t, err)
	assert.Contains(t, string(pdf), created.Code)
	assert.Equal(t, "CeluTaller", f.pdf.gotShop)

	_, err = f.uc.ExportPDF(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEncodeWindows1252(t *testing.T) {
	out, err := returncase.EncodeWindows1252("diagnóstico,ñ,→")
	require.NoError(t, err)
	assert.Equal(t, []byte{'d', 'i', 'a', 'g', 'n', 0xF3, 's', 't', 'i', 'c', 'o', ',', 0xF1, ',', 0x1A}, out)
}
