package returncase

import (
	"time"

	"github.com/jhoicas/celutaller-api/internal/application/dto"
	"github.com/jhoicas/celutaller-api/internal/domain/entity"
	workflow "github.com/jhoicas/celutaller-api/internal/domain/returns"
)

func toSummary(rc *entity.ReturnCase, alert workflow.SLAAlert) dto.ReturnSummaryResponse {
	return dto.ReturnSummaryResponse{
		ID:              rc.ID,
		Code:            rc.Code,
		Status:          string(rc.Status),
		Reason:          rc.Reason,
		Diagnosis:       rc.Diagnosis,
		SupplierSLA:     rc.SupplierSLA,
		SLAAlert:        alert.Ptr(),
		CreatedAt:       rc.CreatedAt,
		UpdatedAt:       rc.UpdatedAt,
		FinalResolution: rc.FinalResolution,
		SupplierName:    rc.SupplierName,
		ClientName:      rc.ClientName,
	}
}

func toDetailResponse(d *entity.ReturnCaseDetail, now time.Time) *dto.ReturnDetailResponse {
	rc := d.Case
	return &dto.ReturnDetailResponse{
		ReturnSummaryResponse: toSummary(rc, workflow.AlertFor(now, rc.SupplierSLA)),
		InventoryItemID:       rc.InventoryItemID,
		ProductName:           rc.ProductName,
		SupplierID:            rc.SupplierID,
		ClientID:              rc.ClientID,
		StockAdjusted:         rc.StockAdjusted,
		AdjustmentNotes:       rc.AdjustmentNotes,
		ClosedBy:              rc.ClosedBy,
		ClosedAt:              rc.ClosedAt,
		Movements:             toMovementResponses(d.Movements),
		History:               toHistoryResponses(d.History),
		Attachments:           toAttachmentResponses(d.Attachments),
	}
}

func toMovementResponses(list []*entity.CustodyMovement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementResponse{
			ID:          m.ID,
			Type:        m.Type,
			DeliveredBy: m.DeliveredBy,
			ReceivedBy:  m.ReceivedBy,
			Date:        m.Date,
			Notes:       m.Notes,
		})
	}
	return out
}

func toHistoryResponses(list []*entity.HistoryEntry) []dto.HistoryResponse {
	out := make([]dto.HistoryResponse, 0, len(list))
	for _, h := range list {
		out = append(out, dto.HistoryResponse{
			ID:        h.ID,
			Status:    string(h.Status),
			Comment:   h.Comment,
			Actor:     h.Actor,
			Metadata:  h.Metadata,
			CreatedAt: h.CreatedAt,
		})
	}
	return out
}

func toAttachmentResponses(list []*entity.Attachment) []dto.AttachmentResponse {
	out := make([]dto.AttachmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.AttachmentResponse{
			ID:         a.ID,
			Type:       a.Type,
			URL:        a.URL,
			Name:       a.Name,
			UploadedBy: a.UploadedBy,
			CreatedAt:  a.CreatedAt,
		})
	}
	return out
}
