package returncase_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/celutaller-api/internal/domain/entity"
	"github.com/jhoicas/celutaller-api/internal/domain/repository"
	workflow "github.com/jhoicas/celutaller-api/internal/domain/returns"
)

// memState estado en memoria de las devoluciones.
type memState struct {
	seq         int64
	nextID      int64
	cases       map[int64]entity.ReturnCase
	movements   []entity.CustodyMovement
	history     []entity.HistoryEntry
	attachments []entity.Attachment
}

func (s *memState) clone() *memState {
	c := *s
	c.cases = make(map[int64]entity.ReturnCase, len(s.cases))
	for k, v := range s.cases {
		c.cases[k] = v
	}
	c.movements = append([]entity.CustodyMovement(nil), s.movements...)
	c.history = append([]entity.HistoryEntry(nil), s.history...)
	c.attachments = append([]entity.Attachment(nil), s.attachments...)
	return &c
}

// memRepo implementa repository.ReturnCaseRepository sobre memState.
type memRepo struct {
	st *memState

	// failOn hace fallar la operación con ese nombre (ej. "AddHistory").
	failOn string
}

var errBoom = errors.New("boom")

func newMemRepo() *memRepo {
	return &memRepo{st: &memState{cases: map[int64]entity.ReturnCase{}}}
}

func (r *memRepo) fail(op string) error {
	if r.failOn == op {
		return errBoom
	}
	return nil
}

func (r *memRepo) id() int64 {
	r.st.nextID++
	return r.st.nextID
}

func (r *memRepo) NextCode(_ context.Context, now time.Time) (string, error) {
	r.st.seq++
	return workflow.FormatCode(now, r.st.seq), nil
}

func (r *memRepo) Create(_ context.Context, rc *entity.ReturnCase) error {
	if err := r.fail("Create"); err != nil {
		return err
	}
	rc.ID = r.id()
	r.st.cases[rc.ID] = *rc
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*entity.ReturnCase, error) {
	rc, ok := r.st.cases[id]
	if !ok {
		return nil, nil
	}
	return &rc, nil
}

func (r *memRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.ReturnCase, error) {
	return r.GetByID(ctx, id)
}

func (r *memRepo) List(_ context.Context, f repository.ReturnCaseFilter) ([]*entity.ReturnCase, error) {
	var out []*entity.ReturnCase
	for _, rc := range r.st.cases {
		rc := rc
		if f.Status != nil && rc.Status != *f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(rc.Code), strings.ToLower(f.Search)) {
			continue
		}
		if f.SLAFrom != nil && (rc.SupplierSLA == nil || rc.SupplierSLA.Before(*f.SLAFrom)) {
			continue
		}
		if f.SLATo != nil && (rc.SupplierSLA == nil || rc.SupplierSLA.After(*f.SLATo)) {
			continue
		}
		if f.CreatedFrom != nil && rc.CreatedAt.Before(*f.CreatedFrom) {
			continue
		}
		if f.CreatedTo != nil && rc.CreatedAt.After(*f.CreatedTo) {
			continue
		}
		out = append(out, &rc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *memRepo) Update(_ context.Context, id int64, p repository.ReturnCasePatch, now time.Time) (bool, error) {
	rc, ok := r.st.cases[id]
	if !ok {
		return false, nil
	}
	if p.Reason != nil {
		rc.Reason = *p.Reason
	}
	if p.Diagnosis != nil {
		rc.Diagnosis = p.Diagnosis
	}
	if p.SupplierID != nil {
		rc.SupplierID = p.SupplierID
	}
	if p.ClientID != nil {
		rc.ClientID = p.ClientID
	}
	if p.SupplierSLA != nil {
		rc.SupplierSLA = p.SupplierSLA
	}
	rc.UpdatedAt = now
	r.st.cases[id] = rc
	return true, nil
}

func (r *memRepo) UpdateStatus(_ context.Context, id int64, status entity.ReturnStatus, sla *time.Time, now time.Time) error {
	if err := r.fail("UpdateStatus"); err != nil {
		return err
	}
	rc := r.st.cases[id]
	rc.Status = status
	if sla != nil {
		rc.SupplierSLA = sla
	}
	rc.UpdatedAt = now
	r.st.cases[id] = rc
	return nil
}

func (r *memRepo) Close(_ context.Context, id int64, c repository.ReturnCaseClosure) error {
	rc := r.st.cases[id]
	rc.Status = entity.ReturnStatusClosed
	rc.FinalResolution = &c.FinalResolution
	rc.StockAdjusted = true
	rc.AdjustmentNotes = c.AdjustmentNotes
	rc.ClosedBy = &c.ClosedBy
	rc.ClosedAt = &c.ClosedAt
	rc.UpdatedAt = c.ClosedAt
	r.st.cases[id] = rc
	return nil
}

func (r *memRepo) AddMovement(_ context.Context, m *entity.CustodyMovement) error {
	if err := r.fail("AddMovement"); err != nil {
		return err
	}
	m.ID = r.id()
	r.st.movements = append(r.st.movements, *m)
	return nil
}

func (r *memRepo) ListMovements(_ context.Context, returnID int64) ([]*entity.CustodyMovement, error) {
	var out []*entity.CustodyMovement
	for _, m := range r.st.movements {
		m := m
		if m.ReturnID == returnID {
			out = append(out, &m)
		}
	}
	return out, nil
}

func (r *memRepo) HasMovementOfType(_ context.Context, returnID int64, movementType string) (bool, error) {
	for _, m := range r.st.movements {
		if m.ReturnID == returnID && m.Type == movementType {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) AddHistory(_ context.Context, h *entity.HistoryEntry) error {
	if err := r.fail("AddHistory"); err != nil {
		return err
	}
	h.ID = r.id()
	r.st.history = append(r.st.history, *h)
	return nil
}

func (r *memRepo) ListHistory(_ context.Context, returnID int64) ([]*entity.HistoryEntry, error) {
	var out []*entity.HistoryEntry
	for i := len(r.st.history) - 1; i >= 0; i-- {
		h := r.st.history[i]
		if h.ReturnID == returnID {
			out = append(out, &h)
		}
	}
	return out, nil
}

func (r *memRepo) AddAttachment(_ context.Context, a *entity.Attachment) error {
	a.ID = r.id()
	r.st.attachments = append(r.st.attachments, *a)
	return nil
}

func (r *memRepo) ListAttachments(_ context.Context, returnID int64) ([]*entity.Attachment, error) {
	var out []*entity.Attachment
	for i := len(r.st.attachments) - 1; i >= 0; i-- {
		a := r.st.attachments[i]
		if a.ReturnID == returnID {
			out = append(out, &a)
		}
	}
	return out, nil
}

// memTx ejecuta fn sobre una copia del estado y la confirma solo si fn no falla.
type memTx struct {
	mu   sync.Mutex
	repo *memRepo
}

func (t *memTx) RunReturns(ctx context.Context, fn func(repo repository.ReturnCaseRepository) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	txRepo := &memRepo{st: t.repo.st.clone(), failOn: t.repo.failOn}
	if err := fn(txRepo); err != nil {
		return err
	}
	*t.repo.st = *txRepo.st
	return nil
}

type stubPDF struct{ gotShop string }

func (p *stubPDF) GenerateReturnPDF(_ context.Context, d *entity.ReturnCaseDetail, shopName string) ([]byte, error) {
	p.gotShop = shopName
	return []byte("%PDF " + d.Case.Code), nil
}

type stubXLSX struct {
	header []string
	rows   [][]string
}

func (x *stubXLSX) WriteReport(_ string, header []string, rows [][]string) ([]byte, error) {
	x.header, x.rows = header, rows
	return []byte("xlsx"), nil
}
