package returns

import "time"

// SLAAlert bucket de alerta del SLA del proveedor.
type SLAAlert string

const (
	SLAAlertNone    SLAAlert = ""
	SLAAlert72h     SLAAlert = "72h"
	SLAAlert24h     SLAAlert = "24h"
	SLAAlertOverdue SLAAlert = "overdue"
)

// ParseSLAAlert convierte el filtro de consulta; ok=false si no es un bucket conocido.
func ParseSLAAlert(s string) (SLAAlert, bool) {
	switch SLAAlert(s) {
	case SLAAlert72h, SLAAlert24h, SLAAlertOverdue:
		return SLAAlert(s), true
	}
	return SLAAlertNone, false
}

// AlertFor calcula el bucket de alerta para deadline en el instante now.
// Función pura: no se almacena.
func AlertFor(now time.Time, deadline *time.Time) SLAAlert {
	if deadline == nil {
		return SLAAlertNone
	}
	switch {
	case now.After(*deadline):
		return SLAAlertOverdue
	case !now.Before(deadline.Add(-24 * time.Hour)):
		return SLAAlert24h
	case !now.Before(deadline.Add(-72 * time.Hour)):
		return SLAAlert72h
	default:
		return SLAAlertNone
	}
}

// Ptr devuelve nil para SLAAlertNone (serializa como null).
func (a SLAAlert) Ptr() *string {
	if a == SLAAlertNone {
		return nil
	}
	s := string(a)
	return &s
}

// Window rango de fechas de SLA (ambos extremos inclusive, nil = abierto) que
// contiene a todas las devoluciones del bucket en el instante now. Sirve para
// filtrar en la base de datos; el bucket exacto se confirma con AlertFor.
func (a SLAAlert) Window(now time.Time) (from, to *time.Time) {
	at := func(d time.Duration) *time.Time {
		t := now.Add(d)
		return &t
	}
	switch a {
	case SLAAlertOverdue:
		return nil, at(0)
	case SLAAlert24h:
		return at(0), at(24 * time.Hour)
	case SLAAlert72h:
		return at(24 * time.Hour), at(72 * time.Hour)
	}
	return nil, nil
}
