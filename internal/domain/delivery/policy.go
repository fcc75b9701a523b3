// Package delivery implementa la política de fecha de entrega y hora de corte.
//
// Una sola hora de corte diaria (por defecto 18:00 local) parte el día en dos
// regímenes: antes del corte la entrega más próxima es mañana; desde el corte
// en adelante se corre un día más (pasado mañana).
package delivery

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultCutoff hora de corte por defecto (18:00, formato HH:MM de 24 horas).
const DefaultCutoff = "18:00"

// Policy evalúa fechas de entrega contra la hora de corte configurada.
type Policy struct {
	cutoffHour   int
	cutoffMinute int
	loc          *time.Location
}

// NewPolicy construye la política. cutoff en formato "HH:MM"; loc es la zona
// horaria local del negocio (nil = time.Local).
func NewPolicy(cutoff string, loc *time.Location) (*Policy, error) {
	if loc == nil {
		loc = time.Local
	}
	parts := strings.SplitN(cutoff, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("hora de corte inválida: %q", cutoff)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return nil, fmt.Errorf("hora de corte inválida: %q", cutoff)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("hora de corte inválida: %q", cutoff)
	}
	return &Policy{cutoffHour: hour, cutoffMinute: minute, loc: loc}, nil
}

// IsAfterCutoff compara solo la hora del día contra el corte (la fecha se ignora).
// El instante exacto del corte ya cuenta como después.
func (p *Policy) IsAfterCutoff(now time.Time) bool {
	now = now.In(p.loc)
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), p.cutoffHour, p.cutoffMinute, 0, 0, p.loc)
	return !now.Before(cutoff)
}

// NextAvailableDate devuelve la fecha de entrega más próxima: now+1 día antes
// del corte, now+2 días desde el corte. El resultado está truncado a medianoche local.
func (p *Policy) NextAvailableDate(now time.Time) time.Time {
	days := 1
	if p.IsAfterCutoff(now) {
		days = 2
	}
	now = now.In(p.loc)
	return time.Date(now.Year(), now.Month(), now.Day()+days, 0, 0, 0, 0, p.loc)
}

// IsValidDeliveryDate indica si candidate es entregable: igual o posterior a
// NextAvailableDate(now). Solo cuenta la fecha de candidate, no su hora.
func (p *Policy) IsValidDeliveryDate(candidate, now time.Time) bool {
	candidate = candidate.In(p.loc)
	day := time.Date(candidate.Year(), candidate.Month(), candidate.Day(), 0, 0, 0, 0, p.loc)
	return !day.Before(p.NextAvailableDate(now))
}

// Location devuelve la zona horaria de la política.
func (p *Policy) Location() *time.Location { return p.loc }
