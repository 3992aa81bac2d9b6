// Package analytics es el motor de analítica financiera y de utilización de activos.
//
// Todas las funciones son puras: reciben colecciones ya cargadas en memoria, un período
// [start, end) y, cuando aplica, el instante "now" explícito. No leen el reloj del sistema,
// no acceden a la base de datos y no guardan estado entre llamadas.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	secondsPerDay = 24 * 60 * 60
	daysPerMonth  = 30 // mes comercial para promedios
)

var (
	zero    = decimal.Zero
	one     = decimal.NewFromInt(1)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
	dayLen  = decimal.NewFromInt(secondsPerDay)
)

// Window período de análisis con inicio inclusivo y fin exclusivo.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow construye la ventana validando start < end.
func NewWindow(start, end time.Time) (Window, error) {
	w := Window{Start: start, End: end}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

// Validate falla si la ventana está vacía o invertida.
func (w Window) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return &ValidationError{Field: "window", Reason: "start y end son obligatorios"}
	}
	if !w.Start.Before(w.End) {
		return &ValidationError{
			Field:  "window",
			Reason: fmt.Sprintf("start (%s) debe ser anterior a end (%s)", w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339)),
		}
	}
	return nil
}

// Contains informa si t cae en [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Days duración exacta de la ventana en días (fraccionaria).
func (w Window) Days() decimal.Decimal {
	secs := int64(w.End.Sub(w.Start) / time.Second)
	if secs <= 0 {
		return zero
	}
	return decimal.NewFromInt(secs).Div(dayLen)
}

// TotalDays duración de la ventana redondeada hacia arriba a días completos.
func (w Window) TotalDays() int {
	return ceilDiv(int64(w.End.Sub(w.Start)/time.Second), secondsPerDay)
}

// Months número de meses de la ventana para promedios (ver MonthsBetween).
func (w Window) Months() int {
	return MonthsBetween(w.Start, w.End)
}

// FilterByWindow devuelve los registros cuya fecha cae en [Start, End), preservando el orden.
func FilterByWindow[T any](records []T, w Window, date func(T) time.Time) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if w.Contains(date(r)) {
			out = append(out, r)
		}
	}
	return out
}

// MonthsBetween cuenta meses de 30 días redondeando hacia arriba, nunca menos de 1.
// Una ventana de 45 días cuenta como 2 meses; se usa como divisor de promedios.
func MonthsBetween(start, end time.Time) int {
	n := ceilDiv(int64(end.Sub(start)/time.Second), daysPerMonth*secondsPerDay)
	if n < 1 {
		return 1
	}
	return n
}

// CalendarMonthsBetween diferencia de meses de calendario (con signo) entre from y to,
// sin considerar el día del mes. Es la base de plazos de contratos de leasing/alquiler.
func CalendarMonthsBetween(from, to time.Time) int {
	to = to.In(from.Location())
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// DaysBetween días completos transcurridos de from a to (floor; negativo si to < from).
func DaysBetween(from, to time.Time) int {
	d := to.Sub(from)
	days := int(d / (24 * time.Hour))
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}

// YearsBetween años transcurridos expresados como meses completos / 12.
// Un mes cuenta solo cuando se alcanza el mismo día del mes; nunca es negativo.
func YearsBetween(from, to time.Time) decimal.Decimal {
	months := CalendarMonthsBetween(from, to)
	if to.In(from.Location()).Day() < from.Day() {
		months--
	}
	if months <= 0 {
		return zero
	}
	return decimal.NewFromInt(int64(months)).Div(twelve)
}

// GroupByAsset agrupa los registros por activo; cada lista queda ordenada por fecha ascendente
// (orden estable para registros con la misma fecha).
func GroupByAsset[T any](records []T, assetID func(T) string, date func(T) time.Time) map[string][]T {
	groups := make(map[string][]T)
	for _, r := range records {
		id := assetID(r)
		groups[id] = append(groups[id], r)
	}
	for _, list := range groups {
		sort.SliceStable(list, func(i, j int) bool {
			return date(list[i]).Before(date(list[j]))
		})
	}
	return groups
}

func ceilDiv(n, d int64) int {
	if n <= 0 {
		return 0
	}
	return int((n + d - 1) / d)
}
