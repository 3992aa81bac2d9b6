package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/field-assets-api/internal/domain/entity"
)

// UsageStatus clasificación de uso de un activo.
type UsageStatus string

const (
	StatusActive     UsageStatus = "active"
	StatusInactive   UsageStatus = "inactive"
	StatusRarelyUsed UsageStatus = "rarely_used"
)

const (
	rarelyUsedMaxMovements = 2  // <= 2 movimientos en el período: casi sin actividad
	inactiveAfterDays      = 60 // sin uso por más de 60 días
	recencyHorizonDays     = 90 // a partir de 90 días la recencia vale 0
)

var (
	recencyWeight   = decimal.NewFromFloat(0.6)
	frequencyWeight = decimal.NewFromFloat(0.4)
	recencyHorizon  = decimal.NewFromInt(recencyHorizonDays)
)

// UsageInput registros para el análisis de uso. Movements debe incluir el histórico completo:
// last_usage_date refleja el último uso real aunque caiga fuera del período.
type UsageInput struct {
	Assets    []entity.Asset
	Movements []entity.MovementRecord
	Sites     []entity.Site
	Users     []entity.User
	Window    Window
	Now       time.Time
}

// UsageAnalysis uso de un activo en el período.
type UsageAnalysis struct {
	ToolID       string  `json:"tool_id"`
	ToolName     string  `json:"tool_name"`
	CategoryName *string `json:"category_name"`
	IsConsumable bool    `json:"is_consumable"`

	TotalMovements int `json:"total_movements"`
	CheckoutCount  int `json:"checkout_count"`
	CheckinCount   int `json:"checkin_count"`
	TransferCount  int `json:"transfer_count"`
	OtherCount     int `json:"other_count"` // ajustes, consumos y traslados masivos

	AverageMovementsPerMonth decimal.Decimal `json:"average_movements_per_month"`
	MostActiveSite           *string         `json:"most_active_site"`
	MostActiveUser           *string         `json:"most_active_user"`

	FirstUsageDate   *time.Time `json:"first_usage_date"` // primer movimiento dentro del período
	LastUsageDate    *time.Time `json:"last_usage_date"`  // último movimiento histórico
	DaysSinceLastUse *int       `json:"days_since_last_use"`

	RecencyScore   decimal.Decimal `json:"recency_score"`
	FrequencyScore decimal.Decimal `json:"frequency_score"`
	UsageScore     decimal.Decimal `json:"usage_score"` // 0.6 recencia + 0.4 frecuencia
	Status         UsageStatus     `json:"status"`
}

// UsageReport resultado del análisis de uso.
type UsageReport struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	TotalDays   int       `json:"total_days"`

	TotalMovements         int             `json:"total_movements"`
	AverageMovementsPerDay decimal.Decimal `json:"average_movements_per_day"`

	ActiveTools     int `json:"active_tools"`
	InactiveTools   int `json:"inactive_tools"`
	RarelyUsedTools int `json:"rarely_used_tools"`

	UsageAnalyses    []UsageAnalysis   `json:"usage_analyses"`
	SkippedCount     int               `json:"skipped_count"`
	DataQualityNotes []DataQualityNote `json:"data_quality_notes"` // tipos de movimiento desconocidos
}

// AnalyzeUsage calcula frecuencia, recencia, clasificación y puntuación de uso por activo.
//
// La recencia es absoluta (100 si se usó hoy, 0 a partir de 90 días o si nunca se usó);
// la frecuencia es relativa a la población del reporte, igual que la eficiencia de costos.
func AnalyzeUsage(in UsageInput) (*UsageReport, error) {
	if err := in.Window.Validate(); err != nil {
		return nil, err
	}

	known := indexAssets(in.Assets)
	skipped := 0
	valid := make([]entity.MovementRecord, 0, len(in.Movements))
	for _, m := range in.Movements {
		if _, ok := known[m.AssetID]; !ok {
			skipped++
			continue
		}
		valid = append(valid, m)
	}
	history := GroupByAsset(valid,
		func(m entity.MovementRecord) string { return m.AssetID },
		func(m entity.MovementRecord) time.Time { return m.OccurredAt },
	)

	siteNames := make(map[string]string, len(in.Sites))
	for _, s := range in.Sites {
		siteNames[s.ID] = s.Name
	}
	userNames := make(map[string]string, len(in.Users))
	for _, u := range in.Users {
		userNames[u.ID] = u.Name
	}

	months := decimal.NewFromInt(int64(in.Window.Months()))
	notes := newNoteBook()
	unknownTypes := make(map[string]bool)
	analyses := make([]UsageAnalysis, 0, len(in.Assets))
	for _, a := range in.Assets {
		all := history[a.ID]
		inWindow := FilterByWindow(all, in.Window, func(m entity.MovementRecord) time.Time { return m.OccurredAt })

		an := UsageAnalysis{
			ToolID:         a.ID,
			ToolName:       a.Name,
			CategoryName:   a.CategoryName,
			IsConsumable:   a.IsConsumable,
			TotalMovements: len(inWindow),
			RecencyScore:   zero,
			FrequencyScore: zero,
		}
		for _, m := range inWindow {
			switch m.Type {
			case entity.MovementCheckout:
				an.CheckoutCount++
			case entity.MovementCheckin:
				an.CheckinCount++
			case entity.MovementTransfer:
				an.TransferCount++
			default:
				an.OtherCount++
				if key := a.ID + "|" + string(m.Type); !m.Type.Valid() && !unknownTypes[key] {
					unknownTypes[key] = true
					notes.add(a.ID, NoteUnknownMovementType, fmt.Sprintf("tipo de movimiento desconocido %q; se cuenta como otro", m.Type))
				}
			}
		}
		an.AverageMovementsPerMonth = decimal.NewFromInt(int64(an.TotalMovements)).Div(months).Round(2)

		if len(inWindow) > 0 {
			first := inWindow[0].OccurredAt
			an.FirstUsageDate = &first
		}
		if len(all) > 0 {
			last := all[len(all)-1].OccurredAt
			days := max(DaysBetween(last, in.Now), 0)
			an.LastUsageDate = &last
			an.DaysSinceLastUse = &days
		}

		an.MostActiveSite = resolveName(mostFrequent(inWindow, func(m entity.MovementRecord) *string { return m.ToLocation }), siteNames)
		an.MostActiveUser = resolveName(mostFrequent(inWindow, func(m entity.MovementRecord) *string { return m.PerformedBy }), userNames)
		an.Status = classifyUsage(an.TotalMovements, an.DaysSinceLastUse)
		an.RecencyScore = recencyScore(an.DaysSinceLastUse)

		analyses = append(analyses, an)
	}

	// Frecuencia relativa entre los activos con actividad en el período
	var scored []int
	var values []decimal.Decimal
	for i, an := range analyses {
		if an.TotalMovements > 0 {
			scored = append(scored, i)
			values = append(values, decimal.NewFromInt(int64(an.TotalMovements)).Div(months))
		}
	}
	for k, score := range rankScores(values, true) {
		analyses[scored[k]].FrequencyScore = score
	}

	report := &UsageReport{
		PeriodStart:            in.Window.Start,
		PeriodEnd:              in.Window.End,
		TotalDays:              in.Window.TotalDays(),
		AverageMovementsPerDay: zero,
		UsageAnalyses:          analyses,
		SkippedCount:           skipped,
		DataQualityNotes:       notes.notes,
	}
	for i := range analyses {
		an := &analyses[i]
		an.UsageScore = clampScore(
			recencyWeight.Mul(an.RecencyScore).Add(frequencyWeight.Mul(an.FrequencyScore)),
		).Round(2)

		report.TotalMovements += an.TotalMovements
		switch an.Status {
		case StatusActive:
			report.ActiveTools++
		case StatusInactive:
			report.InactiveTools++
		case StatusRarelyUsed:
			report.RarelyUsedTools++
		}
	}
	if report.TotalDays > 0 {
		report.AverageMovementsPerDay = decimal.NewFromInt(int64(report.TotalMovements)).
			Div(decimal.NewFromInt(int64(report.TotalDays))).Round(2)
	}
	return report, nil
}

// classifyUsage evalúa en orden de prioridad; la primera regla que aplica gana.
func classifyUsage(totalMovements int, daysSinceLastUse *int) UsageStatus {
	switch {
	case totalMovements <= rarelyUsedMaxMovements:
		return StatusRarelyUsed
	case daysSinceLastUse == nil || *daysSinceLastUse > inactiveAfterDays:
		return StatusInactive
	default:
		return StatusActive
	}
}

// recencyScore = 100 * max(0, 1 - días/90); 0 si nunca se usó.
func recencyScore(daysSinceLastUse *int) decimal.Decimal {
	if daysSinceLastUse == nil {
		return zero
	}
	ratio := decimal.NewFromInt(int64(*daysSinceLastUse)).Div(recencyHorizon)
	if ratio.GreaterThanOrEqual(one) {
		return zero
	}
	return clampScore(hundred.Mul(one.Sub(ratio))).Round(2)
}

// mostFrequent devuelve la moda de key entre movimientos ordenados por fecha.
// Empates: gana la aparición más reciente; si coincide la fecha, el id menor.
func mostFrequent(movements []entity.MovementRecord, key func(entity.MovementRecord) *string) *string {
	type tally struct {
		count int
		last  time.Time
	}
	counts := make(map[string]*tally)
	for _, m := range movements {
		k := key(m)
		if k == nil || *k == "" {
			continue
		}
		t, ok := counts[*k]
		if !ok {
			t = &tally{}
			counts[*k] = t
		}
		t.count++
		if m.OccurredAt.After(t.last) {
			t.last = m.OccurredAt
		}
	}

	var best string
	var bestTally *tally
	for k, t := range counts {
		switch {
		case bestTally == nil,
			t.count > bestTally.count,
			t.count == bestTally.count && t.last.After(bestTally.last),
			t.count == bestTally.count && t.last.Equal(bestTally.last) && k < best:
			best, bestTally = k, t
		}
	}
	if bestTally == nil {
		return nil
	}
	return &best
}

// resolveName traduce un id a su nombre; si no hay registro se informa el id tal cual.
func resolveName(id *string, names map[string]string) *string {
	if id == nil {
		return nil
	}
	if name, ok := names[*id]; ok && name != "" {
		return &name
	}
	return id
}
