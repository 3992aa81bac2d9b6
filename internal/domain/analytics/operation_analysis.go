package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/field-assets-api/internal/domain/entity"
)

// Umbrales de tasa de operación (%).
const (
	HighOperationRate   = 80
	MediumOperationRate = 50
	LowOperationRate    = 30
)

// Niveles de desempeño según la tasa de operación.
const (
	PerformanceHigh   = "high"
	PerformanceMedium = "medium"
	PerformanceLow    = "low"
)

var (
	highRate   = decimal.NewFromInt(HighOperationRate)
	mediumRate = decimal.NewFromInt(MediumOperationRate)
	lowRate    = decimal.NewFromInt(LowOperationRate)

	idleContractFactor = decimal.RequireFromString("0.7")
	costlyDayPenalty   = decimal.NewFromInt(10)
	monthDays          = decimal.NewFromInt(daysPerMonth)
)

// DefaultCostlyDayThreshold costo por día de operación sobre el cual se penaliza un contrato.
var DefaultCostlyDayThreshold = decimal.NewFromInt(5000)

// OperationAnalysis utilización de un equipo en el período.
type OperationAnalysis struct {
	EquipmentID   string               `json:"equipment_id"`
	EquipmentCode string               `json:"equipment_code"`
	EquipmentName string               `json:"equipment_name"`
	OwnershipType entity.OwnershipType `json:"ownership_type"`

	TotalDays     int             `json:"total_days"`
	OperationDays int             `json:"operation_days"` // días distintos con al menos una salida
	OperationRate decimal.Decimal `json:"operation_rate"` // %, un decimal

	CheckoutCount   int `json:"checkout_count"`
	TotalUsageCount int `json:"total_usage_count"`

	TotalHourMeter    decimal.NullDecimal `json:"total_hour_meter"`
	AverageDailyHours decimal.NullDecimal `json:"average_daily_hours"`

	MonthlyCost         decimal.NullDecimal `json:"monthly_cost"`
	CostPerOperationDay decimal.NullDecimal `json:"cost_per_operation_day"`
	CostEfficiencyScore decimal.Decimal     `json:"cost_efficiency_score"`
	PerformanceLevel    string              `json:"performance_level"`
}

// OperationOption ajusta el cálculo de la puntuación de eficiencia.
type OperationOption func(*operationConfig)

type operationConfig struct {
	costlyDay decimal.Decimal
}

// WithCostlyDayThreshold cambia el costo diario desde el cual un contrato pierde puntos.
func WithCostlyDayThreshold(v decimal.Decimal) OperationOption {
	return func(c *operationConfig) {
		if v.IsPositive() {
			c.costlyDay = v
		}
	}
}

func newOperationConfig(opts []OperationOption) operationConfig {
	cfg := operationConfig{costlyDay: DefaultCostlyDayThreshold}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// GenerateOperationAnalysis mide la utilización de un equipo en la ventana a partir de sus
// registros de uso. Registros de otros equipos se ignoran.
func GenerateOperationAnalysis(eq entity.EquipmentAsset, records []entity.EquipmentUsageRecord, w Window, opts ...OperationOption) (*OperationAnalysis, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return analyzeOperation(eq, records, w, newOperationConfig(opts)), nil
}

func analyzeOperation(eq entity.EquipmentAsset, records []entity.EquipmentUsageRecord, w Window, cfg operationConfig) *OperationAnalysis {
	an := &OperationAnalysis{
		EquipmentID:   eq.ID,
		EquipmentCode: eq.Code,
		EquipmentName: eq.Name,
		OwnershipType: eq.OwnershipType,
		TotalDays:     w.TotalDays(),
		MonthlyCost:   eq.MonthlyCost,
	}

	loc := w.Start.Location()
	days := make(map[string]struct{})
	var readings []decimal.Decimal
	for _, r := range records {
		if r.EquipmentID != eq.ID || !w.Contains(r.ActionAt) {
			continue
		}
		an.TotalUsageCount++
		if r.ActionType == entity.EquipmentCheckout {
			an.CheckoutCount++
			days[r.ActionAt.In(loc).Format(time.DateOnly)] = struct{}{}
		}
		if r.HourMeterReading.Valid {
			readings = append(readings, r.HourMeterReading.Decimal)
		}
	}
	an.OperationDays = len(days)

	rate := zero
	if an.TotalDays > 0 {
		rate = decimal.NewFromInt(int64(an.OperationDays)).Mul(hundred).Div(decimal.NewFromInt(int64(an.TotalDays)))
	}
	an.OperationRate = rate.Round(1)
	an.PerformanceLevel = PerformanceLevel(an.OperationRate)

	opDays := decimal.NewFromInt(int64(an.OperationDays))
	if eq.EnableHourMeter && len(readings) >= 2 {
		total := decimal.Max(readings[0], readings[1:]...).Sub(decimal.Min(readings[0], readings[1:]...))
		an.TotalHourMeter = nullDecimal(total)
		if total.IsPositive() && an.OperationDays > 0 {
			an.AverageDailyHours = nullDecimal(total.Div(opDays).Round(1))
		}
	}

	var costPerDay decimal.NullDecimal
	if an.OperationDays > 0 && eq.MonthlyCost.Valid && eq.MonthlyCost.Decimal.IsPositive() {
		periodCost := eq.MonthlyCost.Decimal.Mul(decimal.NewFromInt(int64(an.TotalDays))).Div(monthDays)
		costPerDay = nullDecimal(periodCost.Div(opDays))
		an.CostPerOperationDay = nullDecimal(costPerDay.Decimal.Round(0))
	}
	an.CostEfficiencyScore = costEfficiencyScore(rate, eq.OwnershipType, costPerDay, cfg.costlyDay).Round(0)
	return an
}

// costEfficiencyScore parte de la tasa de operación. Los contratos con menos del 50 % de uso
// valen el 70 % y pierden 10 puntos si el día de operación supera el umbral.
func costEfficiencyScore(rate decimal.Decimal, ownership entity.OwnershipType, costPerDay decimal.NullDecimal, costlyDay decimal.Decimal) decimal.Decimal {
	score := rate
	if ownership.IsContract() {
		if rate.LessThan(mediumRate) {
			score = rate.Mul(idleContractFactor)
		}
		if costPerDay.Valid && costPerDay.Decimal.GreaterThan(costlyDay) {
			score = decimal.Max(zero, score.Sub(costlyDayPenalty))
		}
	}
	return clampScore(score)
}

// PerformanceLevel clasifica una tasa de operación: high desde 80 %, medium desde 50 %.
func PerformanceLevel(rate decimal.Decimal) string {
	switch {
	case rate.GreaterThanOrEqual(highRate):
		return PerformanceHigh
	case rate.GreaterThanOrEqual(mediumRate):
		return PerformanceMedium
	default:
		return PerformanceLow
	}
}

// FleetOperationInput flota y registros de uso del período.
type FleetOperationInput struct {
	Equipment    []entity.EquipmentAsset
	UsageRecords []entity.EquipmentUsageRecord
	Window       Window
}

// FleetOperationReport utilización de la flota con promedios por modalidad de tenencia.
type FleetOperationReport struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	TotalDays   int       `json:"total_days"`

	TotalEquipmentCount  int             `json:"total_equipment_count"`
	AverageOperationRate decimal.Decimal `json:"average_operation_rate"`
	HighPerformersCount  int             `json:"high_performers_count"` // tasa >= 80 %
	LowPerformersCount   int             `json:"low_performers_count"`  // tasa <= 30 %

	OwnedAvgOperationRate  decimal.Decimal `json:"owned_avg_operation_rate"`
	LeasedAvgOperationRate decimal.Decimal `json:"leased_avg_operation_rate"`
	RentedAvgOperationRate decimal.Decimal `json:"rented_avg_operation_rate"`

	EquipmentAnalytics []OperationAnalysis `json:"equipment_analytics"`
	SkippedCount       int                 `json:"skipped_count"` // registros de equipos desconocidos
}

type rateAccumulator struct {
	sum   decimal.Decimal
	count int
}

func (a *rateAccumulator) add(v decimal.Decimal) {
	a.sum = a.sum.Add(v)
	a.count++
}

func (a rateAccumulator) average() decimal.Decimal {
	if a.count == 0 {
		return zero
	}
	return a.sum.Div(decimal.NewFromInt(int64(a.count))).Round(1)
}

// GenerateFleetOperationReport analiza cada equipo y agrega las tasas de operación de la flota.
// Los promedios usan la tasa ya redondeada de cada equipo.
func GenerateFleetOperationReport(in FleetOperationInput, opts ...OperationOption) (*FleetOperationReport, error) {
	if err := in.Window.Validate(); err != nil {
		return nil, err
	}
	cfg := newOperationConfig(opts)

	known := make(map[string]bool, len(in.Equipment))
	for _, eq := range in.Equipment {
		known[eq.ID] = true
	}
	skipped := 0
	byEquipment := make(map[string][]entity.EquipmentUsageRecord, len(in.Equipment))
	for _, r := range in.UsageRecords {
		if !known[r.EquipmentID] {
			skipped++
			continue
		}
		byEquipment[r.EquipmentID] = append(byEquipment[r.EquipmentID], r)
	}

	report := &FleetOperationReport{
		PeriodStart:         in.Window.Start,
		PeriodEnd:           in.Window.End,
		TotalDays:           in.Window.TotalDays(),
		TotalEquipmentCount: len(in.Equipment),
		EquipmentAnalytics:  make([]OperationAnalysis, 0, len(in.Equipment)),
		SkippedCount:        skipped,
	}

	var all, owned, leased, rented rateAccumulator
	for _, eq := range in.Equipment {
		an := analyzeOperation(eq, byEquipment[eq.ID], in.Window, cfg)
		report.EquipmentAnalytics = append(report.EquipmentAnalytics, *an)

		all.add(an.OperationRate)
		switch {
		case an.OperationRate.GreaterThanOrEqual(highRate):
			report.HighPerformersCount++
		case an.OperationRate.LessThanOrEqual(lowRate):
			report.LowPerformersCount++
		}
		switch eq.OwnershipType {
		case entity.OwnershipOwned:
			owned.add(an.OperationRate)
		case entity.OwnershipLeased:
			leased.add(an.OperationRate)
		case entity.OwnershipRented:
			rented.add(an.OperationRate)
		}
	}

	report.AverageOperationRate = all.average()
	report.OwnedAvgOperationRate = owned.average()
	report.LeasedAvgOperationRate = leased.average()
	report.RentedAvgOperationRate = rented.average()
	return report, nil
}
