package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/field-assets-api/internal/domain/entity"
)

// FleetInput flota de maquinaria con su mantenimiento para un período.
type FleetInput struct {
	Equipment          []entity.EquipmentAsset
	MaintenanceRecords []entity.MaintenanceRecord
	Window             Window
	Now                time.Time
	UsefulLife         UsefulLifeTable
}

// FleetCostReport costos de la flota agrupados por modalidad de tenencia.
type FleetCostReport struct {
	PeriodStart  time.Time `json:"period_start"`
	PeriodEnd    time.Time `json:"period_end"`
	PeriodMonths int       `json:"period_months"`

	OwnedCount           int             `json:"owned_equipment_count"`
	OwnedBookValue       decimal.Decimal `json:"owned_equipment_value"`
	OwnedMaintenanceCost decimal.Decimal `json:"owned_maintenance_cost"`

	LeasedCount       int             `json:"leased_equipment_count"`
	LeasedMonthlyCost decimal.Decimal `json:"leased_monthly_cost"`
	LeasedPeriodCost  decimal.Decimal `json:"leased_period_cost"`

	RentedCount       int             `json:"rented_equipment_count"`
	RentedMonthlyCost decimal.Decimal `json:"rented_monthly_cost"`
	RentedPeriodCost  decimal.Decimal `json:"rented_period_cost"`

	TotalEquipmentCount  int             `json:"total_equipment_count"`
	TotalMonthlyCost     decimal.Decimal `json:"total_monthly_cost"`
	TotalPeriodCost      decimal.Decimal `json:"total_period_cost"`      // cuotas de contratos en el período
	TotalMaintenanceCost decimal.Decimal `json:"total_maintenance_cost"` // mantenimiento en el período
	GrandTotalCost       decimal.Decimal `json:"grand_total_cost"`

	EquipmentDetails []CostSummary `json:"equipment_details"`
	SkippedCount     int           `json:"skipped_count"`
}

// GenerateFleetCostReport resume la flota completa: valor en libros de los equipos propios,
// cuotas de leasing/alquiler del período y mantenimiento del período.
func GenerateFleetCostReport(in FleetInput) (*FleetCostReport, error) {
	if err := in.Window.Validate(); err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(in.Equipment))
	for _, eq := range in.Equipment {
		known[eq.ID] = true
	}
	skipped := 0
	valid := make([]entity.MaintenanceRecord, 0, len(in.MaintenanceRecords))
	for _, r := range in.MaintenanceRecords {
		if !known[r.AssetID] {
			skipped++
			continue
		}
		valid = append(valid, r)
	}
	byEquipment := GroupByAsset(valid,
		func(r entity.MaintenanceRecord) string { return r.AssetID },
		func(r entity.MaintenanceRecord) time.Time { return r.PerformedAt },
	)

	months := in.Window.Months()
	report := &FleetCostReport{
		PeriodStart:          in.Window.Start,
		PeriodEnd:            in.Window.End,
		PeriodMonths:         months,
		OwnedBookValue:       zero,
		OwnedMaintenanceCost: zero,
		LeasedMonthlyCost:    zero,
		RentedMonthlyCost:    zero,
		TotalMaintenanceCost: zero,
		EquipmentDetails:     make([]CostSummary, 0, len(in.Equipment)),
		SkippedCount:         skipped,
	}

	for _, eq := range in.Equipment {
		records := byEquipment[eq.ID]
		summary := GenerateEquipmentCostSummary(eq, records, in.Now, in.UsefulLife)
		report.EquipmentDetails = append(report.EquipmentDetails, summary)

		periodMaintenance := zero
		for _, r := range FilterByWindow(records, in.Window, func(r entity.MaintenanceRecord) time.Time { return r.PerformedAt }) {
			periodMaintenance = periodMaintenance.Add(safeAmount(r.Cost))
		}
		report.TotalMaintenanceCost = report.TotalMaintenanceCost.Add(periodMaintenance)

		switch eq.OwnershipType {
		case entity.OwnershipOwned:
			report.OwnedCount++
			if summary.BookValue.Valid {
				report.OwnedBookValue = report.OwnedBookValue.Add(summary.BookValue.Decimal)
			}
			report.OwnedMaintenanceCost = report.OwnedMaintenanceCost.Add(periodMaintenance)
		case entity.OwnershipLeased:
			report.LeasedCount++
			report.LeasedMonthlyCost = report.LeasedMonthlyCost.Add(safeAmount(eq.MonthlyCost))
		case entity.OwnershipRented:
			report.RentedCount++
			report.RentedMonthlyCost = report.RentedMonthlyCost.Add(safeAmount(eq.MonthlyCost))
		}
	}

	m := decimal.NewFromInt(int64(months))
	report.LeasedPeriodCost = report.LeasedMonthlyCost.Mul(m).Round(2)
	report.RentedPeriodCost = report.RentedMonthlyCost.Mul(m).Round(2)
	report.TotalEquipmentCount = len(in.Equipment)
	report.TotalMonthlyCost = report.LeasedMonthlyCost.Add(report.RentedMonthlyCost).Round(2)
	report.TotalPeriodCost = report.LeasedPeriodCost.Add(report.RentedPeriodCost)
	report.TotalMaintenanceCost = report.TotalMaintenanceCost.Round(2)
	report.GrandTotalCost = report.TotalPeriodCost.Add(report.TotalMaintenanceCost)
	report.OwnedBookValue = report.OwnedBookValue.Round(2)
	report.OwnedMaintenanceCost = report.OwnedMaintenanceCost.Round(2)
	report.LeasedMonthlyCost = report.LeasedMonthlyCost.Round(2)
	report.RentedMonthlyCost = report.RentedMonthlyCost.Round(2)
	return report, nil
}
