package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/field-assets-api/internal/application/dto"
	"github.com/jhoicas/field-assets-api/internal/domain"
	engine "github.com/jhoicas/field-assets-api/internal/domain/analytics"
	"github.com/jhoicas/field-assets-api/internal/domain/entity"
	"github.com/jhoicas/field-assets-api/internal/domain/repository"
	"github.com/jhoicas/field-assets-api/pkg/logger"
)

// EquipmentCostUseCase costo de tenencia de maquinaria pesada: depreciación de equipos propios,
// cuotas de leasing/alquiler y mantenimiento.
type EquipmentCostUseCase struct {
	repo       repository.AssetAnalyticsRepository
	settings   Settings
	usefulLife engine.UsefulLifeTable
	rt         runtime
}

// NewEquipmentCostUseCase construye el caso de uso.
func NewEquipmentCostUseCase(
	repo repository.AssetAnalyticsRepository,
	settings Settings,
	log *logger.Logger,
	opts ...Option,
) *EquipmentCostUseCase {
	if log == nil {
		log = logger.Nop()
	}
	table := engine.DefaultUsefulLifeTable()
	if settings.DefaultUsefulLifeYears > 0 {
		table.Default = settings.DefaultUsefulLifeYears
	}
	return &EquipmentCostUseCase{
		repo:       repo,
		settings:   settings,
		usefulLife: table,
		rt:         newRuntime(log.Component("equipment_cost"), settings.CacheTTL, opts),
	}
}

// GetCostSummary resumen de costo de un equipo a la fecha actual.
func (uc *EquipmentCostUseCase) GetCostSummary(ctx context.Context, organizationID, equipmentID string) (*engine.CostSummary, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, err
	}
	eqCh := async(func() (*entity.EquipmentAsset, error) {
		return uc.repo.GetEquipment(ctx, organizationID, equipmentID)
	})
	maintCh := async(func() ([]entity.MaintenanceRecord, error) {
		return uc.repo.ListEquipmentMaintenance(ctx, organizationID, equipmentID)
	})
	eq, maint := <-eqCh, <-maintCh
	if eq.err != nil {
		return nil, fmt.Errorf("resumen de costo: equipo: %w", eq.err)
	}
	if maint.err != nil {
		return nil, fmt.Errorf("resumen de costo: mantenimiento: %w", maint.err)
	}

	summary := engine.GenerateEquipmentCostSummary(*eq.val, maint.val, uc.rt.now(), uc.usefulLife)
	if summary.SkippedCount > 0 {
		uc.rt.log.Warn().Str("equipment_id", equipmentID).Int("skipped", summary.SkippedCount).
			Msg("registros de mantenimiento de otro equipo")
	}
	return &summary, nil
}

// GetDepreciation depreciación lineal de un equipo propio.
// Equipos en leasing o alquiler devuelven domain.ErrNotOwnedEquipment.
func (uc *EquipmentCostUseCase) GetDepreciation(ctx context.Context, organizationID, equipmentID string) (*engine.DepreciationDetail, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, err
	}
	eq, err := uc.repo.GetEquipment(ctx, organizationID, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("depreciación: equipo: %w", err)
	}
	detail := engine.CalculateDepreciation(*eq, uc.rt.now(), uc.usefulLife)
	if detail == nil {
		return nil, domain.ErrNotOwnedEquipment
	}
	return detail, nil
}

// GetFleetReport costos de la flota agrupados por modalidad de tenencia en el período.
func (uc *EquipmentCostUseCase) GetFleetReport(ctx context.Context, organizationID string, req dto.PeriodRequest) (*engine.FleetCostReport, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, err
	}
	now := uc.rt.now()
	w, err := parsePeriod(req.StartDate, req.EndDate, now, uc.settings.DefaultPeriodMonths)
	if err != nil {
		return nil, err
	}

	return cached(ctx, uc.rt, cacheKey(organizationID, "fleet", w, now.Format(dateLayout)), func() (*engine.FleetCostReport, error) {
		fleetCh := async(func() ([]entity.EquipmentAsset, error) { return uc.repo.ListEquipment(ctx, organizationID) })
		maintCh := async(func() ([]entity.MaintenanceRecord, error) {
			return uc.repo.ListEquipmentMaintenance(ctx, organizationID, "")
		})
		fleet, maint := <-fleetCh, <-maintCh
		if fleet.err != nil {
			return nil, fmt.Errorf("reporte de flota: equipos: %w", fleet.err)
		}
		if maint.err != nil {
			return nil, fmt.Errorf("reporte de flota: mantenimiento: %w", maint.err)
		}

		report, err := engine.GenerateFleetCostReport(engine.FleetInput{
			Equipment:          fleet.val,
			MaintenanceRecords: maint.val,
			Window:             w,
			Now:                now,
			UsefulLife:         uc.usefulLife,
		})
		if err != nil {
			return nil, err
		}
		if report.SkippedCount > 0 {
			uc.rt.log.Warn().Str("organization_id", organizationID).Int("skipped", report.SkippedCount).
				Msg("mantenimiento de equipos inexistentes")
		}
		return report, nil
	})
}

// GetOperationReport utilización de la flota en el período a partir de los registros de uso.
func (uc *EquipmentCostUseCase) GetOperationReport(ctx context.Context, organizationID string, req dto.PeriodRequest) (*engine.FleetOperationReport, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, err
	}
	w, err := parsePeriod(req.StartDate, req.EndDate, uc.rt.now(), uc.settings.DefaultPeriodMonths)
	if err != nil {
		return nil, err
	}

	return cached(ctx, uc.rt, cacheKey(organizationID, "operation", w), func() (*engine.FleetOperationReport, error) {
		period := repository.Period{From: w.Start, To: w.End}
		fleetCh := async(func() ([]entity.EquipmentAsset, error) { return uc.repo.ListEquipment(ctx, organizationID) })
		usageCh := async(func() ([]entity.EquipmentUsageRecord, error) {
			return uc.repo.ListEquipmentUsage(ctx, organizationID, period)
		})
		fleet, usage := <-fleetCh, <-usageCh
		if err := firstFetchError("reporte de operación",
			fetchCheck{"equipos", fleet.err},
			fetchCheck{"registros de uso", usage.err},
		); err != nil {
			return nil, err
		}

		report, err := engine.GenerateFleetOperationReport(engine.FleetOperationInput{
			Equipment:    fleet.val,
			UsageRecords: usage.val,
			Window:       w,
		})
		if err != nil {
			return nil, err
		}
		if report.SkippedCount > 0 {
			uc.rt.log.Warn().Str("organization_id", organizationID).Int("skipped", report.SkippedCount).
				Msg("registros de uso de equipos inexistentes")
		}
		if report.LowPerformersCount > 0 {
			uc.rt.log.Info().Str("organization_id", organizationID).Int("low_performers", report.LowPerformersCount).
				Msg("equipos con baja tasa de operación")
		}
		return report, nil
	})
}
