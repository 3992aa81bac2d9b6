package analytics

import (
	"context"
	"time"

	"github.com/jhoicas/field-assets-api/internal/application/dto"
	engine "github.com/jhoicas/field-assets-api/internal/domain/analytics"
	"github.com/jhoicas/field-assets-api/internal/domain/entity"
	"github.com/jhoicas/field-assets-api/internal/domain/repository"
	"github.com/jhoicas/field-assets-api/pkg/logger"
)

// AssetAnalyticsUseCase reportes de costos, uso e inventario de herramientas y consumibles.
//
// Cada reporte carga en paralelo las colecciones de la organización y delega todo el cálculo
// en el motor; este caso de uso solo resuelve el período, registra anomalías y cachea.
type AssetAnalyticsUseCase struct {
	repo     repository.AssetAnalyticsRepository
	settings Settings
	rt       runtime
}

// NewAssetAnalyticsUseCase construye el caso de uso.
func NewAssetAnalyticsUseCase(
	repo repository.AssetAnalyticsRepository,
	settings Settings,
	log *logger.Logger,
	opts ...Option,
) *AssetAnalyticsUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AssetAnalyticsUseCase{
		repo:     repo,
		settings: settings,
		rt:       newRuntime(log.Component("asset_analytics"), settings.CacheTTL, opts),
	}
}

// GetCostReport costo total y eficiencia de costo por activo en el período.
func (uc *AssetAnalyticsUseCase) GetCostReport(ctx context.Context, organizationID string, req dto.PeriodRequest) (*engine.CostReport, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, err
	}
	w, err := parsePeriod(req.StartDate, req.EndDate, uc.rt.now(), uc.settings.DefaultPeriodMonths)
	if err != nil {
		return nil, err
	}

	return cached(ctx, uc.rt, cacheKey(organizationID, "costs", w), func() (*engine.CostReport, error) {
		started := time.Now()
		period := repository.Period{From: w.Start, To: w.End}

		assetsCh := async(func() ([]entity.Asset, error) { return uc.repo.ListAssets(ctx, organizationID) })
		toolMovCh := async(func() ([]entity.MovementRecord, error) {
			return uc.repo.ListToolMovements(ctx, organizationID, period)
		})
		consMovCh := async(func() ([]entity.MovementRecord, error) {
			return uc.repo.ListConsumableMovements(ctx, organizationID, period)
		})
		ordersCh := async(func() ([]entity.OrderRecord, error) { return uc.repo.ListOrders(ctx, organizationID, period) })
		maintCh := async(func() ([]entity.MaintenanceRecord, error) {
			return uc.repo.ListMaintenanceRecords(ctx, organizationID, period)
		})
		stockCh := async(func() ([]entity.InventorySnapshot, error) {
			return uc.repo.ListInventorySnapshots(ctx, organizationID)
		})

		assets, toolMov, consMov := <-assetsCh, <-toolMovCh, <-consMovCh
		orders, maint, stock := <-ordersCh, <-maintCh, <-stockCh
		if err := firstFetchError("reporte de costos",
			fetchCheck{"activos", assets.err},
			fetchCheck{"movimientos de herramientas", toolMov.err},
			fetchCheck{"movimientos de consumibles", consMov.err},
			fetchCheck{"pedidos", orders.err},
			fetchCheck{"mantenimiento", maint.err},
			fetchCheck{"inventario", stock.err},
		); err != nil {
			return nil, err
		}
		uc.rt.log.Debug().Str("organization_id", organizationID).Dur("fetch", time.Since(started)).Msg("datos de costos cargados")

		report, err := engine.AnalyzeCosts(engine.CostInput{
			Assets:              assets.val,
			ToolMovements:       toolMov.val,
			ConsumableMovements: consMov.val,
			Orders:              orders.val,
			MaintenanceRecords:  maint.val,
			InventorySnapshots:  stock.val,
			Window:              w,
		})
		if err != nil {
			return nil, err
		}
		uc.logAnomalies("costs", organizationID, report.SkippedCount, len(report.DataQualityNotes))
		return report, nil
	})
}

// GetUsageReport frecuencia, recencia y clasificación de uso por activo.
// last_usage_date usa el histórico completo, no solo el período.
func (uc *AssetAnalyticsUseCase) GetUsageReport(ctx context.Context, organizationID string, req dto.PeriodRequest) (*engine.UsageReport, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, err
	}
	now := uc.rt.now()
	w, err := parsePeriod(req.StartDate, req.EndDate, now, uc.settings.DefaultPeriodMonths)
	if err != nil {
		return nil, err
	}

	return cached(ctx, uc.rt, cacheKey(organizationID, "usage", w, now.Format(dateLayout)), func() (*engine.UsageReport, error) {
		history := repository.Period{}

		assetsCh := async(func() ([]entity.Asset, error) { return uc.repo.ListAssets(ctx, organizationID) })
		toolMovCh := async(func() ([]entity.MovementRecord, error) {
			return uc.repo.ListToolMovements(ctx, organizationID, history)
		})
		consMovCh := async(func() ([]entity.MovementRecord, error) {
			return uc.repo.ListConsumableMovements(ctx, organizationID, history)
		})
		sitesCh := async(func() ([]entity.Site, error) { return uc.repo.ListSites(ctx, organizationID) })
		usersCh := async(func() ([]entity.User, error) { return uc.repo.ListUsers(ctx, organizationID) })

		assets, toolMov, consMov, sites, users := <-assetsCh, <-toolMovCh, <-consMovCh, <-sitesCh, <-usersCh
		if err := firstFetchError("reporte de uso",
			fetchCheck{"activos", assets.err},
			fetchCheck{"movimientos de herramientas", toolMov.err},
			fetchCheck{"movimientos de consumibles", consMov.err},
			fetchCheck{"obras", sites.err},
			fetchCheck{"usuarios", users.err},
		); err != nil {
			return nil, err
		}

		movements := make([]entity.MovementRecord, 0, len(toolMov.val)+len(consMov.val))
		movements = append(movements, toolMov.val...)
		movements = append(movements, consMov.val...)

		report, err := engine.AnalyzeUsage(engine.UsageInput{
			Assets:    assets.val,
			Movements: movements,
			Sites:     sites.val,
			Users:     users.val,
			Window:    w,
			Now:       now,
		})
		if err != nil {
			return nil, err
		}
		uc.logAnomalies("usage", organizationID, report.SkippedCount, len(report.DataQualityNotes))
		return report, nil
	})
}

// GetInventoryOptimization recomendaciones de reposición sobre los últimos lookback_months meses.
func (uc *AssetAnalyticsUseCase) GetInventoryOptimization(ctx context.Context, organizationID string, req dto.InventoryRequest) (*engine.InventoryOptimizationReport, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, err
	}
	lookback := req.LookbackMonths
	if lookback <= 0 {
		lookback = uc.settings.LookbackMonths
	}
	leadTime := req.LeadTimeDays
	if leadTime <= 0 {
		leadTime = uc.settings.LeadTimeDays
	}
	w, err := parsePeriod("", "", uc.rt.now(), lookback)
	if err != nil {
		return nil, err
	}

	return cached(ctx, uc.rt, cacheKey(organizationID, "inventory", w, leadTime), func() (*engine.InventoryOptimizationReport, error) {
		period := repository.Period{From: w.Start, To: w.End}

		assetsCh := async(func() ([]entity.Asset, error) { return uc.repo.ListAssets(ctx, organizationID) })
		stockCh := async(func() ([]entity.InventorySnapshot, error) {
			return uc.repo.ListInventorySnapshots(ctx, organizationID)
		})
		consMovCh := async(func() ([]entity.MovementRecord, error) {
			return uc.repo.ListConsumableMovements(ctx, organizationID, period)
		})

		assets, stock, consMov := <-assetsCh, <-stockCh, <-consMovCh
		if err := firstFetchError("optimización de inventario",
			fetchCheck{"activos", assets.err},
			fetchCheck{"inventario", stock.err},
			fetchCheck{"movimientos de consumibles", consMov.err},
		); err != nil {
			return nil, err
		}

		consumables := make([]entity.Asset, 0, len(assets.val))
		for _, a := range assets.val {
			if a.IsConsumable {
				consumables = append(consumables, a)
			}
		}

		report, err := engine.AnalyzeInventoryOptimization(engine.InventoryInput{
			Consumables:          consumables,
			InventorySnapshots:   stock.val,
			ConsumptionMovements: consMov.val,
			Window:               w,
		}, engine.WithLeadTimeDays(leadTime))
		if err != nil {
			return nil, err
		}
		if report.CriticalCount > 0 {
			uc.rt.log.Info().Str("organization_id", organizationID).Int("critical", report.CriticalCount).
				Msg("consumibles con stock crítico")
		}
		uc.logAnomalies("inventory", organizationID, report.SkippedCount, 0)
		return report, nil
	})
}

func (uc *AssetAnalyticsUseCase) logAnomalies(report, organizationID string, skipped, notes int) {
	if skipped == 0 && notes == 0 {
		return
	}
	uc.rt.log.Warn().
		Str("report", report).
		Str("organization_id", organizationID).
		Int("skipped", skipped).
		Int("data_quality_notes", notes).
		Msg("registros omitidos o con datos incompletos")
}
