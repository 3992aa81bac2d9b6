package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/field-assets-api/internal/domain"
	"github.com/jhoicas/field-assets-api/internal/domain/entity"
	"github.com/jhoicas/field-assets-api/internal/domain/repository"
)

var _ repository.AssetAnalyticsRepository = (*AssetAnalyticsRepo)(nil)

// AssetAnalyticsRepo consultas de solo lectura sobre herramientas, consumibles y maquinaria.
type AssetAnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAssetAnalyticsRepository construye el adaptador de analítica de activos.
func NewAssetAnalyticsRepository(pool *pgxpool.Pool) *AssetAnalyticsRepo {
	return &AssetAnalyticsRepo{pool: pool}
}

// ListAssets herramientas y consumibles con su categoría.
func (r *AssetAnalyticsRepo) ListAssets(ctx context.Context, organizationID string) ([]entity.Asset, error) {
	const query = `
	SELECT
	    t.id::TEXT,
	    t.name,
	    c.name                              AS category_name,
	    COALESCE(t.is_consumable, FALSE)    AS is_consumable,
	    t.purchase_price,
	    t.purchase_date,
	    COALESCE(t.minimum_stock, 0)        AS minimum_stock,
	    COALESCE(t.unit, '')                AS unit,
	    (SELECT COUNT(*) FROM tool_items ti
	      WHERE ti.tool_id = t.id AND ti.deleted_at IS NULL) AS total_items
	FROM tools t
	LEFT JOIN categories c ON c.id = t.category_id
	WHERE t.organization_id = $1
	  AND t.deleted_at IS NULL
	ORDER BY t.name, t.id`

	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("assetAnalytics.ListAssets: %w", err)
	}
	defer rows.Close()

	results := []entity.Asset{}
	for rows.Next() {
		var a entity.Asset
		if err := rows.Scan(
			&a.ID,
			&a.Name,
			&a.CategoryName,
			&a.IsConsumable,
			&a.PurchasePrice,
			&a.PurchaseDate,
			&a.MinimumStock,
			&a.Unit,
			&a.TotalItems,
		); err != nil {
			return nil, fmt.Errorf("assetAnalytics.ListAssets scan: %w", err)
		}
		results = append(results, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("assetAnalytics.ListAssets rows: %w", err)
	}
	return results, nil
}

// ListToolMovements movimientos de herramientas del período.
func (r *AssetAnalyticsRepo) ListToolMovements(ctx context.Context, organizationID string, p repository.Period) ([]entity.MovementRecord, error) {
	return r.listMovements(ctx, toolMovementsSource, organizationID, p)
}

// ListConsumableMovements movimientos de consumibles del período (incluye consumos).
func (r *AssetAnalyticsRepo) ListConsumableMovements(ctx context.Context, organizationID string, p repository.Period) ([]entity.MovementRecord, error) {
	return r.listMovements(ctx, consumableMovementsSource, organizationID, p)
}

// movementSource tabla de movimientos y expresiones de tipo de ubicación (solo consumibles las tienen).
type movementSource struct {
	table        string
	fromLocation string
	toLocation   string
}

var (
	toolMovementsSource       = movementSource{table: "tool_movements", fromLocation: "''", toLocation: "''"}
	consumableMovementsSource = movementSource{
		table:        "consumable_movements",
		fromLocation: "COALESCE(m.from_location_type, '')",
		toLocation:   "COALESCE(m.to_location_type, '')",
	}
)

// listMovements src es siempre una de las fuentes internas de arriba.
func (r *AssetAnalyticsRepo) listMovements(ctx context.Context, src movementSource, organizationID string, p repository.Period) ([]entity.MovementRecord, error) {
	table := src.table
	query := `
	SELECT
	    m.tool_id::TEXT,
	    m.movement_type,
	    ` + src.fromLocation + `::TEXT,
	    ` + src.toLocation + `::TEXT,
	    COALESCE(m.quantity, 1),
	    m.created_at,
	    m.from_site_id::TEXT,
	    m.to_site_id::TEXT,
	    m.performed_by::TEXT
	FROM ` + table + ` m
	WHERE m.organization_id = $1
	  AND ($2::TIMESTAMPTZ IS NULL OR m.created_at >= $2)
	  AND ($3::TIMESTAMPTZ IS NULL OR m.created_at <  $3)
	ORDER BY m.created_at, m.id`

	from, to := periodArgs(p)
	rows, err := r.pool.Query(ctx, query, organizationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("assetAnalytics.listMovements(%s): %w", table, err)
	}
	defer rows.Close()

	results := []entity.MovementRecord{}
	for rows.Next() {
		var (
			m                entity.MovementRecord
			raw              string
			fromType, toType string
		)
		if err := rows.Scan(
			&m.AssetID,
			&raw,
			&fromType,
			&toType,
			&m.Quantity,
			&m.OccurredAt,
			&m.FromLocation,
			&m.ToLocation,
			&m.PerformedBy,
		); err != nil {
			return nil, fmt.Errorf("assetAnalytics.listMovements(%s) scan: %w", table, err)
		}
		m.Type = normalizeMovementType(raw, fromType, toType)
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("assetAnalytics.listMovements(%s) rows: %w", table, err)
	}
	return results, nil
}

// ListOrders pedidos de consumibles por fecha de pedido.
func (r *AssetAnalyticsRepo) ListOrders(ctx context.Context, organizationID string, p repository.Period) ([]entity.OrderRecord, error) {
	const query = `
	SELECT o.tool_id::TEXT, o.total_price, COALESCE(o.quantity, 0), o.order_date
	FROM consumable_orders o
	WHERE o.organization_id = $1
	  AND o.status <> 'cancelled'
	  AND ($2::TIMESTAMPTZ IS NULL OR o.order_date >= $2)
	  AND ($3::TIMESTAMPTZ IS NULL OR o.order_date <  $3)
	ORDER BY o.order_date`

	from, to := periodArgs(p)
	rows, err := r.pool.Query(ctx, query, organizationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("assetAnalytics.ListOrders: %w", err)
	}
	defer rows.Close()

	results := []entity.OrderRecord{}
	for rows.Next() {
		var o entity.OrderRecord
		if err := rows.Scan(&o.AssetID, &o.Cost, &o.Quantity, &o.OrderedAt); err != nil {
			return nil, fmt.Errorf("assetAnalytics.ListOrders scan: %w", err)
		}
		results = append(results, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("assetAnalytics.ListOrders rows: %w", err)
	}
	return results, nil
}

// ListMaintenanceRecords el mantenimiento se registra por unidad física (tool_items);
// se devuelve imputado a la herramienta.
func (r *AssetAnalyticsRepo) ListMaintenanceRecords(ctx context.Context, organizationID string, p repository.Period) ([]entity.MaintenanceRecord, error) {
	const query = `
	SELECT ti.tool_id::TEXT, mr.cost, mr.maintenance_date
	FROM maintenance_records mr
	JOIN tool_items ti ON ti.id = mr.tool_item_id
	WHERE mr.organization_id = $1
	  AND ($2::TIMESTAMPTZ IS NULL OR mr.maintenance_date >= $2)
	  AND ($3::TIMESTAMPTZ IS NULL OR mr.maintenance_date <  $3)
	ORDER BY mr.maintenance_date`

	from, to := periodArgs(p)
	return r.queryMaintenance(ctx, "ListMaintenanceRecords", query, organizationID, from, to)
}

// ListInventorySnapshots existencias actuales de consumibles por ubicación.
func (r *AssetAnalyticsRepo) ListInventorySnapshots(ctx context.Context, organizationID string) ([]entity.InventorySnapshot, error) {
	const query = `
	SELECT
	    ci.tool_id::TEXT,
	    COALESCE(ci.site_id::TEXT, ci.warehouse_location_id::TEXT, '') AS location,
	    ci.location_type,
	    COALESCE(ci.quantity, 0)
	FROM consumable_inventory ci
	WHERE ci.organization_id = $1`

	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("assetAnalytics.ListInventorySnapshots: %w", err)
	}
	defer rows.Close()

	results := []entity.InventorySnapshot{}
	for rows.Next() {
		var s entity.InventorySnapshot
		if err := rows.Scan(&s.AssetID, &s.Location, &s.LocationType, &s.Quantity); err != nil {
			return nil, fmt.Errorf("assetAnalytics.ListInventorySnapshots scan: %w", err)
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("assetAnalytics.ListInventorySnapshots rows: %w", err)
	}
	return results, nil
}

// ListSites obras de la organización.
func (r *AssetAnalyticsRepo) ListSites(ctx context.Context, organizationID string) ([]entity.Site, error) {
	const query = `SELECT id::TEXT, name FROM sites WHERE organization_id = $1`

	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("assetAnalytics.ListSites: %w", err)
	}
	defer rows.Close()

	results := []entity.Site{}
	for rows.Next() {
		var s entity.Site
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("assetAnalytics.ListSites scan: %w", err)
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

// ListUsers usuarios de la organización (solo id, nombre y rol).
func (r *AssetAnalyticsRepo) ListUsers(ctx context.Context, organizationID string) ([]entity.User, error) {
	const query = `SELECT id::TEXT, COALESCE(name, ''), COALESCE(role, '') FROM users WHERE organization_id = $1`

	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("assetAnalytics.ListUsers: %w", err)
	}
	defer rows.Close()

	results := []entity.User{}
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Role); err != nil {
			return nil, fmt.Errorf("assetAnalytics.ListUsers scan: %w", err)
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

const equipmentColumns = `
	    e.id::TEXT,
	    COALESCE(e.equipment_code, ''),
	    e.name,
	    COALESCE(c.code, ''),
	    e.ownership_type,
	    e.purchase_date,
	    e.purchase_price,
	    e.monthly_cost,
	    e.contract_start_date,
	    e.contract_end_date,
	    COALESCE(e.enable_hour_meter, FALSE)`

func scanEquipment(row pgx.Row) (*entity.EquipmentAsset, error) {
	var (
		e         entity.EquipmentAsset
		ownership string
	)
	if err := row.Scan(
		&e.ID,
		&e.Code,
		&e.Name,
		&e.CategoryCode,
		&ownership,
		&e.PurchaseDate,
		&e.PurchasePrice,
		&e.MonthlyCost,
		&e.ContractStartDate,
		&e.ContractEndDate,
		&e.EnableHourMeter,
	); err != nil {
		return nil, err
	}
	e.OwnershipType = entity.OwnershipType(ownership)
	return &e, nil
}

// GetEquipment un equipo de la organización.
func (r *AssetAnalyticsRepo) GetEquipment(ctx context.Context, organizationID, equipmentID string) (*entity.EquipmentAsset, error) {
	query := `
	SELECT` + equipmentColumns + `
	FROM heavy_equipment e
	LEFT JOIN heavy_equipment_categories c ON c.id = e.category_id
	WHERE e.organization_id = $1
	  AND e.id = $2
	  AND e.deleted_at IS NULL`

	eq, err := scanEquipment(r.pool.QueryRow(ctx, query, organizationID, equipmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("assetAnalytics.GetEquipment: %w", err)
	}
	return eq, nil
}

// ListEquipment flota completa de la organización.
func (r *AssetAnalyticsRepo) ListEquipment(ctx context.Context, organizationID string) ([]entity.EquipmentAsset, error) {
	query := `
	SELECT` + equipmentColumns + `
	FROM heavy_equipment e
	LEFT JOIN heavy_equipment_categories c ON c.id = e.category_id
	WHERE e.organization_id = $1
	  AND e.deleted_at IS NULL
	ORDER BY e.equipment_code, e.id`

	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("assetAnalytics.ListEquipment: %w", err)
	}
	defer rows.Close()

	results := []entity.EquipmentAsset{}
	for rows.Next() {
		eq, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("assetAnalytics.ListEquipment scan: %w", err)
		}
		results = append(results, *eq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("assetAnalytics.ListEquipment rows: %w", err)
	}
	return results, nil
}

// ListEquipmentMaintenance histórico de mantenimiento de maquinaria.
func (r *AssetAnalyticsRepo) ListEquipmentMaintenance(ctx context.Context, organizationID, equipmentID string) ([]entity.MaintenanceRecord, error) {
	const query = `
	SELECT m.equipment_id::TEXT, m.cost, m.maintenance_date
	FROM heavy_equipment_maintenance m
	WHERE m.organization_id = $1
	  AND ($2::TEXT = '' OR m.equipment_id::TEXT = $2::TEXT)
	ORDER BY m.maintenance_date`

	return r.queryMaintenance(ctx, "ListEquipmentMaintenance", query, organizationID, equipmentID)
}

// ListEquipmentUsage registros de uso de la flota en el período.
func (r *AssetAnalyticsRepo) ListEquipmentUsage(ctx context.Context, organizationID string, p repository.Period) ([]entity.EquipmentUsageRecord, error) {
	const query = `
	SELECT
	    u.equipment_id::TEXT,
	    COALESCE(u.user_id::TEXT, ''),
	    u.action_type,
	    u.hour_meter_reading,
	    u.action_at
	FROM heavy_equipment_usage_records u
	WHERE u.organization_id = $1
	  AND ($2::TIMESTAMPTZ IS NULL OR u.action_at >= $2)
	  AND ($3::TIMESTAMPTZ IS NULL OR u.action_at <  $3)
	ORDER BY u.action_at, u.id`

	from, to := periodArgs(p)
	rows, err := r.pool.Query(ctx, query, organizationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("assetAnalytics.ListEquipmentUsage: %w", err)
	}
	defer rows.Close()

	results := []entity.EquipmentUsageRecord{}
	for rows.Next() {
		var (
			u      entity.EquipmentUsageRecord
			action string
		)
		if err := rows.Scan(&u.EquipmentID, &u.UserID, &action, &u.HourMeterReading, &u.ActionAt); err != nil {
			return nil, fmt.Errorf("assetAnalytics.ListEquipmentUsage scan: %w", err)
		}
		u.ActionType = entity.EquipmentAction(action)
		results = append(results, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("assetAnalytics.ListEquipmentUsage rows: %w", err)
	}
	return results, nil
}

func (r *AssetAnalyticsRepo) queryMaintenance(ctx context.Context, op, query string, args ...any) ([]entity.MaintenanceRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("assetAnalytics.%s: %w", op, err)
	}
	defer rows.Close()

	results := []entity.MaintenanceRecord{}
	for rows.Next() {
		var m entity.MaintenanceRecord
		if err := rows.Scan(&m.AssetID, &m.Cost, &m.PerformedAt); err != nil {
			return nil, fmt.Errorf("assetAnalytics.%s scan: %w", op, err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("assetAnalytics.%s rows: %w", op, err)
	}
	return results, nil
}
