package repository

import (
	"context"
	"time"

	"github.com/jhoicas/field-assets-api/internal/domain/entity"
)

// Period rango [From, To) para las consultas. From en cero significa "desde el inicio del histórico".
type Period struct {
	From time.Time
	To   time.Time
}

// AssetAnalyticsRepository puerto de lectura que alimenta el motor de analítica.
// Todas las consultas están acotadas a una organización; ninguna modifica datos.
type AssetAnalyticsRepository interface {
	// ListAssets herramientas y consumibles activos (no eliminados) de la organización.
	ListAssets(ctx context.Context, organizationID string) ([]entity.Asset, error)
	ListToolMovements(ctx context.Context, organizationID string, p Period) ([]entity.MovementRecord, error)
	ListConsumableMovements(ctx context.Context, organizationID string, p Period) ([]entity.MovementRecord, error)
	ListOrders(ctx context.Context, organizationID string, p Period) ([]entity.OrderRecord, error)
	// ListMaintenanceRecords mantenimiento de herramientas, ya resuelto al id de la herramienta.
	ListMaintenanceRecords(ctx context.Context, organizationID string, p Period) ([]entity.MaintenanceRecord, error)
	ListInventorySnapshots(ctx context.Context, organizationID string) ([]entity.InventorySnapshot, error)
	ListSites(ctx context.Context, organizationID string) ([]entity.Site, error)
	ListUsers(ctx context.Context, organizationID string) ([]entity.User, error)

	// ── Maquinaria pesada ────────────────────────────────────────────────────

	// GetEquipment devuelve domain.ErrNotFound si el equipo no existe en la organización.
	GetEquipment(ctx context.Context, organizationID, equipmentID string) (*entity.EquipmentAsset, error)
	ListEquipment(ctx context.Context, organizationID string) ([]entity.EquipmentAsset, error)
	// ListEquipmentMaintenance histórico completo; equipmentID vacío = toda la flota.
	ListEquipmentMaintenance(ctx context.Context, organizationID, equipmentID string) ([]entity.MaintenanceRecord, error)
	// ListEquipmentUsage salidas, devoluciones y traslados de la flota en el período.
	ListEquipmentUsage(ctx context.Context, organizationID string, p Period) ([]entity.EquipmentUsageRecord, error)
}
