package analytics_test

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/field-assets-api/internal/domain"
	"github.com/jhoicas/field-assets-api/internal/domain/entity"
	"github.com/jhoicas/field-assets-api/internal/domain/repository"
)

// fakeRepo repositorio en memoria; registra los períodos consultados.
type fakeRepo struct {
	mu sync.Mutex

	assets      []entity.Asset
	toolMoves   []entity.MovementRecord
	consMoves   []entity.MovementRecord
	orders      []entity.OrderRecord
	maintenance []entity.MaintenanceRecord
	stock       []entity.InventorySnapshot
	sites       []entity.Site
	users       []entity.User
	equipment   []entity.EquipmentAsset
	eqMaint     []entity.MaintenanceRecord
	eqUsage     []entity.EquipmentUsageRecord

	failAssets error
	calls      map[string]int
	periods    map[string]repository.Period
}

var _ repository.AssetAnalyticsRepository = (*fakeRepo)(nil)

func (f *fakeRepo) track(op string, p repository.Period) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
		f.periods = map[string]repository.Period{}
	}
	f.calls[op]++
	f.periods[op] = p
}

func (f *fakeRepo) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeRepo) periodOf(op string) repository.Period {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.periods[op]
}

func (f *fakeRepo) ListAssets(_ context.Context, _ string) ([]entity.Asset, error) {
	f.track("ListAssets", repository.Period{})
	if f.failAssets != nil {
		return nil, f.failAssets
	}
	return f.assets, nil
}

func (f *fakeRepo) ListToolMovements(_ context.Context, _ string, p repository.Period) ([]entity.MovementRecord, error) {
	f.track("ListToolMovements", p)
	return f.toolMoves, nil
}

func (f *fakeRepo) ListConsumableMovements(_ context.Context, _ string, p repository.Period) ([]entity.MovementRecord, error) {
	f.track("ListConsumableMovements", p)
	return f.consMoves, nil
}

func (f *fakeRepo) ListOrders(_ context.Context, _ string, p repository.Period) ([]entity.OrderRecord, error) {
	f.track("ListOrders", p)
	return f.orders, nil
}

func (f *fakeRepo) ListMaintenanceRecords(_ context.Context, _ string, p repository.Period) ([]entity.MaintenanceRecord, error) {
	f.track("ListMaintenanceRecords", p)
	return f.maintenance, nil
}

func (f *fakeRepo) ListInventorySnapshots(_ context.Context, _ string) ([]entity.InventorySnapshot, error) {
	f.track("ListInventorySnapshots", repository.Period{})
	return f.stock, nil
}

func (f *fakeRepo) ListSites(_ context.Context, _ string) ([]entity.Site, error) {
	f.track("ListSites", repository.Period{})
	return f.sites, nil
}

func (f *fakeRepo) ListUsers(_ context.Context, _ string) ([]entity.User, error) {
	f.track("ListUsers", repository.Period{})
	return f.users, nil
}

func (f *fakeRepo) GetEquipment(_ context.Context, _ string, id string) (*entity.EquipmentAsset, error) {
	f.track("GetEquipment", repository.Period{})
	for _, e := range f.equipment {
		if e.ID == id {
			eq := e
			return &eq, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRepo) ListEquipment(_ context.Context, _ string) ([]entity.EquipmentAsset, error) {
	f.track("ListEquipment", repository.Period{})
	return f.equipment, nil
}

func (f *fakeRepo) ListEquipmentMaintenance(_ context.Context, _ string, id string) ([]entity.MaintenanceRecord, error) {
	f.track("ListEquipmentMaintenance", repository.Period{})
	if id == "" {
		return f.eqMaint, nil
	}
	var out []entity.MaintenanceRecord
	for _, r := range f.eqMaint {
		if r.AssetID == id {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListEquipmentUsage(_ context.Context, _ string, p repository.Period) ([]entity.EquipmentUsageRecord, error) {
	f.track("ListEquipmentUsage", p)
	return f.eqUsage, nil
}

// memCache caché en memoria con fallo opcional.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
	failGet error
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet != nil {
		return nil, false, c.failGet
	}
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.ttls[key] = ttl
	return nil
}
