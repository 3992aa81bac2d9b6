package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/field-assets-api/internal/domain/entity"
	"github.com/jhoicas/field-assets-api/internal/domain/repository"
)

func TestNormalizeMovementType_ValoresGuardados(t *testing.T) {
	cases := map[string]entity.MovementType{
		"check_out": entity.MovementCheckout,
		"check_in":  entity.MovementCheckin,
		"transfer":  entity.MovementTransfer,
		"消費":        entity.MovementConsumption,
		"出庫":        entity.MovementConsumption,
		"調整":        entity.MovementAdjustment,
		"移動":        entity.MovementTransfer,
		"一括移動":      entity.MovementBulkTransfer,
		"checkout":  entity.MovementCheckout,
		"repair":    entity.MovementType("repair"),
	}
	for raw, want := range cases {
		assert.Equal(t, want, normalizeMovementType(raw, "", ""), raw)
	}
}

func TestNormalizeMovementType_SalidaDeBodegaAObraEsConsumo(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		from, to string
		want     entity.MovementType
	}{
		{"traslado bodega a obra", "移動", entity.LocationWarehouse, entity.LocationSite, entity.MovementConsumption},
		{"traslado masivo bodega a obra", "一括移動", entity.LocationWarehouse, entity.LocationSite, entity.MovementConsumption},
		{"devolución obra a bodega", "移動", entity.LocationSite, entity.LocationWarehouse, entity.MovementTransfer},
		{"entre obras", "移動", entity.LocationSite, entity.LocationSite, entity.MovementTransfer},
		{"ajuste en bodega", "調整", entity.LocationWarehouse, entity.LocationWarehouse, entity.MovementAdjustment},
		{"tipo desconocido se conserva", "repair", entity.LocationWarehouse, entity.LocationSite, entity.MovementType("repair")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeMovementType(tc.raw, tc.from, tc.to))
		})
	}
}

func TestPeriodArgs_CeroEsNull(t *testing.T) {
	from, to := periodArgs(repository.Period{})
	assert.Nil(t, from)
	assert.Nil(t, to)

	end := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	from, to = periodArgs(repository.Period{To: end})
	assert.Nil(t, from)
	require.NotNil(t, to)
	assert.Equal(t, end, *to)
}

func TestPreferIPv4_DSNNoURL(t *testing.T) {
	dsn := "host=localhost user=app dbname=assets"
	assert.Equal(t, dsn, preferIPv4(dsn))
	assert.Equal(t, "postgres://app@127.0.0.1:5432/assets", preferIPv4("postgres://app@127.0.0.1/assets"))
}
