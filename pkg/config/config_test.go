package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/field-assets-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 14, cfg.Analytics.LeadTimeDays)
	assert.Equal(t, 7, cfg.Analytics.DefaultUsefulLifeYears)
	assert.Equal(t, 6, cfg.Analytics.LookbackMonths)
	assert.Equal(t, 12, cfg.Analytics.DefaultPeriodMonths)
	assert.Equal(t, 300, cfg.Cache.TTLSeconds)
	assert.False(t, cfg.Cache.Enabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvSobrescribe(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("ANALYTICS_LEAD_TIME_DAYS", "21")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 21, cfg.Analytics.LeadTimeDays)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.True(t, cfg.Cache.Enabled())
}

func TestLoad_EnteroMalFormado_UsaDefault(t *testing.T) {
	t.Setenv("ANALYTICS_LOOKBACK_MONTHS", "seis")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Analytics.LookbackMonths)
}

func TestValidate_RechazaParametrosNoPositivos(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("ANALYTICS_LEAD_TIME_DAYS", "0")
	t.Setenv("ANALYTICS_DEFAULT_USEFUL_LIFE_YEARS", "-1")

	cfg, err := config.Load()
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANALYTICS_LEAD_TIME_DAYS")
	assert.Contains(t, err.Error(), "ANALYTICS_DEFAULT_USEFUL_LIFE_YEARS")
}

func TestValidate_SinSecretoJWT(t *testing.T) {
	cfg := &config.Config{
		HTTP:      config.HTTPConfig{Port: 8080},
		Analytics: config.AnalyticsConfig{LeadTimeDays: 14, DefaultUsefulLifeYears: 7, LookbackMonths: 6, DefaultPeriodMonths: 12},
	}
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "assets", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/assets?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
