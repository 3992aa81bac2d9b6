package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	Analytics AnalyticsConfig
	Cache     CacheConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string // trace, debug, info, warn, error
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo (ej. DATABASE_URL de Supabase).
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int32
	MinConns    int32
}

// ConnectionString devuelve DATABASE_URL si está definido; si no, el DSN construido.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN connection string con la contraseña escapada.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// JWTConfig los tokens los emite el servicio de identidad; aquí solo se validan.
type JWTConfig struct {
	Secret string
	Issuer string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AnalyticsConfig parámetros por defecto de los reportes.
type AnalyticsConfig struct {
	LeadTimeDays           int // plazo de reposición de consumibles
	DefaultUsefulLifeYears int // vida útil de maquinaria sin categoría conocida
	LookbackMonths         int // ventana de observación del consumo
	DefaultPeriodMonths    int // período de los reportes cuando no se envían fechas
}

// CacheConfig caché opcional de reportes en Redis. RedisURL vacío = sin caché.
type CacheConfig struct {
	RedisURL   string
	TTLSeconds int
}

// Enabled informa si hay Redis configurado.
func (c CacheConfig) Enabled() bool { return c.RedisURL != "" }

// Load lee la configuración desde variables de entorno (y opcionalmente desde .env / config.env).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, ANALYTICS_LEAD_TIME_DAYS, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // opcional

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig() // opcional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "field-assets-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "field_assets"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    int32(getInt(v, "DB_MAX_CONNS", 10)),
			MinConns:    int32(getInt(v, "DB_MIN_CONNS", 1)),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
			Issuer: getString(v, "JWT_ISSUER", "field-assets"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Analytics: AnalyticsConfig{
			LeadTimeDays:           getInt(v, "ANALYTICS_LEAD_TIME_DAYS", 14),
			DefaultUsefulLifeYears: getInt(v, "ANALYTICS_DEFAULT_USEFUL_LIFE_YEARS", 7),
			LookbackMonths:         getInt(v, "ANALYTICS_LOOKBACK_MONTHS", 6),
			DefaultPeriodMonths:    getInt(v, "ANALYTICS_DEFAULT_PERIOD_MONTHS", 12),
		},
		Cache: CacheConfig{
			RedisURL:   getString(v, "REDIS_URL", ""),
			TTLSeconds: getInt(v, "CACHE_TTL_SECONDS", 300),
		},
	}
	return cfg, nil
}

// Validate rechaza configuraciones con las que el servicio no puede arrancar.
func (c *Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET es obligatorio"))
	}
	if c.HTTP.Port <= 0 {
		errs = append(errs, fmt.Errorf("HTTP_PORT inválido: %d", c.HTTP.Port))
	}
	for _, knob := range []struct {
		key   string
		value int
	}{
		{"ANALYTICS_LEAD_TIME_DAYS", c.Analytics.LeadTimeDays},
		{"ANALYTICS_DEFAULT_USEFUL_LIFE_YEARS", c.Analytics.DefaultUsefulLifeYears},
		{"ANALYTICS_LOOKBACK_MONTHS", c.Analytics.LookbackMonths},
		{"ANALYTICS_DEFAULT_PERIOD_MONTHS", c.Analytics.DefaultPeriodMonths},
	} {
		if knob.value <= 0 {
			errs = append(errs, fmt.Errorf("%s debe ser mayor que 0 (recibido %d)", knob.key, knob.value))
		}
	}
	if c.Cache.Enabled() && c.Cache.TTLSeconds <= 0 {
		errs = append(errs, fmt.Errorf("CACHE_TTL_SECONDS debe ser mayor que 0 (recibido %d)", c.Cache.TTLSeconds))
	}
	return errors.Join(errs...)
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	if s, ok := v.Get(key).(string); ok {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return def
		}
		return n
	}
	return v.GetInt(key)
}
