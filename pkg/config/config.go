package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Remote   RemoteConfig
	DB       DBConfig
	Calendar CalendarConfig
	Orders   OrdersConfig
	Session  SessionConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
	Locale   string // etiqueta BCP 47 para formatear montos (es-PE)
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

// Modos del colaborador remoto.
const (
	RemoteModeREST     = "rest"
	RemoteModePostgres = "postgres"
)

// RemoteConfig colaborador remoto que persiste pedidos y letras.
type RemoteConfig struct {
	Mode              string // rest | postgres
	BaseURL           string
	Timeout           time.Duration
	TokenSecret       string // vacío = sin token de servicio
	TokenIssuer       string
	TokenExpiration   int // minutos
	LoadRetryAttempts int
	LoadRetryDelay    time.Duration
}

// DBConfig configuración de PostgreSQL (solo con REMOTE_MODE=postgres).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// CalendarConfig tope diario, umbral de "cerca del tope" y feriados (YYYY-MM-DD).
type CalendarConfig struct {
	DailyCap     decimal.Decimal
	NearCapRatio decimal.Decimal
	Holidays     []string
}

// OrdersConfig conjunto cerrado de beneficiarios aceptados.
type OrdersConfig struct {
	Beneficiaries []string
}

// SessionConfig expiración de las sesiones de navegador.
type SessionConfig struct {
	IdleTimeout time.Duration
	MaxAge      time.Duration
}

// DefaultHolidays feriados nacionales 2025 usados cuando CALENDAR_HOLIDAYS no está definido.
var DefaultHolidays = []string{
	"2025-01-01", "2025-04-17", "2025-04-18", "2025-05-01", "2025-06-07", "2025-06-29",
	"2025-07-23", "2025-07-28", "2025-07-29", "2025-08-06", "2025-08-30", "2025-10-08",
	"2025-11-01", "2025-12-08", "2025-12-09", "2025-12-25",
}

// DefaultBeneficiaries beneficiarios usados cuando BENEFICIARIES no está definido.
var DefaultBeneficiaries = []string{"BCP", "BBVA", "INTERBANK", "SCOTIABANK"}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, REMOTE_BASE_URL, CALENDAR_DAILY_CAP, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	dailyCap, err := getDecimal(v, "CALENDAR_DAILY_CAP", decimal.NewFromInt(50000))
	if err != nil {
		return nil, err
	}
	ratio, err := getDecimal(v, "CALENDAR_NEAR_CAP_RATIO", decimal.RequireFromString("0.7"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "pedidos-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
			Locale:   getString(v, "APP_LOCALE", "es-PE"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Remote: RemoteConfig{
			Mode:              strings.ToLower(getString(v, "REMOTE_MODE", RemoteModeREST)),
			BaseURL:           strings.TrimRight(getString(v, "REMOTE_BASE_URL", "http://localhost:8000/api"), "/"),
			Timeout:           time.Duration(getInt(v, "REMOTE_TIMEOUT_SECONDS", 15)) * time.Second,
			TokenSecret:       getString(v, "REMOTE_TOKEN_SECRET", ""),
			TokenIssuer:       getString(v, "REMOTE_TOKEN_ISSUER", "pedidos-api"),
			TokenExpiration:   getInt(v, "REMOTE_TOKEN_EXPIRATION_MINUTES", 60),
			LoadRetryAttempts: getInt(v, "LOAD_RETRY_ATTEMPTS", 3),
			LoadRetryDelay:    time.Duration(getInt(v, "LOAD_RETRY_DELAY_MS", 500)) * time.Millisecond,
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "pedidos"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Calendar: CalendarConfig{
			DailyCap:     dailyCap,
			NearCapRatio: ratio,
			Holidays:     getList(v, "CALENDAR_HOLIDAYS", DefaultHolidays),
		},
		Orders: OrdersConfig{
			Beneficiaries: getList(v, "BENEFICIARIES", DefaultBeneficiaries),
		},
		Session: SessionConfig{
			IdleTimeout: time.Duration(getInt(v, "SESSION_IDLE_MINUTES", 30)) * time.Minute,
			MaxAge:      time.Duration(getInt(v, "SESSION_MAX_AGE_HOURS", 12)) * time.Hour,
		},
	}

	switch cfg.Remote.Mode {
	case RemoteModeREST, RemoteModePostgres:
	default:
		return nil, fmt.Errorf("config: REMOTE_MODE inválido %q (rest|postgres)", cfg.Remote.Mode)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getDecimal(v *viper.Viper, key string, def decimal.Decimal) (decimal.Decimal, error) {
	if !v.IsSet(key) {
		return def, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return decimal.Zero, fmt.Errorf("config: %s no es numérico: %w", key, err)
	}
	return d, nil
}

// getList lee una lista separada por comas; vacía o ausente devuelve def.
func getList(v *viper.Viper, key string, def []string) []string {
	if !v.IsSet(key) {
		return append([]string(nil), def...)
	}
	var out []string
	for _, p := range strings.Split(v.GetString(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), def...)
	}
	return out
}
