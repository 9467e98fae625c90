package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (Viper: variables de entorno y, si existen,
// los archivos .env o config.env).
type Config struct {
	App   AppConfig
	DB    DBConfig
	Store StoreConfig
	JWT   JWTConfig
	HTTP  HTTPConfig
	AI    AIConfig
	Redis RedisConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// StoreConfig selecciona el almacén de colecciones: "memory" (desarrollo/tests) o "postgres".
type StoreConfig struct {
	Driver      string
	SeedOnEmpty bool // si el almacén está vacío se carga el dataset semilla
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío se usa tal cual como connection string.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	MinConns    int
}

// ConnectionString DATABASE_URL si está definido; si no, DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN arma la URL de conexión escapando usuario y contraseña.
func (c DBConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AIConfig proveedor de predicciones (gemini | anthropic).
type AIConfig struct {
	Provider        string
	GeminiAPIKey    string
	GeminiModel     string
	AnthropicAPIKey string
	AnthropicModel  string
	TimeoutSeconds  int
}

// RedisConfig caché opcional de predicciones. Addr vacío = sin caché.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	TTLMinutes int
}

var defaults = map[string]interface{}{
	"APP_ENV":                      "development",
	"APP_NAME":                     "clinic-inventory",
	"LOG_LEVEL":                    "",
	"STORE_DRIVER":                 "memory",
	"STORE_SEED_ON_EMPTY":          true,
	"DATABASE_URL":                 "",
	"DB_HOST":                      "localhost",
	"DB_PORT":                      5432,
	"DB_USER":                      "postgres",
	"DB_PASSWORD":                  "",
	"DB_NAME":                      "clinic_inventory",
	"DB_SSLMODE":                   "disable",
	"DB_MAX_CONNS":                 10,
	"DB_MIN_CONNS":                 1,
	"JWT_SECRET":                   "",
	"JWT_EXPIRATION_MINUTES":       60,
	"JWT_ISSUER":                   "clinic-inventory",
	"HTTP_HOST":                    "0.0.0.0",
	"HTTP_PORT":                    8080,
	"AI_PROVIDER":                  "gemini",
	"GEMINI_API_KEY":               "",
	"GEMINI_MODEL":                 "gemini-2.5-pro",
	"ANTHROPIC_API_KEY":            "",
	"ANTHROPIC_MODEL":              "claude-3-5-sonnet-latest",
	"AI_TIMEOUT_SECONDS":           60,
	"REDIS_ADDR":                   "",
	"REDIS_PASSWORD":               "",
	"REDIS_DB":                     0,
	"PREDICTION_CACHE_TTL_MINUTES": 360,
}

// Load lee la configuración. Las variables de entorno tienen prioridad sobre los archivos.
func Load() (*Config, error) {
	v := viper.New()
	readOptionalFiles(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	cfg := &Config{
		App: AppConfig{
			Env:      v.GetString("APP_ENV"),
			Name:     v.GetString("APP_NAME"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Store: StoreConfig{
			Driver:      strings.ToLower(v.GetString("STORE_DRIVER")),
			SeedOnEmpty: getBool(v, "STORE_SEED_ON_EMPTY"),
		},
		DB: DBConfig{
			DatabaseURL: v.GetString("DATABASE_URL"),
			Host:        v.GetString("DB_HOST"),
			Port:        getInt(v, "DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			MaxConns:    getInt(v, "DB_MAX_CONNS"),
			MinConns:    getInt(v, "DB_MIN_CONNS"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES"),
			Issuer:     v.GetString("JWT_ISSUER"),
		},
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: getInt(v, "HTTP_PORT"),
		},
		AI: AIConfig{
			Provider:        v.GetString("AI_PROVIDER"),
			GeminiAPIKey:    v.GetString("GEMINI_API_KEY"),
			GeminiModel:     v.GetString("GEMINI_MODEL"),
			AnthropicAPIKey: v.GetString("ANTHROPIC_API_KEY"),
			AnthropicModel:  v.GetString("ANTHROPIC_MODEL"),
			TimeoutSeconds:  getInt(v, "AI_TIMEOUT_SECONDS"),
		},
		Redis: RedisConfig{
			Addr:       v.GetString("REDIS_ADDR"),
			Password:   v.GetString("REDIS_PASSWORD"),
			DB:         getInt(v, "REDIS_DB"),
			TTLMinutes: getInt(v, "PREDICTION_CACHE_TTL_MINUTES"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case "memory", "postgres":
	default:
		return fmt.Errorf("config: STORE_DRIVER inválido %q (memory | postgres)", c.Store.Driver)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("config: HTTP_PORT inválido %d", c.HTTP.Port)
	}
	if c.JWT.Expiration <= 0 {
		return fmt.Errorf("config: JWT_EXPIRATION_MINUTES debe ser positivo")
	}
	return nil
}

// readOptionalFiles .env y luego config.env (raíz o ./config). Si no existen se ignoran.
func readOptionalFiles(v *viper.Viper) {
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.SetConfigName(".env")
	_ = v.ReadInConfig()

	v.AddConfigPath("./config")
	v.SetConfigName("config")
	_ = v.MergeInConfig()
}

// getBool tolera valores de entorno como "1", "t" o "TRUE".
func getBool(v *viper.Viper, key string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		if def, ok := defaults[key].(bool); ok {
			return def
		}
		return false
	}
	return b
}

// getInt cae al valor por defecto si la variable no es un entero.
func getInt(v *viper.Viper, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		def, _ := defaults[key].(int)
		return def
	}
	return n
}
