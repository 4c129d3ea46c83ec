package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Await store backends
const (
	AwaitStoreMemory = "memory"
	AwaitStoreRedis  = "redis"
	AwaitStoreSQLite = "sqlite"
)

// Config contains application configuration parameters
type Config struct {
	// Server configuration
	Port         string        `json:"port"`
	Host         string        `json:"host"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
	MiniAppDir   string        `json:"miniapp_dir"`

	// Telegram Bot configuration
	Token              string `json:"token"`
	BaseURL            string `json:"base_url"`
	DropPendingUpdates bool   `json:"drop_pending_updates"`
	DriverRegLink      string `json:"driver_reg_link"`
	VPNBotLink         string `json:"vpn_bot_link"`

	// Backend configuration
	BackendURL     string        `json:"backend_url"`
	InternalToken  string        `json:"-"`
	BackendTimeout time.Duration `json:"backend_timeout"`
	ErrorTextLimit int           `json:"error_text_limit"`

	// Geocoding
	GeoRegionSuffix   string   `json:"geo_region_suffix"`
	GeoRegionKeywords []string `json:"geo_region_keywords"`

	// Await state storage
	AwaitStore    string        `json:"await_store"` // memory, redis, sqlite
	AwaitTTL      time.Duration `json:"await_ttl"`
	RedisAddr     string        `json:"redis_addr"`
	RedisPassword string        `json:"-"`
	RedisDB       int           `json:"redis_db"`

	// Database configuration (sqlite await store)
	DBName          string        `json:"db_name"`
	DBPath          string        `json:"db_path"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`

	// App configuration
	Environment string `json:"environment"` // development, production
	LogLevel    string `json:"log_level"`   // debug, info, warn, error
}

// NewConfig creates and returns a new configuration instance
func NewConfig() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		// Server defaults
		Port:         ":8081",
		Host:         "0.0.0.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		MiniAppDir:   "./miniapp",

		// Telegram defaults
		BaseURL:            "https://taxi.brakonder.ru",
		DropPendingUpdates: true,
		VPNBotLink:         "https://t.me/brakoknder_pn_bot",

		// Backend defaults
		BackendURL:     "http://backend:8000",
		BackendTimeout: 30 * time.Second,
		ErrorTextLimit: 1200,

		// Geocoding defaults
		GeoRegionSuffix:   "Вилючинск, Камчатка",
		GeoRegionKeywords: []string{"камчат", "вилючин", "петропав"},

		// Await store defaults
		AwaitStore: AwaitStoreMemory,
		AwaitTTL:   24 * time.Hour,
		RedisAddr:  "localhost:6379",

		// Database defaults
		DBName:          "bot.db",
		DBPath:          "./data/",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: 5 * time.Minute,

		// App defaults
		Environment: "production",
		LogLevel:    "info",
	}

	if port := os.Getenv("PORT"); port != "" {
		if port[0] != ':' {
			cfg.Port = ":" + port
		} else {
			cfg.Port = port
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		cfg.Host = host
	}

	if dir := os.Getenv("MINIAPP_DIR"); dir != "" {
		cfg.MiniAppDir = dir
	}

	if token := os.Getenv("TG_BOT_TOKEN"); token != "" {
		cfg.Token = token
	}

	if baseURL := os.Getenv("PUBLIC_BASE_URL"); baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}

	if link := os.Getenv("DRIVER_REG_LINK"); link != "" {
		cfg.DriverRegLink = link
	}

	if link := os.Getenv("VPN_BOT_LINK"); link != "" {
		cfg.VPNBotLink = link
	}

	if backendURL := os.Getenv("BACKEND_INTERNAL_URL"); backendURL != "" {
		cfg.BackendURL = strings.TrimRight(backendURL, "/")
	}

	if token := os.Getenv("INTERNAL_TOKEN"); token != "" {
		cfg.InternalToken = token
	}

	if suffix := os.Getenv("GEO_REGION_SUFFIX"); suffix != "" {
		cfg.GeoRegionSuffix = suffix
	}

	if keywords := os.Getenv("GEO_REGION_KEYWORDS"); keywords != "" {
		cfg.GeoRegionKeywords = splitList(keywords)
	}

	if store := os.Getenv("AWAIT_STORE"); store != "" {
		cfg.AwaitStore = strings.ToLower(strings.TrimSpace(store))
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.RedisAddr = addr
	}

	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.RedisPassword = password
	}

	if dbName := os.Getenv("DB_NAME"); dbName != "" {
		cfg.DBName = dbName
	}

	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.DBPath = dbPath
	}

	if env := os.Getenv("ENVIRONMENT"); env != "" {
		cfg.Environment = env
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Parse numeric environment variables
	if limit := os.Getenv("ERROR_TEXT_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			cfg.ErrorTextLimit = n
		}
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if n, err := strconv.Atoi(redisDB); err == nil {
			cfg.RedisDB = n
		}
	}

	if drop := os.Getenv("DROP_PENDING_UPDATES"); drop != "" {
		if v, err := strconv.ParseBool(drop); err == nil {
			cfg.DropPendingUpdates = v
		}
	}

	// Parse duration environment variables
	if timeout := os.Getenv("BACKEND_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			cfg.BackendTimeout = d
		}
	}

	if ttl := os.Getenv("AWAIT_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			cfg.AwaitTTL = d
		}
	}

	if readTimeout := os.Getenv("READ_TIMEOUT"); readTimeout != "" {
		if d, err := time.ParseDuration(readTimeout); err == nil {
			cfg.ReadTimeout = d
		}
	}

	if writeTimeout := os.Getenv("WRITE_TIMEOUT"); writeTimeout != "" {
		if d, err := time.ParseDuration(writeTimeout); err == nil {
			cfg.WriteTimeout = d
		}
	}

	return cfg, nil
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return c.DBPath + c.DBName
}

// GetServerAddress returns the server address
func (c *Config) GetServerAddress() string {
	return c.Host + c.Port
}

// MiniAppURL is the URL opened by the map buttons.
func (c *Config) MiniAppURL() string {
	return c.BaseURL + "/miniapp/"
}

// ValidateConfig validates the configuration
func (c *Config) ValidateConfig() error {
	if c.Token == "" {
		return fmt.Errorf("TG_BOT_TOKEN is required")
	}

	if c.BackendURL == "" {
		return fmt.Errorf("backend URL is required")
	}

	if c.BaseURL == "" {
		return fmt.Errorf("public base URL is required")
	}

	if c.BackendTimeout <= 0 {
		return fmt.Errorf("backend timeout must be positive")
	}

	if c.ErrorTextLimit <= 0 {
		return fmt.Errorf("error text limit must be positive")
	}

	switch c.AwaitStore {
	case AwaitStoreMemory, AwaitStoreRedis, AwaitStoreSQLite:
	default:
		return fmt.Errorf("unknown await store %q", c.AwaitStore)
	}

	if c.AwaitStore == AwaitStoreSQLite && c.DBName == "" {
		return fmt.Errorf("database name is required for the sqlite await store")
	}

	if c.AwaitStore == AwaitStoreRedis && c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required for the redis await store")
	}

	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
