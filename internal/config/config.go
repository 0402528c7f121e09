// internal/config/config.go
package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Services ServicesConfig
	Auth     AuthConfig
	HTTP     HTTPConfig
	Server   ServerConfig
	Cache    CacheConfig
	Archive  ArchiveConfig
}

// ServicesConfig holds the base URLs of the backend microservices the console
// talks to. Each service is reached by direct URL; there is no discovery.
type ServicesConfig struct {
	OrderURL    string
	SupplierURL string
	ProductURL  string
	UserURL     string
	ResourceURL string
}

type AuthConfig struct {
	TokenFile string
}

type HTTPConfig struct {
	Timeout time.Duration
}

type ServerConfig struct {
	Port           string
	Mode           string
	LogLevel       string
	AllowedOrigins []string
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	ReportTTLSeconds int
}

type ArchiveConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	LocalDir  string
}

// Load reads configuration from the environment (and .env if present). It
// returns a fresh value each call so tests can build configs without global
// state.
func Load() *Config {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("ORDER_SERVICE_URL", "http://localhost:8080")
	v.SetDefault("SUPPLIER_SERVICE_URL", "http://localhost:8081")
	v.SetDefault("PRODUCT_SERVICE_URL", "http://localhost:8082")
	v.SetDefault("USER_SERVICE_URL", "http://localhost:8083")
	v.SetDefault("RESOURCE_SERVICE_URL", "http://localhost:8084")
	v.SetDefault("AUTH_TOKEN_FILE", "")
	v.SetDefault("HTTP_TIMEOUT_SECONDS", 30)
	v.SetDefault("SERVER_PORT", "3100")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_REPORT_TTL_SECONDS", 60)
	v.SetDefault("ARCHIVE_ENABLED", false)
	v.SetDefault("ARCHIVE_ENDPOINT", "")
	v.SetDefault("ARCHIVE_ACCESS_KEY", "")
	v.SetDefault("ARCHIVE_SECRET_KEY", "")
	v.SetDefault("ARCHIVE_BUCKET", "")
	v.SetDefault("ARCHIVE_REGION", "us-east-1")
	v.SetDefault("ARCHIVE_USE_SSL", true)
	v.SetDefault("ARCHIVE_LOCAL_DIR", "./data/attachments")

	v.AutomaticEnv()

	return &Config{
		Services: ServicesConfig{
			OrderURL:    v.GetString("ORDER_SERVICE_URL"),
			SupplierURL: v.GetString("SUPPLIER_SERVICE_URL"),
			ProductURL:  v.GetString("PRODUCT_SERVICE_URL"),
			UserURL:     v.GetString("USER_SERVICE_URL"),
			ResourceURL: v.GetString("RESOURCE_SERVICE_URL"),
		},
		Auth: AuthConfig{
			TokenFile: v.GetString("AUTH_TOKEN_FILE"),
		},
		HTTP: HTTPConfig{
			Timeout: time.Duration(v.GetInt("HTTP_TIMEOUT_SECONDS")) * time.Second,
		},
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Cache: CacheConfig{
			Enabled:          v.GetBool("CACHE_ENABLED"),
			RedisURL:         v.GetString("REDIS_URL"),
			RedisHost:        v.GetString("REDIS_HOST"),
			RedisPort:        v.GetString("REDIS_PORT"),
			RedisPassword:    v.GetString("REDIS_PASSWORD"),
			RedisDB:          v.GetInt("REDIS_DB"),
			ReportTTLSeconds: v.GetInt("CACHE_REPORT_TTL_SECONDS"),
		},
		Archive: ArchiveConfig{
			Enabled:   v.GetBool("ARCHIVE_ENABLED"),
			Endpoint:  v.GetString("ARCHIVE_ENDPOINT"),
			AccessKey: v.GetString("ARCHIVE_ACCESS_KEY"),
			SecretKey: v.GetString("ARCHIVE_SECRET_KEY"),
			Bucket:    v.GetString("ARCHIVE_BUCKET"),
			Region:    v.GetString("ARCHIVE_REGION"),
			UseSSL:    v.GetBool("ARCHIVE_USE_SSL"),
			LocalDir:  v.GetString("ARCHIVE_LOCAL_DIR"),
		},
	}
}
