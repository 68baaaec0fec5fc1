package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Storage   StorageConfig
	History   HistoryConfig
	Export    ExportConfig
	Session   SessionConfig
	Printer   PrinterConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name        string
	Env         string
	Port        string
	Debug       bool
	CatalogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

// StorageConfig selects the durable key-value backend.
type StorageConfig struct {
	Driver     string // "postgres" or "memory"
	QuotaBytes int64
}

type HistoryConfig struct {
	Key      string
	Capacity int
	NodeID   int64
}

type ExportConfig struct {
	Scale          int
	JPEGQuality    int
	PDFJPEGQuality int
	Background     string
}

type SessionConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
	MaxSessions     int // 0 means unlimited
}

type PrinterConfig struct {
	Type      string
	USBPath   string
	Address   string
	CharWidth int
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("APP_NAME", "receipt-studio")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("CATALOG_PATH", "")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "receipts")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("STORAGE_DRIVER", StorageDriverMemory)
	viper.SetDefault("STORAGE_QUOTA_BYTES", 5*1024*1024)
	viper.SetDefault("HISTORY_KEY", "receipt_history")
	viper.SetDefault("HISTORY_CAPACITY", 50)
	viper.SetDefault("HISTORY_NODE_ID", 1)
	viper.SetDefault("EXPORT_SCALE", 3)
	viper.SetDefault("EXPORT_JPEG_QUALITY", 90)
	viper.SetDefault("EXPORT_PDF_JPEG_QUALITY", 95)
	viper.SetDefault("EXPORT_BACKGROUND", "#fffcf5")
	viper.SetDefault("SESSION_TTL_MINUTES", 60)
	viper.SetDefault("SESSION_CLEANUP_MINUTES", 5)
	viper.SetDefault("SESSION_MAX", 10000)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_USB_PATH", "")
	viper.SetDefault("PRINTER_ADDRESS", "")
	viper.SetDefault("PRINTER_CHAR_WIDTH", 42)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)

	return &Config{
		App: AppConfig{
			Name:        viper.GetString("APP_NAME"),
			Env:         viper.GetString("APP_ENV"),
			Port:        viper.GetString("APP_PORT"),
			Debug:       viper.GetBool("APP_DEBUG"),
			CatalogPath: viper.GetString("CATALOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		Storage: StorageConfig{
			Driver:     viper.GetString("STORAGE_DRIVER"),
			QuotaBytes: viper.GetInt64("STORAGE_QUOTA_BYTES"),
		},
		History: HistoryConfig{
			Key:      viper.GetString("HISTORY_KEY"),
			Capacity: viper.GetInt("HISTORY_CAPACITY"),
			NodeID:   viper.GetInt64("HISTORY_NODE_ID"),
		},
		Export: ExportConfig{
			Scale:          viper.GetInt("EXPORT_SCALE"),
			JPEGQuality:    viper.GetInt("EXPORT_JPEG_QUALITY"),
			PDFJPEGQuality: viper.GetInt("EXPORT_PDF_JPEG_QUALITY"),
			Background:     viper.GetString("EXPORT_BACKGROUND"),
		},
		Session: SessionConfig{
			TTL:             time.Duration(viper.GetInt("SESSION_TTL_MINUTES")) * time.Minute,
			CleanupInterval: time.Duration(viper.GetInt("SESSION_CLEANUP_MINUTES")) * time.Minute,
			MaxSessions:     viper.GetInt("SESSION_MAX"),
		},
		Printer: PrinterConfig{
			Type:      viper.GetString("PRINTER_TYPE"),
			USBPath:   viper.GetString("PRINTER_USB_PATH"),
			Address:   viper.GetString("PRINTER_ADDRESS"),
			CharWidth: viper.GetInt("PRINTER_CHAR_WIDTH"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
	}
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("config: unknown storage driver %q (use postgres or memory)", c.Storage.Driver)
	}
	if c.History.Key == "" {
		return fmt.Errorf("config: HISTORY_KEY must not be empty")
	}
	if c.History.Capacity < 1 {
		return fmt.Errorf("config: HISTORY_CAPACITY must be at least 1, got %d", c.History.Capacity)
	}
	if c.Export.Scale < 1 {
		return fmt.Errorf("config: EXPORT_SCALE must be at least 1, got %d", c.Export.Scale)
	}
	if c.Export.JPEGQuality < 1 || c.Export.JPEGQuality > 100 {
		return fmt.Errorf("config: EXPORT_JPEG_QUALITY must be within 1-100, got %d", c.Export.JPEGQuality)
	}
	if c.Export.PDFJPEGQuality < 1 || c.Export.PDFJPEGQuality > 100 {
		return fmt.Errorf("config: EXPORT_PDF_JPEG_QUALITY must be within 1-100, got %d", c.Export.PDFJPEGQuality)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL_MINUTES must be positive")
	}
	if c.Session.MaxSessions < 0 {
		return fmt.Errorf("config: SESSION_MAX must not be negative, got %d", c.Session.MaxSessions)
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
