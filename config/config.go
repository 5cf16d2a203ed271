package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSOrigins       string `mapstructure:"CORS_ORIGINS"`
	TrustedProxies    string `mapstructure:"TRUSTED_PROXIES"`

	// Storage backend: "mongo" or "memory".
	StorageBackend string `mapstructure:"STORAGE_BACKEND"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	DatabaseName   string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisLockDB   int    `mapstructure:"REDIS_LOCK_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Payments and payouts.
	PaymentKeySecret  string        `mapstructure:"PAYMENT_KEY_SECRET"`
	StripeKey         string        `mapstructure:"STRIPE_KEY"`
	PayoutCurrency    string        `mapstructure:"PAYOUT_CURRENCY"`
	PayoutCountry     string        `mapstructure:"PAYOUT_COUNTRY"`
	PartnerShare      float64       `mapstructure:"PARTNER_SHARE"`
	PayoutLockTTL     time.Duration `mapstructure:"PAYOUT_LOCK_TTL"`
	BookingCodePrefix string        `mapstructure:"BOOKING_CODE_PREFIX"`
	InvoiceCompany    string        `mapstructure:"INVOICE_COMPANY_NAME"`

	// Google Cloud.
	FirebaseCredentialsPath string        `mapstructure:"FIREBASE_CREDENTIALS_PATH"`
	GCSBucket               string        `mapstructure:"GCS_BUCKET"`
	GCSServiceAccountPath   string        `mapstructure:"GCS_SERVICE_ACCOUNT_PATH"`
	UploadURLTTL            time.Duration `mapstructure:"UPLOAD_URL_TTL"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("TRUSTED_PROXIES", "")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("STORAGE_BACKEND", "mongo")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "metro")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_LOCK_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("PAYMENT_KEY_SECRET", "")
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("PAYOUT_CURRENCY", "inr")
	viper.SetDefault("PAYOUT_COUNTRY", "IN")
	viper.SetDefault("PARTNER_SHARE", 0.8)
	viper.SetDefault("PAYOUT_LOCK_TTL", "30s")
	viper.SetDefault("BOOKING_CODE_PREFIX", "METRO")
	viper.SetDefault("INVOICE_COMPANY_NAME", "Metro Home Services")
	viper.SetDefault("FIREBASE_CREDENTIALS_PATH", "")
	viper.SetDefault("GCS_BUCKET", "")
	viper.SetDefault("GCS_SERVICE_ACCOUNT_PATH", "")
	viper.SetDefault("UPLOAD_URL_TTL", "5m")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if AppConfig.PartnerShare <= 0 || AppConfig.PartnerShare > 1 {
		log.Fatalf("PARTNER_SHARE must be in (0, 1], got %v", AppConfig.PartnerShare)
	}
}

// CORSOriginList splits CORS_ORIGINS on commas.
func (c *Config) CORSOriginList() []string {
	return splitList(c.CORSOrigins)
}

// TrustedProxyList splits TRUSTED_PROXIES on commas. Empty means no proxy is
// trusted and the client IP is always the socket peer.
func (c *Config) TrustedProxyList() []string {
	return splitList(c.TrustedProxies)
}

func splitList(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// PlatformCommission is the share of an item price kept by the platform.
func PlatformCommission() float64 {
	return 1 - AppConfig.PartnerShare
}
