package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"ideal-gateway/pkg/ideal"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
	Acquirer  AcquirerConfig  `mapstructure:"acquirer"`
	Merchant  MerchantConfig  `mapstructure:"merchant"`
	Directory DirectoryConfig `mapstructure:"directory"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug, release, test
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
	File   string `mapstructure:"file"`   // rotating log file, empty for stdout only
}

// AcquirerConfig describes the acquirer endpoints and exchange policy.
type AcquirerConfig struct {
	BaseURL             string        `mapstructure:"base_url"`
	TransactionURL      string        `mapstructure:"transaction_url"`
	StatusURL           string        `mapstructure:"status_url"`
	DirectoryURL        string        `mapstructure:"directory_url"`
	ProxyURL            string        `mapstructure:"proxy_url"`
	Certificate         string        `mapstructure:"certificate"` // PEM or path
	DisableVerification bool          `mapstructure:"disable_verification"`
	DisableAutoVerify   bool          `mapstructure:"disable_auto_verify"`
	FailOnNonSuccess    bool          `mapstructure:"fail_on_non_success"`
	ExpirationPeriod    string        `mapstructure:"expiration_period"`
	Timeout             time.Duration `mapstructure:"timeout"`
}

// MerchantConfig is the merchant identity registered with the acquirer.
// SubID has no default: an absent value is a configuration error.
type MerchantConfig struct {
	ID          int64  `mapstructure:"id"`
	SubID       *int   `mapstructure:"sub_id"`
	Certificate string `mapstructure:"certificate"` // PEM or path
	PrivateKey  string `mapstructure:"private_key"` // PEM, path or PKCS#12 path
	Password    string `mapstructure:"password"`
	ReturnURL   string `mapstructure:"return_url"`
}

type DirectoryConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// IdealOptions returns the structured merchant options.
func (c *Config) IdealOptions() ideal.Options {
	return ideal.Options{
		AcquirerCertificate: c.Acquirer.Certificate,
		MerchantID:          c.Merchant.ID,
		MerchantSubID:       c.Merchant.SubID,
		MerchantCertificate: c.Merchant.Certificate,
		MerchantPrivateKey:  c.Merchant.PrivateKey,
		Passphrase:          c.Merchant.Password,
	}
}

// IdealConfig returns the protocol client configuration.
func (c *Config) IdealConfig() ideal.Config {
	return ideal.Config{
		BaseURL:             c.Acquirer.BaseURL,
		TransactionURL:      c.Acquirer.TransactionURL,
		StatusURL:           c.Acquirer.StatusURL,
		DirectoryURL:        c.Acquirer.DirectoryURL,
		ProxyURL:            c.Acquirer.ProxyURL,
		DisableVerification: c.Acquirer.DisableVerification,
		DisableAutoVerify:   c.Acquirer.DisableAutoVerify,
		FailOnNonSuccess:    c.Acquirer.FailOnNonSuccess,
		ExpirationPeriod:    c.Acquirer.ExpirationPeriod,
		Timeout:             c.Acquirer.Timeout,
	}
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: IDG_ (iDEAL Gateway).
// Nested keys use underscore: IDG_ACQUIRER_BASE_URL, IDG_MERCHANT_ID, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.file", "")
	v.SetDefault("acquirer.base_url", "")
	v.SetDefault("acquirer.transaction_url", "")
	v.SetDefault("acquirer.status_url", "")
	v.SetDefault("acquirer.directory_url", "")
	v.SetDefault("acquirer.proxy_url", "")
	v.SetDefault("acquirer.certificate", "")
	v.SetDefault("acquirer.disable_verification", false)
	v.SetDefault("acquirer.disable_auto_verify", false)
	v.SetDefault("acquirer.fail_on_non_success", false)
	v.SetDefault("acquirer.expiration_period", ideal.DefaultExpiration)
	v.SetDefault("acquirer.timeout", "30s")
	v.SetDefault("merchant.id", 0)
	v.SetDefault("merchant.certificate", "")
	v.SetDefault("merchant.private_key", "")
	v.SetDefault("merchant.password", "")
	v.SetDefault("merchant.return_url", "")
	v.SetDefault("directory.cache_ttl", "24h")
	v.SetDefault("rate_limit.requests", 60)
	v.SetDefault("rate_limit.window", "1m")

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: IDG_ACQUIRER_BASE_URL -> acquirer.base_url
	v.SetEnvPrefix("IDG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// sub_id has no default, so bind it explicitly for env-only setups
	if err := v.BindEnv("merchant.sub_id"); err != nil {
		return nil, fmt.Errorf("binding env: %w", err)
	}

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
