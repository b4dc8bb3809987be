package config

import (
	"fmt"
	"slices"
	"time"
)

const (
	PaymentPrompt   = "prompt"
	PaymentPaystack = "paystack"
	PaymentMock     = "mock"

	ImageStoreInline = "inline"
	ImageStoreS3     = "s3"
)

// Config holds runtime settings for the wallet CLI.
type Config struct {
	StorageDriver string
	StorageDSN    string

	PaymentProvider   string
	PaystackPublicKey string
	PaystackSecretKey string
	PaystackBaseURL   string
	PaymentTimeout    time.Duration

	QRServiceURL string
	QRSize       int

	ImageStore     string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	MaxImageSize   int64

	HTTPTimeout time.Duration
	LogLevel    string
}

// LoadDefaults populates c with defaults that work offline.
func (c *Config) LoadDefaults() {
	c.StorageDriver = "sqlite"
	c.StorageDSN = "ticket.db"
	c.PaymentProvider = PaymentPrompt
	c.PaystackBaseURL = "https://api.paystack.co"
	c.PaymentTimeout = 10 * time.Minute
	c.QRServiceURL = "https://api.qrserver.com/v1/create-qr-code/"
	c.QRSize = 200
	c.ImageStore = ImageStoreInline
	c.S3Region = "us-east-1"
	c.MaxImageSize = 5 << 20
	c.HTTPTimeout = 30 * time.Second
	c.LogLevel = "warn"
}

// LoadConfig applies defaults, then JSON, environment and flags. Later
// sources take precedence. Malformed input panics.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate checks enumerated settings and the values each choice requires.
func (c *Config) Validate() error {
	if !slices.Contains([]string{"sqlite", "postgres", "redis", "memory"}, c.StorageDriver) {
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	if c.StorageDriver != "memory" && c.StorageDSN == "" {
		return fmt.Errorf("storage driver %s needs a DSN", c.StorageDriver)
	}

	switch c.PaymentProvider {
	case PaymentPrompt, PaymentMock:
	case PaymentPaystack:
		if c.PaystackSecretKey == "" {
			return fmt.Errorf("paystack needs a secret key")
		}
	default:
		return fmt.Errorf("unknown payment provider %q", c.PaymentProvider)
	}

	switch c.ImageStore {
	case ImageStoreInline:
	case ImageStoreS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("s3 image store needs a bucket")
		}
	default:
		return fmt.Errorf("unknown image store %q", c.ImageStore)
	}

	if c.MaxImageSize <= 0 {
		return fmt.Errorf("max image size must be positive")
	}
	return nil
}
