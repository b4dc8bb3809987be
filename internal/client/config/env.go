package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "GOPHTICKET_"

// parseEnv loads .env.local and .env (missing files are fine; existing
// variables are not overridden) and overlays GOPHTICKET_* variables.
func parseEnv(cfg *Config) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")
	applyEnv(cfg, os.LookupEnv)
}

// applyEnv panics on unparsable numbers and durations.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(err)
			}
			*dst = d
		}
	}

	str("STORAGE_DRIVER", &cfg.StorageDriver)
	str("STORAGE_DSN", &cfg.StorageDSN)
	str("PAYMENT_PROVIDER", &cfg.PaymentProvider)
	str("PAYSTACK_PUBLIC_KEY", &cfg.PaystackPublicKey)
	str("PAYSTACK_SECRET_KEY", &cfg.PaystackSecretKey)
	str("PAYSTACK_BASE_URL", &cfg.PaystackBaseURL)
	dur("PAYMENT_TIMEOUT", &cfg.PaymentTimeout)
	str("QR_SERVICE_URL", &cfg.QRServiceURL)
	if v, ok := lookup(envPrefix + "QR_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		cfg.QRSize = n
	}
	str("IMAGE_STORE", &cfg.ImageStore)
	str("S3_BUCKET", &cfg.S3Bucket)
	str("S3_REGION", &cfg.S3Region)
	str("S3_BASE_ENDPOINT", &cfg.S3BaseEndpoint)
	str("S3_ACCESS_KEY", &cfg.S3AccessKey)
	str("S3_SECRET_KEY", &cfg.S3SecretKey)
	if v, ok := lookup(envPrefix + "MAX_IMAGE_SIZE"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			panic(err)
		}
		cfg.MaxImageSize = n
	}
	dur("HTTP_TIMEOUT", &cfg.HTTPTimeout)
	str("LOG_LEVEL", &cfg.LogLevel)
}
