package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/gophticket/internal/flagx"
	"github.com/dmitrijs2005/gophticket/internal/timex"
	"github.com/tidwall/jsonc"
)

// JsonConfig is the on-disk shape. Absent or zero fields keep the value
// already in Config.
type JsonConfig struct {
	StorageDriver     string         `json:"storage_driver"`
	StorageDSN        string         `json:"storage_dsn"`
	PaymentProvider   string         `json:"payment_provider"`
	PaystackPublicKey string         `json:"paystack_public_key"`
	PaystackSecretKey string         `json:"paystack_secret_key"`
	PaystackBaseURL   string         `json:"paystack_base_url"`
	PaymentTimeout    timex.Duration `json:"payment_timeout"`
	QRServiceURL      string         `json:"qr_service_url"`
	QRSize            int            `json:"qr_size"`
	ImageStore        string         `json:"image_store"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
	S3AccessKey       string         `json:"s3_access_key"`
	S3SecretKey       string         `json:"s3_secret_key"`
	MaxImageSize      int64          `json:"max_image_size"`
	HTTPTimeout       timex.Duration `json:"http_timeout"`
	LogLevel          string         `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c/-config. Read and decode
// errors panic.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &jc); err != nil {
		panic(err)
	}
	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	setString(&cfg.StorageDriver, jc.StorageDriver)
	setString(&cfg.StorageDSN, jc.StorageDSN)
	setString(&cfg.PaymentProvider, jc.PaymentProvider)
	setString(&cfg.PaystackPublicKey, jc.PaystackPublicKey)
	setString(&cfg.PaystackSecretKey, jc.PaystackSecretKey)
	setString(&cfg.PaystackBaseURL, jc.PaystackBaseURL)
	setDuration(&cfg.PaymentTimeout, jc.PaymentTimeout.Duration)
	setString(&cfg.QRServiceURL, jc.QRServiceURL)
	if jc.QRSize > 0 {
		cfg.QRSize = jc.QRSize
	}
	setString(&cfg.ImageStore, jc.ImageStore)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	if jc.MaxImageSize > 0 {
		cfg.MaxImageSize = jc.MaxImageSize
	}
	setDuration(&cfg.HTTPTimeout, jc.HTTPTimeout.Duration)
	setString(&cfg.LogLevel, jc.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}
