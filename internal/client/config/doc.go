// Package config loads runtime configuration for the gophticket CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config. Comments and trailing
//     commas are allowed.
//  3. Environment variables prefixed with GOPHTICKET_, after loading
//     .env.local and .env when present.
//  4. Command-line flags.
//
// Supported flags
//
//	-s string   storage driver: sqlite, postgres, redis or memory
//	-d string   storage DSN (file path, postgres URL or redis URL)
//	-p string   payment provider: prompt, paystack or mock
//	-l string   log level: debug, info, warn or error
//
// # JSON schema
//
// Durations use timex.Duration, so "30s" and integer nanoseconds both work:
//
//	{
//	  // local wallet
//	  "storage_driver": "sqlite",
//	  "storage_dsn": "ticket.db",
//	  "payment_provider": "paystack",
//	  "paystack_public_key": "pk_test_xxx",
//	  "http_timeout": "30s",
//	}
package config
