package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/gophticket/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-s string   storage driver
//	-d string   storage DSN
//	-p string   payment provider
//	-l string   log level
//
// Only these flags are taken from os.Args; see flagx.FilterArgs.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-d", "-p", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.StorageDriver, "s", cfg.StorageDriver, "storage driver: sqlite, postgres, redis or memory")
	fs.StringVar(&cfg.StorageDSN, "d", cfg.StorageDSN, "storage DSN")
	fs.StringVar(&cfg.PaymentProvider, "p", cfg.PaymentProvider, "payment provider: prompt, paystack or mock")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
