package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/gophticket/internal/client/config"
	"github.com/dmitrijs2005/gophticket/internal/client/images"
	"github.com/dmitrijs2005/gophticket/internal/client/payment"
	"github.com/dmitrijs2005/gophticket/internal/client/qr"
	"github.com/dmitrijs2005/gophticket/internal/client/services"
	"github.com/dmitrijs2005/gophticket/internal/client/storage"
	"github.com/dmitrijs2005/gophticket/internal/common"
	"github.com/dmitrijs2005/gophticket/internal/filex"
	"github.com/dmitrijs2005/gophticket/internal/logging"
	"go.uber.org/multierr"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	backend storage.Backend
	http    *http.Client

	auth    services.AuthService
	tickets services.TicketService
	ledger  services.LedgerService
	images  images.Store

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the configured storage backend and wires the services.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	if c.StorageDriver == storage.DriverSQLite {
		if _, err := filex.EnsureParentDir(c.StorageDSN); err != nil {
			return nil, err
		}
	}

	backend, err := storage.Open(ctx, c.StorageDriver, c.StorageDSN)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	a := newApp(c, logger, backend, in, out)

	imgs, err := a.newImageStore(ctx)
	if err != nil {
		return nil, multierr.Append(err, backend.Close())
	}

	widget, err := a.newWidget()
	if err != nil {
		return nil, multierr.Append(err, backend.Close())
	}

	a.wire(widget, imgs)
	return a, nil
}

func newApp(c *config.Config, logger logging.Logger, backend storage.Backend, in io.Reader, out io.Writer) *App {
	return &App{
		config:  c,
		logger:  logger,
		backend: backend,
		http:    &http.Client{Timeout: c.HTTPTimeout},
		reader:  bufio.NewReader(in),
		out:     out,
	}
}

func (a *App) wire(widget payment.Widget, imgs images.Store) {
	a.images = imgs
	a.ledger = services.NewLedgerService(a.backend)
	a.auth = services.NewAuthService(a.backend, a.logger)
	a.tickets = services.NewTicketService(a.backend, a.ledger, widget, a.config.PaystackPublicKey, a.logger,
		services.WithQR(qr.New(a.config.QRServiceURL, a.config.QRSize, a.http)))
}

func (a *App) newImageStore(ctx context.Context) (images.Store, error) {
	switch a.config.ImageStore {
	case config.ImageStoreS3:
		return images.NewS3Store(ctx, images.S3Config{
			Bucket:       a.config.S3Bucket,
			Region:       a.config.S3Region,
			BaseEndpoint: a.config.S3BaseEndpoint,
			AccessKey:    a.config.S3AccessKey,
			SecretKey:    a.config.S3SecretKey,
			MaxSize:      a.config.MaxImageSize,
		})
	default:
		return images.NewInlineStore(a.config.MaxImageSize), nil
	}
}

// Close releases the storage backend.
func (a *App) Close() error {
	a.http.CloseIdleConnections()
	return a.backend.Close()
}

// Run greets the user, restores a saved session and blocks in the REPL until
// the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to gophticket (type 'help' for commands)")

	a.recoverStorage(ctx)
	if acc, err := a.auth.Current(ctx); err == nil {
		fmt.Fprintf(a.out, "Logged in as %s\n", acc.Email)
	}

	runREPL(ctx, a, a.status, a.reader, a.out)
}

// recoverStorage offers to clear records that no longer decode.
func (a *App) recoverStorage(ctx context.Context) {
	if _, err := a.auth.Current(ctx); errors.Is(err, common.ErrStorage) {
		a.logger.Error(ctx, "saved session unreadable", "error", err)
		ok, _ := GetYesNo(a.reader, "Saved session is corrupted. Log out?", a.out)
		if ok {
			if err := a.auth.Logout(ctx); err != nil {
				fmt.Fprintln(a.out, "Logout failed:", err)
			}
		}
	}

	if _, err := a.tickets.Status(ctx); errors.Is(err, common.ErrStorage) {
		a.logger.Error(ctx, "saved ticket unreadable", "error", err)
		ok, _ := GetYesNo(a.reader, "Saved ticket data is corrupted. Reset ticket and history?", a.out)
		if ok {
			if err := a.tickets.Reset(ctx); err != nil {
				fmt.Fprintln(a.out, "Reset failed:", err)
			}
		}
	}
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	_, err := a.auth.Current(ctx)
	return err == nil
}

func (a *App) status(ctx context.Context) string {
	acc, err := a.auth.Current(ctx)
	if err != nil {
		return ""
	}
	return "(" + acc.Email + ")"
}
