package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophticket/internal/client/services"
	"github.com/dmitrijs2005/gophticket/internal/common"
	"github.com/dmitrijs2005/gophticket/internal/filex"
)

// Buy purchases a ticket of the named tier (family by default). Replacing a
// still-valid ticket needs confirmation.
func (a *App) Buy(ctx context.Context, args []string) error {
	tier := services.DefaultTier
	if len(args) > 0 {
		t, ok := services.TierByName(args[0])
		if !ok {
			fmt.Fprintln(a.out, "Unknown ticket type. Choose one of:")
			for _, t := range services.Tiers {
				fmt.Fprintf(a.out, "  %-10s %s %s\n", t.Name, t.Label, naira(t.AmountMinor/100))
			}
			return nil
		}
		tier = t
	}

	valid, err := a.tickets.IsValid(ctx)
	if err != nil {
		return err
	}
	if valid {
		ok, err := a.confirmer().Confirm(ctx, "You already have a valid ticket. Buying replaces it. Continue?")
		if err != nil || !ok {
			return err
		}
	}

	t, err := a.tickets.Purchase(ctx, tier.AmountMinor)
	if err != nil {
		return err
	}
	if t == nil {
		fmt.Fprintln(a.out, "Payment cancelled")
		return nil
	}

	fmt.Fprintln(a.out, "Payment successful!")
	return a.ShowTicket(ctx)
}

func (a *App) ShowTicket(ctx context.Context) error {
	t, err := a.tickets.Ticket(ctx)
	if errors.Is(err, common.ErrNoTicket) {
		fmt.Fprintln(a.out, "No ticket yet. Use 'buy' to purchase one.")
		return nil
	}
	if err != nil {
		return err
	}

	state, err := a.tickets.Status(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Ticket ID:   %s\n", t.ID)
	fmt.Fprintf(a.out, "Amount Paid: %s\n", naira(t.Amount))
	fmt.Fprintf(a.out, "Purchased:   %s\n", formatDate(t.PurchaseDate))
	fmt.Fprintf(a.out, "Expires:     %s\n", formatDate(t.ExpiryDate))
	fmt.Fprintf(a.out, "Status:      %s\n", state)
	fmt.Fprintf(a.out, "Reference:   %s\n", t.Reference)
	return nil
}

// QR prints the QR image URL, or downloads the image with "qr save <file>".
func (a *App) QR(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "save" {
		if len(args) < 2 {
			fmt.Fprintln(a.out, "Usage: qr save <file>")
			return nil
		}
		img, err := a.tickets.QRImage(ctx)
		if err != nil {
			return err
		}
		if err := filex.WriteFile(args[1], img); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "QR code saved to %s\n", args[1])
		return nil
	}

	u, err := a.tickets.QRCodeURL(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, u)
	return nil
}

func (a *App) Invalidate(ctx context.Context) error {
	if _, err := a.tickets.Ticket(ctx); errors.Is(err, common.ErrNoTicket) {
		fmt.Fprintln(a.out, "No ticket to invalidate")
		return nil
	}

	ok, err := a.tickets.Invalidate(ctx, a.confirmer())
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintln(a.out, "Ticket invalidated")
	}
	return nil
}

func (a *App) Reset(ctx context.Context) error {
	if err := a.tickets.Reset(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "All data has been reset. You can start fresh now.")
	return nil
}

func (a *App) History(ctx context.Context) error {
	txs, err := a.ledger.List(ctx)
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		fmt.Fprintln(a.out, "No transactions yet")
		return nil
	}

	for _, tx := range txs {
		fmt.Fprintf(a.out, "%-16s %10s  %s  Ref: %s\n", tx.Type, naira(tx.Amount), formatDate(tx.Date), tx.Reference)
	}
	return nil
}
