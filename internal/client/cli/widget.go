package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophticket/internal/client/config"
	"github.com/dmitrijs2005/gophticket/internal/client/payment"
	"github.com/dmitrijs2005/gophticket/internal/client/services"
)

func (a *App) newWidget() (payment.Widget, error) {
	switch a.config.PaymentProvider {
	case config.PaymentMock:
		return payment.NewMock(), nil
	case config.PaymentPaystack:
		return payment.NewPaystack(payment.PaystackConfig{
			PublicKey:   a.config.PaystackPublicKey,
			SecretKey:   a.config.PaystackSecretKey,
			BaseURL:     a.config.PaystackBaseURL,
			PollTimeout: a.config.PaymentTimeout,
		}, a.http, a.authorizeCheckout, a.logger), nil
	case config.PaymentPrompt, "":
		return payment.WidgetFunc(a.promptPayment), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", a.config.PaymentProvider)
	}
}

// promptPayment is an offline widget: the user approves or dismisses the
// charge in the terminal.
func (a *App) promptPayment(ctx context.Context, req payment.Request) (payment.Event, error) {
	fmt.Fprintf(a.out, "Payment of %s for %s (ref %s)\n", naira(req.AmountMinor/100), req.Email, req.Reference)
	ok, err := GetYesNo(a.reader, "Approve payment?", a.out)
	if err != nil {
		return payment.Event{}, err
	}
	if !ok {
		return payment.Closed(), nil
	}
	return payment.Success(req.Reference), nil
}

// authorizeCheckout shows the Paystack checkout URL and waits until the user
// says they are done.
func (a *App) authorizeCheckout(ctx context.Context, authorizationURL string) error {
	fmt.Fprintln(a.out, "Complete the payment in your browser:")
	fmt.Fprintln(a.out, "  "+authorizationURL)

	line, err := GetSimpleText(a.reader, "Press Enter when done, or type 'cancel' to close", a.out)
	if err != nil {
		return err
	}
	if strings.EqualFold(line, "cancel") {
		return payment.ErrDismissed
	}
	fmt.Fprintln(a.out, "Checking payment status...")
	return nil
}

func (a *App) confirmer() services.Confirmer {
	return services.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
		return GetYesNo(a.reader, prompt, a.out)
	})
}
