package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/gophticket/internal/logging"
	"github.com/sethvargo/go-retry"
)

const (
	DefaultPaystackBaseURL = "https://api.paystack.co"
	DefaultCurrency        = "NGN"

	defaultPollInterval = 3 * time.Second
	defaultPollTimeout  = 10 * time.Minute
)

var errPending = errors.New("transaction not settled")

// PaystackConfig configures the hosted-checkout widget.
type PaystackConfig struct {
	PublicKey   string
	SecretKey   string
	BaseURL     string
	Currency    string
	CallbackURL string
	// PollInterval and PollTimeout bound how long Open waits for the
	// customer to finish paying.
	PollInterval time.Duration
	PollTimeout  time.Duration
}

// AuthorizeFunc shows the hosted checkout page to the customer. Returning
// ErrDismissed closes the widget.
type AuthorizeFunc func(ctx context.Context, authorizationURL string) error

// Paystack drives a Paystack hosted checkout: it initializes the transaction,
// hands the authorization URL to the customer and polls verification until
// the transaction settles.
type Paystack struct {
	cfg       PaystackConfig
	client    *http.Client
	authorize AuthorizeFunc
	logger    logging.Logger
}

func NewPaystack(cfg PaystackConfig, client *http.Client, authorize AuthorizeFunc, logger logging.Logger) *Paystack {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultPaystackBaseURL
	}
	if cfg.Currency == "" {
		cfg.Currency = DefaultCurrency
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = defaultPollTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Paystack{cfg: cfg, client: client, authorize: authorize, logger: logger}
}

type initializeRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
	} `json:"data"`
}

// APIError is a non-2xx answer from Paystack.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("paystack: status %d: %s", e.StatusCode, e.Message)
}

// Open implements Widget.
func (p *Paystack) Open(ctx context.Context, req Request) (Event, error) {
	authURL, err := p.Initialize(ctx, req)
	if err != nil {
		return Event{}, err
	}

	if p.authorize != nil {
		if err := p.authorize(ctx, authURL); err != nil {
			if errors.Is(err, ErrDismissed) {
				p.logger.Info(ctx, "checkout dismissed", "reference", req.Reference)
				return Closed(), nil
			}
			return Event{}, fmt.Errorf("authorize: %w", err)
		}
	}

	return p.await(ctx, req.Reference)
}

// Initialize registers the transaction and returns the checkout URL.
func (p *Paystack) Initialize(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(initializeRequest{
		Email:       req.Email,
		Amount:      req.AmountMinor,
		Currency:    p.cfg.Currency,
		Reference:   req.Reference,
		CallbackURL: p.cfg.CallbackURL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal transaction request: %w", err)
	}

	var resp initializeResponse
	if err := p.do(ctx, http.MethodPost, "/transaction/initialize", body, &resp); err != nil {
		return "", fmt.Errorf("initialize transaction: %w", err)
	}
	if !resp.Status {
		return "", fmt.Errorf("initialize transaction: %s", resp.Message)
	}

	p.logger.Debug(ctx, "transaction initialized", "reference", req.Reference, "amount", req.AmountMinor)
	return resp.Data.AuthorizationURL, nil
}

// Verify returns the Paystack status of the transaction ("success",
// "abandoned", "failed", ...).
func (p *Paystack) Verify(ctx context.Context, reference string) (string, error) {
	var resp verifyResponse
	if err := p.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &resp); err != nil {
		return "", fmt.Errorf("verify transaction: %w", err)
	}
	if !resp.Status {
		return "", fmt.Errorf("verify transaction: %s", resp.Message)
	}
	return resp.Data.Status, nil
}

func (p *Paystack) await(ctx context.Context, reference string) (Event, error) {
	var settled string
	backoff := retry.WithMaxDuration(p.cfg.PollTimeout, retry.NewConstant(p.cfg.PollInterval))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		status, err := p.Verify(ctx, reference)
		if err != nil {
			return err
		}
		switch status {
		case "success", "failed", "reversed":
			settled = status
			return nil
		default:
			// abandoned, ongoing, pending, processing, queued
			return retry.RetryableError(errPending)
		}
	})

	switch {
	case errors.Is(err, errPending):
		p.logger.Warn(ctx, "checkout timed out", "reference", reference)
		return Closed(), nil
	case err != nil:
		return Event{}, err
	case settled == "success":
		return Success(reference), nil
	default:
		p.logger.Info(ctx, "payment not completed", "reference", reference, "status", settled)
		return Closed(), nil
	}
}

func (p *Paystack) do(ctx context.Context, method, path string, body []byte, out any) error {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.cfg.BaseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.SecretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(raw)}
		var e struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &e) == nil && e.Message != "" {
			apiErr.Message = e.Message
		}
		return apiErr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
