// Package qr renders tickets as QR images through an external QR image
// service. The image encodes the ticket's JSON and is never parsed back.
package qr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/gophticket/internal/client/models"
	"github.com/dmitrijs2005/gophticket/internal/netx"
)

const (
	DefaultBaseURL = "https://api.qrserver.com/v1/create-qr-code/"
	DefaultSize    = 200

	maxImageBytes = 1 << 20
)

type Client struct {
	baseURL string
	size    int
	http    *http.Client
}

func New(baseURL string, size int, client *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if size <= 0 {
		size = DefaultSize
	}
	return &Client{baseURL: baseURL, size: size, http: client}
}

// URL returns <base>?size=<n>x<n>&data=<escaped ticket JSON>.
func (c *Client) URL(t *models.Ticket) (string, error) {
	payload, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("encode ticket: %w", err)
	}

	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%ssize=%dx%d&data=%s", c.baseURL, sep, c.size, c.size, url.QueryEscape(string(payload))), nil
}

// Fetch downloads the QR image for t.
func (c *Client) Fetch(ctx context.Context, t *models.Ticket) ([]byte, error) {
	u, err := c.URL(t)
	if err != nil {
		return nil, err
	}

	img, ct, err := netx.Fetch(ctx, c.http, u, maxImageBytes)
	if err != nil {
		return nil, fmt.Errorf("fetch qr image: %w", err)
	}
	if ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("fetch qr image: unexpected content type %q", ct)
	}
	return img, nil
}
