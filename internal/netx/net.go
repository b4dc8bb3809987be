// Package netx holds small HTTP helpers shared by the QR and image clients.
package netx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrBodyTooLarge is returned by Fetch when the response exceeds the limit.
var ErrBodyTooLarge = errors.New("response body too large")

// Fetch GETs url and returns the body and its Content-Type. A limit <= 0
// disables the size check.
func Fetch(ctx context.Context, client *http.Client, url string, limit int64) ([]byte, string, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, "", fmt.Errorf("fetch failed: %s; body: %s", resp.Status, string(b))
	}

	var r io.Reader = resp.Body
	if limit > 0 {
		r = io.LimitReader(resp.Body, limit+1)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	if limit > 0 && int64(len(body)) > limit {
		return nil, "", fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, limit)
	}

	return body, resp.Header.Get("Content-Type"), nil
}
