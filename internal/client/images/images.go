// Package images stores account profile images. A store turns image bytes
// into a reference string kept in the account record: either an inline data
// URL or an object key in S3-compatible storage.
package images

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gophticket/internal/common"
	"github.com/dmitrijs2005/gophticket/internal/filex"
	"github.com/dmitrijs2005/gophticket/internal/netx"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxSize is the largest accepted profile image.
const DefaultMaxSize int64 = 5 << 20

// Store persists an image for accountID and returns its reference.
type Store interface {
	Put(ctx context.Context, accountID string, data []byte, contentType string) (string, error)
}

// Check enforces the size limit and returns the image content type,
// sniffing it when contentType is empty.
func Check(data []byte, contentType string, maxSize int64) (string, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if int64(len(data)) > maxSize {
		return "", fmt.Errorf("%w: %s exceeds %s", common.ErrImageTooLarge,
			humanize.IBytes(uint64(len(data))), humanize.IBytes(uint64(maxSize)))
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty image", common.ErrValidation)
	}

	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: %s is not an image", common.ErrValidation, contentType)
	}
	return contentType, nil
}

// Load reads an image from a local path or an http(s) URL.
func Load(ctx context.Context, client *http.Client, src string, maxSize int64) ([]byte, string, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		b, ct, err := netx.Fetch(ctx, client, src, maxSize)
		if errors.Is(err, netx.ErrBodyTooLarge) {
			return nil, "", tooLarge(maxSize)
		}
		if err != nil {
			return nil, "", fmt.Errorf("load image: %w", err)
		}
		return b, ct, nil
	}

	b, err := filex.ReadLimited(src, maxSize)
	if errors.Is(err, filex.ErrFileTooLarge) {
		return nil, "", tooLarge(maxSize)
	}
	if err != nil {
		return nil, "", fmt.Errorf("load image: %w", err)
	}
	return b, "", nil
}

func tooLarge(limit int64) error {
	return fmt.Errorf("%w: larger than %s", common.ErrImageTooLarge, humanize.IBytes(uint64(limit)))
}
