package images

import (
	"context"
	"encoding/base64"
)

// InlineStore keeps images inside the account record as data URLs.
type InlineStore struct {
	maxSize int64
}

func NewInlineStore(maxSize int64) *InlineStore {
	return &InlineStore{maxSize: maxSize}
}

func (s *InlineStore) Put(ctx context.Context, accountID string, data []byte, contentType string) (string, error) {
	ct, err := Check(data, contentType, s.maxSize)
	if err != nil {
		return "", err
	}
	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
