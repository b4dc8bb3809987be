package qr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophticket/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ticket = models.NewTicket("TICKET-1-abc123", "ref-1", "user-1", 1000,
	time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

func TestURL_EncodesTicketJSON(t *testing.T) {
	c := New("", 0, nil)

	raw, err := c.URL(ticket)
	require.NoError(t, err)
	require.Contains(t, raw, DefaultBaseURL+"?size=200x200&data=")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "200x200", u.Query().Get("size"))

	var got models.Ticket
	require.NoError(t, json.Unmarshal([]byte(u.Query().Get("data")), &got))
	require.Equal(t, ticket.ID, got.ID)
	require.Equal(t, ticket.OwnerID, got.OwnerID)
	require.True(t, ticket.ExpiryDate.Equal(got.ExpiryDate))
}

func TestURL_BaseWithQuery(t *testing.T) {
	c := New("https://qr.example/render?format=png", 300, nil)

	raw, err := c.URL(ticket)
	require.NoError(t, err)
	require.Contains(t, raw, "?format=png&size=300x300&data=")
}

func TestFetch(t *testing.T) {
	var gotSize string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSize = r.URL.Query().Get("size")
		assert.NotEmpty(t, r.URL.Query().Get("data"))
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", 150, srv.Client())
	img, err := c.Fetch(context.Background(), ticket)
	require.NoError(t, err)
	require.Equal(t, []byte("png-bytes"), img)
	require.Equal(t, "150x150", gotSize)
}

func TestFetch_RejectsNonImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	_, err := New(srv.URL, 0, srv.Client()).Fetch(context.Background(), ticket)
	require.ErrorContains(t, err, "unexpected content type")
}
