package reqdoc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooksLikeHTML(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"<p>An online shop</p>", true},
		{"Build a <strong>chat</strong> app", true},
		{"line one<br/>line two", true},
		{"<UL><LI>x</LI></UL>", true},
		{"latency < 100ms and > 10ms", false},
		{"plain text", false},
		{"use List<String> in Java", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LooksLikeHTML(tt.in), tt.in)
	}
}

func TestNormalize_PlainText(t *testing.T) {
	got, err := Normalize("  \n An online cake shop with delivery.\n\n ")
	require.NoError(t, err)
	assert.Equal(t, "An online cake shop with delivery.", got)
}

func TestNormalize_HTML(t *testing.T) {
	got, err := Normalize("<h2>Shop</h2><ul><li>Cart</li><li>Checkout</li></ul><p>Pay with <strong>cards</strong>.</p>")
	require.NoError(t, err)

	assert.Contains(t, got, "## Shop")
	assert.Contains(t, got, "- Cart")
	assert.Contains(t, got, "- Checkout")
	assert.Contains(t, got, "**cards**")
	assert.NotContains(t, got, "<li>")
}

func TestNormalize_Empty(t *testing.T) {
	for _, in := range []string{"", "   \n\t", "<p></p>", "<div> </div>"} {
		_, err := Normalize(in)
		assert.ErrorIs(t, err, ErrEmpty, "%q", in)
	}
}

func TestNormalize_TooLong(t *testing.T) {
	_, err := Normalize(strings.Repeat("a", MaxLength+1))
	assert.ErrorIs(t, err, ErrTooLong)

	got, err := Normalize(strings.Repeat("a", MaxLength))
	require.NoError(t, err)
	assert.Len(t, got, MaxLength)
}

func TestFetch_HTML(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body><h1>Clinic</h1><p>Book appointments.</p></body></html>"))
	}))
	defer server.Close()

	got, err := Fetch(context.Background(), server.Client(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, userAgent)
	assert.Contains(t, got, "# Clinic")
	assert.Contains(t, got, "Book appointments.")
}

func TestFetch_PlainText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("  A school portal  "))
	}))
	defer server.Close()

	got, err := Fetch(context.Background(), server.Client(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "A school portal", got)
}

func TestFetch_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := Fetch(context.Background(), server.Client(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 404")

	_, err = Fetch(context.Background(), nil, "   ")
	assert.EqualError(t, err, "URL cannot be empty")
}
