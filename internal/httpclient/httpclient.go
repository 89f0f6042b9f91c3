// Package httpclient provides the shared tuned HTTP client used by the probe
// and reference-feed fetchers.
package httpclient

import (
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

const (
	DefaultTimeout         = 30 * time.Second
	DefaultIdleConnTimeout = 90 * time.Second
	MaxIdleConnsPerHost    = 16
)

var defaultClient *http.Client

func init() {
	t := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: MaxIdleConnsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
	}
	// Some feed hosts only negotiate h2; plain streams stay on h1.
	_ = http2.ConfigureTransport(t)
	defaultClient = &http.Client{
		Timeout:   DefaultTimeout,
		Transport: t,
	}
}

// Default returns the shared tuned HTTP client.
func Default() *http.Client {
	return defaultClient
}
