package network

import (
	"net/http"
	"time"
)

// NewHttpClient returns new HTTP client.
//
// <timeout> is a time limit for requests made by returned client. Zero means no limit.
func NewHttpClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			TLSHandshakeTimeout: timeout,
		},
	}
}
