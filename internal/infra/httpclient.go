package infra

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient returns the outbound client shared by all requests. timeout
// bounds a whole exchange, including reading the response body.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext
	transport.MaxIdleConnsPerHost = 10
	return &http.Client{Timeout: timeout, Transport: transport}
}
