package api

import (
	"log"
	"net/http"
	"time"
)

// logTransport logs every request and its response status.
type logTransport struct {
	base http.RoundTripper
}

func (t logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		log.Printf("%v %v%v failed after %v: %v", req.Method, req.URL.Host, req.URL.Path, time.Since(start).Round(time.Millisecond), err)
		return nil, err
	}
	log.Printf("%v %v%v %v in %v", req.Method, req.URL.Host, req.URL.Path, resp.Status, time.Since(start).Round(time.Millisecond))
	return resp, nil
}

// Verbose makes the client log all its requests.
func (c *Client) Verbose() {
	if _, ok := c.http.Transport.(logTransport); ok {
		return
	}
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.http.Transport = logTransport{base}
}
