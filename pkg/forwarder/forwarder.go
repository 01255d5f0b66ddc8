// Package forwarder implements the upstream forwarder (spec component D):
// it performs an outbound HTTP(S) request mirroring the inbound exchange
// and captures the real response.
package forwarder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MaxRedirects caps transparent redirect following (spec.md §4.D).
const MaxRedirects = 5

// Request describes the outbound exchange to perform.
type Request struct {
	Method      string
	TargetURL   string
	Cookie      string // forwarded verbatim as the outbound Cookie header
	ContentType string
	Body        []byte
}

// Response is the captured upstream response.
type Response struct {
	Status  int
	Headers http.Header // preserves the Set-Cookie list intact
	Body    []byte
}

// Failure represents a forwarding error (DNS, connect, TLS, read,
// redirect-cap exceeded). It surfaces to callers as a 502-class response
// per spec.md §4.D.
type Failure struct {
	Reason string
	Err    error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("upstream failure: %s: %v", f.Reason, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Forwarder performs outbound requests with a bounded redirect cap and no
// weakening of TLS verification beyond the platform default.
type Forwarder struct {
	client *http.Client
}

// New creates a Forwarder with the given per-request timeout.
func New(timeout time.Duration) *Forwarder {
	return &Forwarder{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= MaxRedirects {
					return fmt.Errorf("stopped after %d redirects", MaxRedirects)
				}
				return nil
			},
		},
	}
}

// Do performs the outbound request described by req and returns the
// captured response, or a *Failure on any network or protocol error.
func (f *Forwarder) Do(ctx context.Context, req *Request) (*Response, error) {
	var bodyReader io.Reader
	if len(req.Body) > 0 {
		bodyReader = bytes.NewReader(req.Body)
	}

	outReq, err := http.NewRequestWithContext(ctx, req.Method, req.TargetURL, bodyReader)
	if err != nil {
		return nil, &Failure{Reason: "invalid target URL", Err: err}
	}

	// Outbound Cookie comes from the caller-supplied cookie query parameter,
	// never from the proxy's own Cookie header (spec.md §9 "Cookie
	// provenance"). Since we build outReq from scratch rather than cloning
	// the inbound request, there is nothing to accidentally leak.
	if req.Cookie != "" {
		outReq.Header.Set("Cookie", req.Cookie)
	}
	if req.ContentType != "" {
		outReq.Header.Set("Content-Type", req.ContentType)
	}
	removeHopByHopHeaders(outReq.Header)

	resp, err := f.client.Do(outReq)
	if err != nil {
		return nil, &Failure{Reason: "request failed", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Failure{Reason: "reading response body", Err: err}
	}

	return &Response{Status: resp.StatusCode, Headers: resp.Header.Clone(), Body: body}, nil
}

// IsFailure reports whether err is (or wraps) a *Failure.
func IsFailure(err error) bool {
	var f *Failure
	return errors.As(err, &f)
}

// removeHopByHopHeaders strips headers that must not be forwarded verbatim.
func removeHopByHopHeaders(h http.Header) {
	for _, header := range []string{
		"Connection",
		"Keep-Alive",
		"Proxy-Authenticate",
		"Proxy-Authorization",
		"Proxy-Connection",
		"TE",
		"Trailers",
		"Transfer-Encoding",
		"Upgrade",
	} {
		h.Del(header)
	}
}
