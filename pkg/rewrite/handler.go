// Package rewrite implements the rewrite endpoint (spec component E): the
// protocol state machine that takes one proxied exchange, resolves its
// client, decides mock-or-forward, and responds — publishing
// REQUEST_START/REQUEST_END events around the decision for any observers
// bound to that client.
package rewrite

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/devproxy/rewriteproxy/internal/id"
	"github.com/devproxy/rewriteproxy/internal/matching"
	"github.com/devproxy/rewriteproxy/internal/ruleset"
	"github.com/devproxy/rewriteproxy/pkg/clientid"
	"github.com/devproxy/rewriteproxy/pkg/forwarder"
	"github.com/devproxy/rewriteproxy/pkg/logging"
	"github.com/devproxy/rewriteproxy/pkg/publisher"
	"github.com/devproxy/rewriteproxy/pkg/rule"
	"github.com/devproxy/rewriteproxy/pkg/synth"
)

// MaxBodySize caps the POST body the handler will read, guarding against
// oversized payloads.
const MaxBodySize = 10 << 20 // 10MB

// Handler serves GET|POST /api/rewrite.
type Handler struct {
	store     *ruleset.Store
	forwarder *forwarder.Forwarder
	hub       *publisher.Hub
	log       *slog.Logger
}

// New creates a Handler. store, fwd and hub must be non-nil.
func New(store *ruleset.Store, fwd *forwarder.Forwarder, hub *publisher.Hub) *Handler {
	return &Handler{store: store, forwarder: fwd, hub: hub, log: logging.Nop()}
}

// SetLogger sets the operational logger.
func (h *Handler) SetLogger(log *slog.Logger) {
	if log != nil {
		h.log = log
	} else {
		h.log = logging.Nop()
	}
}

// ServeHTTP implements http.Handler, following spec.md §4.E's state machine:
// RECEIVED -> RESOLVED_CLIENT -> DECIDED -> RESPONDING -> DONE.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// RECEIVED.
	rawURL := r.URL.Query().Get("url")
	target, err := url.Parse(rawURL)
	if err != nil || target.Host == "" {
		http.Error(w, "bad request: invalid or missing url parameter", http.StatusBadRequest)
		return
	}
	cookieParam := r.URL.Query().Get("cookie")
	reqType := r.URL.Query().Get("reqtype")
	contentType := r.Header.Get("Content-Type")

	var body []byte
	if r.Method == http.MethodPost {
		r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
		body, err = io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "bad request: body too large or unreadable", http.StatusBadRequest)
			return
		}
	}

	// RESOLVED_CLIENT. A request with no resolvable client id is forwarded
	// as nothing: it is silently acknowledged and never reaches DECIDED, so
	// no event is ever published for it.
	clientID, ok := clientid.Extract(cookieParam)
	if !ok {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("no clientID, ignored"))
		return
	}

	// DECIDED.
	query := target.Query()
	var form url.Values
	if r.Method == http.MethodPost && contentType == "application/x-www-form-urlencoded" {
		form, _ = url.ParseQuery(string(body))
	}

	rules := h.store.Get(clientID)
	matched := matching.Match(rules, &matching.Inbound{
		Method:   r.Method,
		Host:     target.Host,
		Pathname: target.Path,
		Query:    query,
		FormBody: form,
	})

	requestID := id.Short()
	start := time.Now()
	isMock := matched != nil
	requestData := parseRequestData(r.Method, body, contentType)
	headers := headerMap(r.Header)

	h.hub.Publish(publisher.Event{
		Type:      publisher.EventRequestStart,
		ClientID:  clientID,
		RequestID: requestID,
		Payload: map[string]interface{}{
			"isMock":         isMock,
			"method":         r.Method,
			"host":           target.Host,
			"pathname":       target.Path,
			"url":            rawURL,
			"requestHeaders": headers,
			"requestData":    requestData,
		},
	})

	// RESPONDING.
	callback := ""
	if reqType == "jsonp" {
		callback = query.Get("callback")
	}
	status, responseBody, respErr := h.respond(w, r, target, matched, body, contentType, cookieParam, callback)

	// DONE.
	h.hub.Publish(publisher.Event{
		Type:      publisher.EventRequestEnd,
		ClientID:  clientID,
		RequestID: requestID,
		Payload: map[string]interface{}{
			"status":         status,
			"requestData":    requestData,
			"requestHeaders": headers,
			"responseBody":   string(responseBody),
			"timecost":       time.Since(start).Milliseconds(),
			"error":          errString(respErr),
		},
	})
}

// respond performs the mock-or-forward decision's response once the rule
// match is known, echoing CORS on every path, and returns the status and
// body actually written so the caller can publish REQUEST_END.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, target *url.URL, matched *rule.Rule, body []byte, contentType, cookieParam, jsonpCallback string) (int, []byte, error) {
	applyCORS(w, r)

	if matched != nil {
		resp, err := synth.Synthesize(matched, synth.Options{JSONPCallback: jsonpCallback})
		if err != nil {
			h.log.Warn("rule synthesis failed", "error", err)
			errBody := []byte(`{"error":"rule_error"}`)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write(errBody)
			return http.StatusInternalServerError, errBody, ErrRuleError
		}
		if !resp.PassThrough {
			if resp.Delay > 0 {
				time.Sleep(resp.Delay)
			}
			w.Header().Set("Content-Type", resp.ContentType)
			w.WriteHeader(resp.Status)
			_, _ = w.Write(resp.Body)
			return resp.Status, resp.Body, nil
		}
	}

	return h.forward(w, r.Context(), target, r.Method, cookieParam, contentType, body, jsonpCallback)
}

// forward performs the upstream exchange for an unmatched (or pass-through)
// request.
func (h *Handler) forward(w http.ResponseWriter, ctx context.Context, target *url.URL, method, cookieParam, contentType string, body []byte, jsonpCallback string) (int, []byte, error) {
	fwdResp, err := h.forwarder.Do(ctx, &forwarder.Request{
		Method:      method,
		TargetURL:   target.String(),
		Cookie:      clientid.StripSelf(cookieParam),
		ContentType: contentType,
		Body:        body,
	})
	if err != nil {
		h.log.Warn("upstream forwarding failed", "target", target.String(), "error", err)
		errBody := []byte(`{"error":"upstream_failure"}`)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write(errBody)
		return http.StatusBadGateway, errBody, ErrUpstreamFailure
	}

	respBody := fwdResp.Body
	respContentType := fwdResp.Headers.Get("Content-Type")
	if jsonpCallback != "" {
		respBody = synth.WrapJSONP(jsonpCallback, respBody)
		respContentType = "application/javascript"
	}
	if respContentType != "" {
		w.Header().Set("Content-Type", respContentType)
	}
	for _, c := range fwdResp.Headers.Values("Set-Cookie") {
		w.Header().Add("Set-Cookie", c)
	}
	w.WriteHeader(fwdResp.Status)
	_, _ = w.Write(respBody)
	return fwdResp.Status, respBody, nil
}

// parseRequestData implements spec.md §4.E.3's requestData rule: the parsed
// POST body for POST, and the literal string "not POST request" otherwise.
// A JSON content type is decoded into a JSON value; anything else is
// reported as the raw body text.
func parseRequestData(method string, body []byte, contentType string) interface{} {
	if method != http.MethodPost {
		return "not POST request"
	}
	if len(body) == 0 {
		return nil
	}
	if strings.Contains(contentType, "json") {
		var v interface{}
		if err := json.Unmarshal(body, &v); err == nil {
			return v
		}
	}
	return string(body)
}

func headerMap(h http.Header) map[string]string {
	m := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			m[k] = v[0]
		}
	}
	return m
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
