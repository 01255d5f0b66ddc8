// Package synth implements the response synthesizer (spec component C):
// from a matched rule, it builds a status+headers+body, applying mock.js
// templating and JSONP wrapping.
package synth

import (
	"bytes"
	"encoding/json"
	mathrand "math/rand/v2"
	"time"

	"github.com/devproxy/rewriteproxy/pkg/rule"
	"github.com/devproxy/rewriteproxy/pkg/synth/mockjs"
)

// Response is the synthesized result of a mock rule.
type Response struct {
	Status      int
	ContentType string
	Body        []byte

	// PassThrough is true when the rule had no Response field: the rule
	// matched for observation purposes only and the caller must forward
	// upstream instead of using this Response (spec.md §4.C, §9).
	PassThrough bool

	// Delay is the artificial latency the caller should apply before
	// writing the response to the client. The synthesizer itself never
	// sleeps — spec.md's state machine owns suspension points, so this
	// stays a pure, clock-free function.
	Delay time.Duration
}

// Options configures a single Synthesize call.
type Options struct {
	// JSONPCallback, if non-empty, wraps the body as "<callback>(<body>)"
	// and switches the content type to application/javascript.
	JSONPCallback string

	// Seed seeds the mock.js RNG for deterministic expansion. It is used
	// only when HasSeed is true; otherwise the global, non-deterministic
	// source is used.
	Seed int64
	HasSeed bool
}

// Synthesize builds the response for a matched rule.
func Synthesize(r *rule.Rule, opts Options) (*Response, error) {
	if r.IsPassThrough() {
		return &Response{PassThrough: true}, nil
	}

	resp := &Response{
		Status: r.Status,
		Delay:  time.Duration(r.Delay) * time.Millisecond,
	}
	if resp.Status == 0 {
		resp.Status = 200
	}

	body := []byte(r.Response)
	isJSON := looksLikeJSONValue(body)

	switch r.ResponseType {
	case rule.ResponseTypeMockJS:
		var rng *mathrand.Rand
		if opts.HasSeed {
			rng = mathrand.New(mathrand.NewPCG(uint64(opts.Seed), 0))
		}
		expanded, err := mockjs.New(rng).ExpandJSON(body)
		if err != nil {
			return nil, err
		}
		body = expanded
		isJSON = true
	default:
		// raw: used verbatim. If the rule's Response field was a bare JSON
		// string (e.g. "hello"), unwrap it to plain text so a literal
		// string rule doesn't come back double-quoted.
		if unwrapped, ok := unwrapJSONString(body); ok {
			body = []byte(unwrapped)
			isJSON = false
		}
	}

	if isJSON {
		resp.ContentType = "application/json; charset=utf-8"
	} else {
		resp.ContentType = "text/plain"
	}

	if opts.JSONPCallback != "" {
		body = WrapJSONP(opts.JSONPCallback, body)
		resp.ContentType = "application/javascript"
	}

	resp.Body = body
	return resp, nil
}

// looksLikeJSONValue reports whether b is a JSON object or array (as
// opposed to a bare string/number/bool literal).
func looksLikeJSONValue(b []byte) bool {
	t := bytes.TrimSpace(b)
	if len(t) == 0 {
		return false
	}
	return t[0] == '{' || t[0] == '['
}

// unwrapJSONString reports whether b is a JSON-encoded string literal and,
// if so, returns its decoded contents.
func unwrapJSONString(b []byte) (string, bool) {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return "", false
	}
	return s, true
}

// WrapJSONP wraps body as "<callback>(<body>)". This is purely textual
// concatenation — preserving unbalanced parentheses inside string bodies
// means the wrapper must never re-parse the body.
func WrapJSONP(callback string, body []byte) []byte {
	out := make([]byte, 0, len(callback)+len(body)+2)
	out = append(out, callback...)
	out = append(out, '(')
	out = append(out, body...)
	out = append(out, ')')
	return out
}
