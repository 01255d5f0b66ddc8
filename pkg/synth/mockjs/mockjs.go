// Package mockjs implements a small, deterministic subset of the mock.js
// templating convention: object keys carry a "|directive" suffix that
// expands their value into randomized or repeated data, and string values
// can be "@placeholder" generators. Only the commonly documented subset is
// supported (spec.md §9 design note); an unrecognized directive or
// placeholder is left as its literal value and logged, never guessed.
package mockjs

import (
	"encoding/json"
	"log/slog"
	mathrand "math/rand/v2"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/devproxy/rewriteproxy/pkg/logging"
)

// Expander expands mock.js directives in a JSON document. It is stateless
// except for its RNG, which callers seed for deterministic output.
type Expander struct {
	rng *mathrand.Rand
	log *slog.Logger
}

// New creates an Expander. A nil rng uses the global math/rand/v2 source
// (non-deterministic); pass a seeded *rand.Rand for reproducible output.
func New(rng *mathrand.Rand) *Expander {
	return &Expander{rng: rng, log: logging.Nop()}
}

// SetLogger sets the logger used to report unsupported directives.
func (e *Expander) SetLogger(log *slog.Logger) {
	if log != nil {
		e.log = log
	} else {
		e.log = logging.Nop()
	}
}

// ExpandJSON parses raw as JSON, expands mock.js directives, and re-marshals
// the result.
func (e *Expander) ExpandJSON(raw []byte) ([]byte, error) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(e.expandValue(doc))
}

func (e *Expander) expandValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return e.expandObject(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = e.expandValue(item)
		}
		return out
	case string:
		return e.expandPlaceholder(t)
	default:
		return v
	}
}

func (e *Expander) expandObject(obj map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(obj))
	for key, raw := range obj {
		baseKey, directive, hasDirective := splitDirective(key)
		if !hasDirective {
			out[baseKey] = e.expandValue(raw)
			continue
		}
		expanded, ok := e.applyDirective(directive, e.expandValue(raw))
		if !ok {
			e.log.Warn("mockjs: unsupported directive, emitting literal value", "key", key, "directive", directive)
			expanded = e.expandValue(raw)
		}
		out[baseKey] = expanded
	}
	return out
}

// splitDirective splits "name|directive" into its parts. Returns
// hasDirective=false if there is no "|" in the key.
func splitDirective(key string) (base, directive string, hasDirective bool) {
	idx := strings.Index(key, "|")
	if idx < 0 {
		return key, "", false
	}
	return key[:idx], key[idx+1:], true
}

// applyDirective expands v according to a "|directive" on its key. Returns
// ok=false when the directive syntax isn't recognized.
func (e *Expander) applyDirective(directive string, v interface{}) (interface{}, bool) {
	switch t := v.(type) {
	case []interface{}:
		return e.expandArrayDirective(directive, t)
	case string:
		return e.expandStringDirective(directive, t)
	case float64:
		return e.expandNumberDirective(directive, t)
	case bool:
		return e.expandBoolDirective(directive, t)
	default:
		return v, false
	}
}

// expandArrayDirective implements mock.js "array|count" and
// "array|min-max": the result is a new array of the requested length, built
// by cycling through the source elements in order. Cycling (rather than
// random sampling) keeps the element order deterministic even without a
// seed; only the length chosen for "min-max" draws from the RNG.
func (e *Expander) expandArrayDirective(directive string, src []interface{}) (interface{}, bool) {
	if len(src) == 0 {
		return src, true
	}
	n, ok := e.resolveCount(directive)
	if !ok {
		return src, false
	}
	out := make([]interface{}, n)
	for i := 0; i < n; i++ {
		out[i] = src[i%len(src)]
	}
	return out, true
}

// expandStringDirective implements "str|count" and "str|min-max": repeats
// the string that many times, concatenated.
func (e *Expander) expandStringDirective(directive string, src string) (interface{}, bool) {
	n, ok := e.resolveCount(directive)
	if !ok {
		return src, false
	}
	return strings.Repeat(src, n), true
}

// expandNumberDirective implements "num|min-max" (random int in range) and
// leaves a bare count directive on a number unsupported (mock.js reserves
// that form for +step increments, which this subset doesn't implement).
func (e *Expander) expandNumberDirective(directive string, src float64) (interface{}, bool) {
	min, max, ok := parseRange(directive)
	if !ok {
		return src, false
	}
	return float64(min + e.randIntN(max-min+1)), true
}

// expandBoolDirective implements "flag|1": a random boolean.
func (e *Expander) expandBoolDirective(directive string, _ bool) (interface{}, bool) {
	if directive != "1" {
		return false, false
	}
	return e.randIntN(2) == 1, true
}

// resolveCount turns a directive into a concrete repeat count: "3" -> 3,
// "1-10" -> a random value in [1,10].
func (e *Expander) resolveCount(directive string) (int, bool) {
	if min, max, ok := parseRange(directive); ok {
		return min + e.randIntN(max-min+1), true
	}
	n, err := strconv.Atoi(directive)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func parseRange(directive string) (min, max int, ok bool) {
	parts := strings.SplitN(directive, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lo, err1 := strconv.Atoi(parts[0])
	hi, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || lo > hi {
		return 0, 0, false
	}
	return lo, hi, true
}

func (e *Expander) randIntN(n int) int {
	if n <= 0 {
		return 0
	}
	if e.rng != nil {
		return e.rng.IntN(n)
	}
	return mathrand.IntN(n)
}

// placeholders maps a bare "@name" placeholder to a generator function.
var placeholders = map[string]func(e *Expander) string{
	"@string":  func(e *Expander) string { return strconv.Itoa(e.randIntN(900000) + 100000) },
	"@integer": func(e *Expander) string { return strconv.Itoa(e.randIntN(1000)) },
	"@boolean": func(e *Expander) string { return strconv.FormatBool(e.randIntN(2) == 1) },
	"@guid":    func(e *Expander) string { return fakeGUID(e) },
	"@email":   func(e *Expander) string { return "user" + strconv.Itoa(e.randIntN(10000)) + "@example.com" },
	"@name":    func(e *Expander) string { return fakeNames[e.randIntN(len(fakeNames))] },
	"@date":    func(e *Expander) string { return fakeDate(e) },
}

var fakeNames = []string{"Alice", "Bob", "Carol", "Dave", "Erin", "Frank"}

// fakeGUID draws a version-4 UUID from the Expander's RNG when one is set,
// so seeded expansion stays reproducible.
func fakeGUID(e *Expander) string {
	if e.rng == nil {
		return uuid.NewString()
	}
	var u uuid.UUID
	for i := range u {
		u[i] = byte(e.rng.IntN(256))
	}
	u[6] = (u[6] & 0x0f) | 0x40
	u[8] = (u[8] & 0x3f) | 0x80
	return u.String()
}

func fakeDate(e *Expander) string {
	year := 2020 + e.randIntN(6)
	month := 1 + e.randIntN(12)
	day := 1 + e.randIntN(28)
	return strconv.Itoa(year) + "-" + pad2(month) + "-" + pad2(day)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// expandPlaceholder replaces a string value that is exactly a bare
// "@placeholder" (e.g. "@string", "@guid") with its generated value.
// Placeholders with arguments or embedded in a larger string are left
// untouched and logged as unsupported, per spec.md's "fail closed" note.
func (e *Expander) expandPlaceholder(s string) string {
	if !strings.HasPrefix(s, "@") {
		return s
	}
	gen, ok := placeholders[s]
	if !ok {
		e.log.Warn("mockjs: unsupported placeholder, emitting literal value", "placeholder", s)
		return s
	}
	return gen(e)
}
