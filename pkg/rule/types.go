// Package rule defines the mock rule data model shared by the matcher,
// the response synthesizer, and the admin API.
package rule

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// PathType determines how Path/PrePath are compared against the inbound
// request path.
type PathType string

const (
	PathTypeLiteral PathType = "literal"
	PathTypeRegexp  PathType = "regexp"
)

// ResponseType determines how Response is turned into a response body.
type ResponseType string

const (
	ResponseTypeRaw    ResponseType = "raw"
	ResponseTypeMockJS ResponseType = "mockjs"
)

// Rule describes one mock entry within a client's RuleList.
type Rule struct {
	// ID is an optional, caller-supplied identifier, used in validation error
	// messages. It is not generated automatically, and the admin API replaces
	// or deletes a client's whole list rather than addressing rules by ID.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Enabled gates whether the matcher considers this rule at all.
	// Defaults to true when omitted (see UnmarshalJSON).
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// Host, if set, must equal the inbound target host exactly (case-insensitive).
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// Method, if set, must equal the inbound HTTP method (case-insensitive).
	// Not in the distilled spec; additive, symmetric with Host.
	Method string `json:"method,omitempty" yaml:"method,omitempty"`

	// Path is either a literal path or a regular expression, per PathType.
	Path string `json:"path" yaml:"path"`

	// PathType selects how Path is compared. Defaults to literal.
	PathType PathType `json:"pathtype,omitempty" yaml:"pathtype,omitempty"`

	// PrePath is prepended to Path when computing the effective compare path.
	PrePath string `json:"prepath,omitempty" yaml:"prepath,omitempty"`

	// Params is a "k=v&k=v" string of required query/form parameters.
	Params string `json:"params,omitempty" yaml:"params,omitempty"`

	// Delay is artificial latency in milliseconds applied before responding.
	Delay int `json:"delay,omitempty" yaml:"delay,omitempty"`

	// Status is the HTTP status code of the synthesized response. Defaults to 200.
	Status int `json:"status,omitempty" yaml:"status,omitempty"`

	// ResponseType selects raw vs. mockjs expansion. Defaults to raw.
	ResponseType ResponseType `json:"responsetype,omitempty" yaml:"responsetype,omitempty"`

	// Response is the body template. Absent means "pass-through": the rule
	// matched purely for observation and the caller should still forward
	// upstream (see Handler in pkg/rewrite).
	Response json.RawMessage `json:"response,omitempty" yaml:"response,omitempty"`
}

// ruleAlias avoids infinite recursion in UnmarshalJSON.
type ruleAlias Rule

// UnmarshalJSON applies defaults: Enabled defaults to true, PathType defaults
// to literal, ResponseType defaults to raw, Status defaults to 200.
func (r *Rule) UnmarshalJSON(data []byte) error {
	alias := ruleAlias{}
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*r = Rule(alias)
	r.applyDefaults()
	return nil
}

func (r *Rule) applyDefaults() {
	if r.Enabled == nil {
		t := true
		r.Enabled = &t
	}
	if r.PathType == "" {
		r.PathType = PathTypeLiteral
	}
	if r.ResponseType == "" {
		r.ResponseType = ResponseTypeRaw
	}
	if r.Status == 0 {
		r.Status = 200
	}
}

// IsEnabled reports whether the rule should be considered by the matcher.
func (r *Rule) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// IsPassThrough reports whether the rule has no response body, meaning a
// match should still forward upstream (observation-only rule).
func (r *Rule) IsPassThrough() bool {
	return len(r.Response) == 0
}

// EffectivePath returns PrePath+Path, the string compared against the
// inbound pathname.
func (r *Rule) EffectivePath() string {
	return r.PrePath + r.Path
}

// Validate checks that the rule is well-formed, in particular that a
// regexp PathType holds a compilable expression. Called by the rule store
// before a Put is accepted, so the core never observes a partially valid
// list (spec.md §3 invariant).
func (r *Rule) Validate() error {
	switch r.PathType {
	case "", PathTypeLiteral, PathTypeRegexp:
	default:
		return fmt.Errorf("rule %s: unknown pathtype %q", r.ID, r.PathType)
	}
	switch r.ResponseType {
	case "", ResponseTypeRaw, ResponseTypeMockJS:
	default:
		return fmt.Errorf("rule %s: unknown responsetype %q", r.ID, r.ResponseType)
	}
	if r.PathType == PathTypeRegexp {
		if _, err := regexp.Compile(r.EffectivePath()); err != nil {
			return fmt.Errorf("rule %s: invalid path regexp %q: %w", r.ID, r.EffectivePath(), err)
		}
	}
	return nil
}

// RuleList is an ordered sequence of rules under one client id. Order is
// significant: the matcher returns the first match.
type RuleList []*Rule

// Validate checks every rule in the list; used by the rule store to reject
// an ill-formed list wholesale rather than applying it partially.
func (rl RuleList) Validate() error {
	for i, r := range rl {
		if r == nil {
			return fmt.Errorf("rule at index %d is nil", i)
		}
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}
