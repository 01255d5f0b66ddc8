package rewrite

import "errors"

// Sentinel errors surfaced by the rewrite state machine (spec.md §7). Each
// maps to a response class the handler writes back to the caller; none of
// them ever reach the caller as a panic.
var (
	// ErrBadRequest means the request's url query parameter couldn't be parsed.
	ErrBadRequest = errors.New("bad request")

	// ErrNoClient means no clientId could be resolved for the request.
	ErrNoClient = errors.New("no client")

	// ErrUpstreamFailure is returned in place of a forwarder.Failure reaching
	// the handler; the Failure itself is only logged.
	ErrUpstreamFailure = errors.New("upstream failure")

	// ErrRuleError means a matched rule could not be synthesized into a
	// response (e.g. malformed mockjs template).
	ErrRuleError = errors.New("rule error")
)
