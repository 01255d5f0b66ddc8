// Package matching implements the rule matcher (spec component B): given a
// rule list and a parsed inbound request, it returns the first matching
// rule or nothing. Matching is split by predicate into host.go, path.go,
// query.go, mirroring how the teacher corpus splits net/http request
// matching by concern.
package matching

import "net/url"

// Inbound is the matcher's view of an inbound rewrite request, derived from
// the rewrite endpoint's query parameters and body (spec.md §3
// InboundRequest).
type Inbound struct {
	Method   string
	Host     string
	Pathname string
	Query    url.Values

	// FormBody holds the decoded POST form body, used for Params matching
	// against form-encoded request bodies (spec.md §4.B.3).
	FormBody url.Values
}
