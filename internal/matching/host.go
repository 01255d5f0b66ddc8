package matching

import "strings"

// matchHost checks the Host predicate (spec.md §4.B.1): if ruleHost is set,
// it must equal inboundHost exactly, case-insensitively. An unset ruleHost
// always matches.
func matchHost(ruleHost, inboundHost string) bool {
	if ruleHost == "" {
		return true
	}
	return strings.EqualFold(ruleHost, inboundHost)
}

// matchMethod checks the optional Method predicate, symmetric with Host.
func matchMethod(ruleMethod, inboundMethod string) bool {
	if ruleMethod == "" {
		return true
	}
	return strings.EqualFold(ruleMethod, inboundMethod)
}
