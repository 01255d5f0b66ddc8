package matching

import "github.com/devproxy/rewriteproxy/pkg/rule"

// Match scans rules in order and returns the first rule that satisfies all
// of the Host, Method, Path and Params predicates, or nil. First satisfying
// rule wins; there is no specificity scoring — the rule author's ordering
// is the tie-breaker.
func Match(rules rule.RuleList, in *Inbound) *rule.Rule {
	for _, r := range rules {
		if r == nil || !r.IsEnabled() {
			continue
		}

		if !matchHost(r.Host, in.Host) {
			continue
		}
		if !matchMethod(r.Method, in.Method) {
			continue
		}

		effective := r.EffectivePath()
		switch r.PathType {
		case rule.PathTypeRegexp:
			ok, err := matchPathRegexp(effective, in.Pathname)
			if err != nil || !ok {
				// A rule with an invalid regexp should have been rejected at
				// Put time (rule.Rule.Validate); treat it as a non-match
				// rather than aborting the scan for later rules.
				continue
			}
		default:
			if !matchPathLiteral(effective, in.Pathname) {
				continue
			}
		}

		if r.Params != "" {
			required, err := parseParams(r.Params)
			if err != nil {
				continue
			}
			if !matchParams(required, in.Query, in.FormBody) {
				continue
			}
		}

		return r
	}
	return nil
}
