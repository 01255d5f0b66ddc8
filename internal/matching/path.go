package matching

import "regexp"

// matchPathLiteral checks an exact match between the effective rule path
// and the inbound pathname (spec.md §4.B.2, pathtype=literal).
func matchPathLiteral(effective, pathname string) bool {
	return effective == pathname
}

// matchPathRegexp checks find-anywhere semantics: the effective path,
// compiled as a regular expression, must match somewhere in pathname.
// Deliberately not anchored — spec.md's "Regex anchoring" design note gives
// "(bad)?nonexist" matching "/api/nonexist" as the reference example.
func matchPathRegexp(effective, pathname string) (bool, error) {
	re, err := regexp.Compile(effective)
	if err != nil {
		return false, err
	}
	return re.MatchString(pathname), nil
}
