package cli

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/devproxy/rewriteproxy/pkg/rule"
)

func marshalJSON(rules rule.RuleList) (*bytes.Reader, error) {
	data, err := json.Marshal(rules)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

func decodeRuleList(r io.Reader) (rule.RuleList, error) {
	var rules rule.RuleList
	if err := json.NewDecoder(r).Decode(&rules); err != nil {
		return nil, err
	}
	return rules, nil
}
