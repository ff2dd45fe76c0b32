package profile

// RuleResult holds the messages of one rule
type RuleResult struct {
	Rule     string
	Messages []string
}

// Report is the outcome of checking one document against a profile
type Report struct {
	Profile string
	File    string
	Pages   int // pages checked
	Results []RuleResult
}

// Messages returns every message, rule by rule in declaration order
func (r *Report) Messages() []string {
	var out []string
	for _, result := range r.Results {
		out = append(out, result.Messages...)
	}
	return out
}

// OK reports whether no rule found a violation
func (r *Report) OK() bool {
	for _, result := range r.Results {
		if len(result.Messages) > 0 {
			return false
		}
	}
	return true
}
