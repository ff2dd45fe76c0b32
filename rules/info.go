package rules

import (
	"fmt"
	"regexp"
	"sort"
)

// InfoHasKeys requires the document Info dictionary to contain every key.
type InfoHasKeys struct {
	messageList
	keys []string
}

// NewInfoHasKeys creates the rule for the given keys
func NewInfoHasKeys(keys ...string) *InfoHasKeys {
	return &InfoHasKeys{keys: keys}
}

// Name returns "InfoHasKeys"
func (r *InfoHasKeys) Name() string { return "InfoHasKeys" }

// CheckDocument records every missing key
func (r *InfoHasKeys) CheckDocument(doc Document) error {
	info, err := doc.Info()
	if err != nil {
		return fmt.Errorf("reading Info dictionary: %w", err)
	}
	for _, key := range r.keys {
		if _, ok := info[key]; !ok {
			r.add(fmt.Sprintf("Info dict missing required key %s", key))
		}
	}
	return nil
}

// MatchInfoEntries requires Info dictionary values to match patterns. A
// missing entry does not match.
type MatchInfoEntries struct {
	messageList
	patterns map[string]*regexp.Regexp
}

// NewMatchInfoEntries creates the rule from key to pattern pairs
func NewMatchInfoEntries(patterns map[string]*regexp.Regexp) *MatchInfoEntries {
	return &MatchInfoEntries{patterns: patterns}
}

// Name returns "MatchInfoEntries"
func (r *MatchInfoEntries) Name() string { return "MatchInfoEntries" }

// CheckDocument records every entry that does not match. Keys are checked
// in sorted order.
func (r *MatchInfoEntries) CheckDocument(doc Document) error {
	info, err := doc.Info()
	if err != nil {
		return fmt.Errorf("reading Info dictionary: %w", err)
	}

	keys := make([]string, 0, len(r.patterns))
	for key := range r.patterns {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		re := r.patterns[key]
		value := info[key]
		if !re.MatchString(value) {
			r.add(fmt.Sprintf("Info.%s value '%s' doesn't match %s", key, value, re))
		}
	}
	return nil
}

// InfoSpecifiesTrapping requires the Info dictionary to state whether the
// document has been trapped.
type InfoSpecifiesTrapping struct {
	messageList
}

// NewInfoSpecifiesTrapping creates the rule
func NewInfoSpecifiesTrapping() *InfoSpecifiesTrapping {
	return &InfoSpecifiesTrapping{}
}

// Name returns "InfoSpecifiesTrapping"
func (r *InfoSpecifiesTrapping) Name() string { return "InfoSpecifiesTrapping" }

// CheckDocument checks the Trapped entry
func (r *InfoSpecifiesTrapping) CheckDocument(doc Document) error {
	info, err := doc.Info()
	if err != nil {
		return fmt.Errorf("reading Info dictionary: %w", err)
	}

	trapped, ok := info["Trapped"]
	switch {
	case !ok:
		r.add("Info dict does not specify Trapped")
	case trapped != "True" && trapped != "False":
		r.add("Trapped value should be 'True' or 'False'")
	}
	return nil
}
