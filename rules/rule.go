package rules

import "github.com/tsawler/preflight/pages"

// Rule is implemented by every preflight rule.
type Rule interface {
	// Name identifies the rule in reports
	Name() string

	// Messages returns the violations found so far, in discovery order
	Messages() []string
}

// Resetter is implemented by rules that accumulate messages. Reset is called
// once before a document is checked.
type Resetter interface {
	Reset()
}

// PageRule is implemented by rules that look at individual pages. SetPage is
// called for every page in document order, before its content stream is
// replayed.
type PageRule interface {
	SetPage(p *pages.Page)
}

// DocumentRule is implemented by rules that check document-level properties.
// CheckDocument is called once per document, before any page.
type DocumentRule interface {
	CheckDocument(doc Document) error
}

// Document is the document-level view given to a DocumentRule.
type Document interface {
	PageCount() int
	Version() string
	Info() (map[string]string, error)
	CatalogKeys() ([]string, error)
	ID() []string

	// OutputIntents returns the entries of each catalog output intent
	OutputIntents() ([]map[string]string, error)

	// StreamFilters returns the distinct filter names used by any stream
	StreamFilters() ([]string, error)

	// Filespecs counts the file specification dictionaries
	Filespecs() (int, error)
}

// messageList collects violation messages for a rule.
type messageList struct {
	messages []string
}

func (l *messageList) add(msg string) {
	l.messages = append(l.messages, msg)
}

// Messages returns a copy of the collected messages
func (l *messageList) Messages() []string {
	if len(l.messages) == 0 {
		return nil
	}
	out := make([]string, len(l.messages))
	copy(out, l.messages)
	return out
}

// Reset discards the collected messages
func (l *messageList) Reset() {
	l.messages = nil
}
