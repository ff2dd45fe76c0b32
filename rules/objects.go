package rules

import (
	"fmt"
	"strings"
)

// CompressionAlgorithms limits the stream filters a document may use.
type CompressionAlgorithms struct {
	messageList
	allowed map[string]bool
}

// NewCompressionAlgorithms creates the rule allowing the named filters
func NewCompressionAlgorithms(allowed ...string) *CompressionAlgorithms {
	r := &CompressionAlgorithms{allowed: make(map[string]bool, len(allowed))}
	for _, name := range allowed {
		r.allowed[name] = true
	}
	return r
}

// Name returns "CompressionAlgorithms"
func (r *CompressionAlgorithms) Name() string { return "CompressionAlgorithms" }

// CheckDocument reports the filters that are not allowed, in one message
func (r *CompressionAlgorithms) CheckDocument(doc Document) error {
	filters, err := doc.StreamFilters()
	if err != nil {
		return fmt.Errorf("reading stream filters: %w", err)
	}

	var banned []string
	for _, f := range filters {
		if !r.allowed[f] {
			banned = append(banned, f)
		}
	}
	if len(banned) > 0 {
		r.add(fmt.Sprintf("File uses excluded compression algorithm (%s)", strings.Join(banned, ", ")))
	}
	return nil
}

// NoFilespecs forbids references to external files.
type NoFilespecs struct {
	messageList
}

// NewNoFilespecs creates the rule
func NewNoFilespecs() *NoFilespecs {
	return &NoFilespecs{}
}

// Name returns "NoFilespecs"
func (r *NoFilespecs) Name() string { return "NoFilespecs" }

// CheckDocument reports any file specification
func (r *NoFilespecs) CheckDocument(doc Document) error {
	n, err := doc.Filespecs()
	if err != nil {
		return fmt.Errorf("counting filespecs: %w", err)
	}
	if n > 0 {
		r.add("File uses at least 1 Filespec to refer to an external file")
	}
	return nil
}
