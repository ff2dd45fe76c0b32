package rules

import (
	"fmt"

	"github.com/tsawler/preflight/model"
)

// RootHasKeys requires the document catalog to contain every key.
type RootHasKeys struct {
	messageList
	keys []string
}

// NewRootHasKeys creates the rule for the given keys
func NewRootHasKeys(keys ...string) *RootHasKeys {
	return &RootHasKeys{keys: keys}
}

// Name returns "RootHasKeys"
func (r *RootHasKeys) Name() string { return "RootHasKeys" }

// CheckDocument records every missing key
func (r *RootHasKeys) CheckDocument(doc Document) error {
	keys, err := doc.CatalogKeys()
	if err != nil {
		return fmt.Errorf("reading catalog: %w", err)
	}

	present := make(map[string]bool, len(keys))
	for _, key := range keys {
		present[key] = true
	}
	for _, key := range r.keys {
		if !present[key] {
			r.add(fmt.Sprintf("Root dict missing required key %s", key))
		}
	}
	return nil
}

// DocumentID requires the trailer to carry a file identifier.
type DocumentID struct {
	messageList
}

// NewDocumentID creates the rule
func NewDocumentID() *DocumentID {
	return &DocumentID{}
}

// Name returns "DocumentID"
func (r *DocumentID) Name() string { return "DocumentID" }

// CheckDocument checks the trailer ID
func (r *DocumentID) CheckDocument(doc Document) error {
	if len(doc.ID()) == 0 {
		r.add("Document ID missing")
	}
	return nil
}

// MaxVersion limits the PDF version of the document.
type MaxVersion struct {
	messageList
	max model.PDFVersion
}

// NewMaxVersion creates the rule. It fails if version cannot be parsed.
func NewMaxVersion(version string) (*MaxVersion, error) {
	v, err := model.ParseVersion(version)
	if err != nil {
		return nil, err
	}
	return &MaxVersion{max: v}, nil
}

// Name returns "MaxVersion"
func (r *MaxVersion) Name() string { return "MaxVersion" }

// CheckDocument compares the document version with the limit. An
// unreadable version is reported as a violation.
func (r *MaxVersion) CheckDocument(doc Document) error {
	raw := doc.Version()
	v, err := model.ParseVersion(raw)
	if err != nil || r.max.Less(v) {
		r.add(fmt.Sprintf("PDF version should be %s or lower (value: %s)", r.max, raw))
	}
	return nil
}
