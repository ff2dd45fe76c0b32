package rules

import "fmt"

// pdfxIntent is the output intent subtype used by PDF/X
const pdfxIntent = "GTS_PDFX"

// pdfxIntents returns the output intents of subtype GTS_PDFX
func pdfxIntents(doc Document) ([]map[string]string, error) {
	intents, err := doc.OutputIntents()
	if err != nil {
		return nil, fmt.Errorf("reading output intents: %w", err)
	}

	var out []map[string]string
	for _, intent := range intents {
		if intent["S"] == pdfxIntent {
			out = append(out, intent)
		}
	}
	return out, nil
}

// OutputIntentForPdfx requires exactly one output intent of subtype GTS_PDFX.
type OutputIntentForPdfx struct {
	messageList
}

// NewOutputIntentForPdfx creates the rule
func NewOutputIntentForPdfx() *OutputIntentForPdfx {
	return &OutputIntentForPdfx{}
}

// Name returns "OutputIntentForPdfx"
func (r *OutputIntentForPdfx) Name() string { return "OutputIntentForPdfx" }

// CheckDocument counts the PDF/X output intents
func (r *OutputIntentForPdfx) CheckDocument(doc Document) error {
	intents, err := pdfxIntents(doc)
	if err != nil {
		return err
	}
	if len(intents) != 1 {
		r.add("There must be exactly 1 OutputIntent with a subtype of " + pdfxIntent)
	}
	return nil
}

// PdfxOutputIntentHasKeys requires the GTS_PDFX output intent to contain
// every key. Documents without such an intent are left to
// OutputIntentForPdfx.
type PdfxOutputIntentHasKeys struct {
	messageList
	keys []string
}

// NewPdfxOutputIntentHasKeys creates the rule for the given keys
func NewPdfxOutputIntentHasKeys(keys ...string) *PdfxOutputIntentHasKeys {
	return &PdfxOutputIntentHasKeys{keys: keys}
}

// Name returns "PdfxOutputIntentHasKeys"
func (r *PdfxOutputIntentHasKeys) Name() string { return "PdfxOutputIntentHasKeys" }

// CheckDocument records every key missing from the first PDF/X intent
func (r *PdfxOutputIntentHasKeys) CheckDocument(doc Document) error {
	intents, err := pdfxIntents(doc)
	if err != nil {
		return err
	}
	if len(intents) == 0 {
		return nil
	}

	for _, key := range r.keys {
		if _, ok := intents[0][key]; !ok {
			r.add(fmt.Sprintf("The %s OutputIntent missing required key %s", pdfxIntent, key))
		}
	}
	return nil
}
