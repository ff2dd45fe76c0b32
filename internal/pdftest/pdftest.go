// Package pdftest builds small PDF files in memory for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Document describes a PDF to assemble. Objects are numbered from 1 in
// order; each entry is the object body without the "n 0 obj" wrapper.
type Document struct {
	Version string // header version, default "1.4"
	Objects []string
	Root    int    // object number of the catalog, default 1
	Info    int    // object number of the Info dictionary, 0 for none
	ID      string // trailer /ID value, e.g. "[<01> <01>]"
}

// Bytes serialises the document with a correct cross-reference table
func (d Document) Bytes() []byte {
	version := d.Version
	if version == "" {
		version = "1.4"
	}
	root := d.Root
	if root == 0 {
		root = 1
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%%PDF-%s\n", version)

	offsets := make([]int, len(d.Objects))
	for i, body := range d.Objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(d.Objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}

	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R", len(d.Objects)+1, root)
	if d.Info > 0 {
		fmt.Fprintf(&buf, " /Info %d 0 R", d.Info)
	}
	if d.ID != "" {
		fmt.Fprintf(&buf, " /ID %s", d.ID)
	}
	fmt.Fprintf(&buf, " >>\nstartxref\n%d\n%%%%EOF\n", xref)

	return buf.Bytes()
}

// Stream formats a stream object body with the given extra dictionary
// entries and unfiltered data.
func Stream(dict string, data string) string {
	return fmt.Sprintf("<< %s /Length %d >>\nstream\n%s\nendstream", dict, len(data), data)
}

// WriteFile writes the document to a file in a test temp dir and returns
// its path.
func (d Document) WriteFile(t testing.TB, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, d.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
