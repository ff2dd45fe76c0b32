package model

import (
	"fmt"
	"strconv"
	"strings"
)

// PDFVersion represents a PDF version
type PDFVersion struct {
	Major int
	Minor int
}

// ParseVersion parses a version such as "1.4". A bare major version ("2")
// has minor version 0.
func ParseVersion(s string) (PDFVersion, error) {
	major, minor, found := strings.Cut(strings.TrimSpace(s), ".")

	var v PDFVersion
	var err error
	if v.Major, err = strconv.Atoi(major); err != nil {
		return PDFVersion{}, fmt.Errorf("invalid version %q", s)
	}
	if found {
		if v.Minor, err = strconv.Atoi(minor); err != nil {
			return PDFVersion{}, fmt.Errorf("invalid version %q", s)
		}
	}
	if v.Major < 0 || v.Minor < 0 {
		return PDFVersion{}, fmt.Errorf("invalid version %q", s)
	}
	return v, nil
}

// String returns the version as a string (e.g., "1.7")
func (v PDFVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Less reports whether v is an earlier version than other
func (v PDFVersion) Less(other PDFVersion) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	return v.Minor < other.Minor
}
