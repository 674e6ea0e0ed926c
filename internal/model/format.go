package model

import "fmt"

// Format represents a supported book download format.
type Format int

const (
	// FormatPDF downloads books as PDF files.
	FormatPDF Format = iota

	// FormatEPUB downloads books as EPUB files. Note that automated
	// access to EPUB resources may be restricted by the publisher's
	// terms of use.
	FormatEPUB
)

// ParseFormat parses a format name ("pdf" or "epub").
//
// The returned Format is only meaningful when ok is true.
func ParseFormat(s string) (Format, bool) {
	switch s {
	case "pdf":
		return FormatPDF, true
	case "epub":
		return FormatEPUB, true
	default:
		return Format(-1), false
	}
}

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	return f == FormatPDF || f == FormatEPUB
}

// String returns the lowercase format name.
func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatEPUB:
		return "epub"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Extension returns the file extension for the format, including the dot.
//
// Returns:
//   - ".pdf" for FormatPDF
//   - ".epub" for FormatEPUB
func (f Format) Extension() string {
	switch f {
	case FormatEPUB:
		return ".epub"
	default:
		return ".pdf"
	}
}
