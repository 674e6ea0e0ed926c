package model

import (
	"path/filepath"
	"regexp"
	"strings"
)

// RawBook is one row of the publisher's free-book listing, exactly as the
// listing supplier hands it over: nothing is split, trimmed or validated yet.
//
// Subjects is the raw subject field, a semicolon-separated list like
// "Mathematics; Physics and Astronomy". The taxonomy indexer takes care of
// splitting and normalizing it.
type RawBook struct {
	// Title is the book title (spreadsheet column A).
	Title string

	// Package is the name of the top-level package the book belongs to
	// (spreadsheet column L). Every book has exactly one.
	Package string

	// Subjects is the raw semicolon-separated subject field
	// (spreadsheet column T). May be empty.
	Subjects string

	// DOI is the book's DOI-like identifier with the resolver prefix
	// already removed, e.g. "10.1007/978-3-319-11080-6".
	DOI string
}

// Book is an indexed book as the catalog and the download orchestrator
// see it.
type Book struct {
	// DOI is the unique per-book identifier, used both for catalog
	// lookups and for building download URLs.
	DOI string

	// Title is the book title.
	Title string

	// Package is the name of the package the book belongs to.
	Package string
}

// PathConfig controls where downloaded books are saved.
type PathConfig struct {
	// Destination is the base directory for downloads.
	Destination string

	// GroupByPackage saves each book into a subdirectory named after its
	// package instead of directly into Destination.
	GroupByPackage bool
}

// Path computes the local file path for this book in the given format.
//
// The filename is derived from the title: whitespace runs become single
// hyphens and characters that are invalid in file names are replaced.
// With grouping enabled the (sanitized) package name becomes an
// intermediate directory:
//
//	cfg := &PathConfig{Destination: "/books", GroupByPackage: true}
//	b := Book{DOI: "10.1/aaa", Title: "All of Statistics", Package: "Mathematics"}
//	b.Path(FormatPDF, cfg) // "/books/Mathematics/All-of-Statistics.pdf"
func (b Book) Path(format Format, cfg *PathConfig) string {
	group := ""
	if cfg.GroupByPackage {
		group = sanitizeFileName(b.Package)
	}
	return filepath.Join(cfg.Destination, group, FileNameFromTitle(b.Title)+format.Extension())
}

// FileNameFromTitle turns a book title into a safe file name (without
// extension): whitespace runs are joined with hyphens, then invalid
// filesystem characters are replaced.
//
//	FileNameFromTitle("A Beginner's Guide to R") // "A-Beginner's-Guide-to-R"
func FileNameFromTitle(title string) string {
	return sanitizeFileName(strings.Join(strings.Fields(title), "-"))
}

// sanitizeFileName removes or replaces characters that are invalid in
// file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Trailing whitespace is removed
func sanitizeFileName(name string) string {
	// Replace invalid path/file characters
	invalidChars := regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	name = invalidChars.ReplaceAllString(name, "_")

	// Remove trailing dots
	name = regexp.MustCompile(`\.+$`).ReplaceAllString(name, "")

	return strings.TrimRight(name, " ")
}
