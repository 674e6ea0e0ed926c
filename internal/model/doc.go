// Package model defines the core data structures used throughout
// springer-dl.
//
// # RawBook
//
// RawBook is one undecoded row of the publisher's listing, as produced by
// the listing supplier (internal/springer) and consumed by the taxonomy
// indexer (internal/catalog).
//
// # Book
//
// Book is an indexed book with its computed download path:
//
//	b := model.Book{DOI: "10.1/aaa", Title: "Linear Algebra", Package: "Mathematics"}
//	path := b.Path(model.FormatPDF, &model.PathConfig{Destination: "/books"})
//	// "/books/Linear-Algebra.pdf"
//
// # Format
//
// Format enumerates the supported download formats (pdf, epub) and knows
// its file extension:
//
//	f, ok := model.ParseFormat("epub")
//	f.Extension() // ".epub"
package model
