// Package ioutils provides small file system utilities for springer-dl.
//
//	// Ensure a destination directory exists before saving a book
//	err := ioutils.EnsureDir("/books/Mathematics")
//
//	// Write data to a file
//	err := ioutils.WriteFile("/books/listing.xlsx", data)
package ioutils
