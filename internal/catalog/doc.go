// Package catalog builds and queries the two-level book taxonomy.
//
// # Indexing
//
// Build consumes the raw listing records and produces an immutable Index:
// books cross-referenced with their package (exactly one per book) and
// subjects (zero or more per book), plus numeric topic IDs. Packages take
// IDs 1..P and subjects P+1..P+S, each assigned in sorted name order, so
// indexing the same listing twice yields identical IDs:
//
//	ix, err := catalog.Build(records)
//	var idxErr *catalog.IndexingError
//	if errors.As(err, &idxErr) {
//	    // record idxErr.Row is missing idxErr.Missing
//	}
//
// # Queries
//
// The built Index answers read-only queries:
//
//	ix.Packages()              // (id, name, book count) per package
//	ix.Subjects([]int{1, 2})   // subjects related to packages 1 or 2
//	ix.BooksFor(catalog.CategorySubject, []int{7, 9})
//
// BooksFor validates IDs against the requested category: a package ID
// passed as a subject (or vice versa) is rejected with a *NotFoundError
// naming the category, without aborting the other requested IDs.
package catalog
