// Package download provides the download orchestration logic for
// fetching free books from the publisher.
//
// # Manager
//
// The Manager coordinates the whole process:
//
//  1. Build the taxonomy index from the raw listing (lazily, once per run)
//  2. Resolve the requested topic IDs to book identifiers
//  3. Download each book sequentially, deduplicating repeats across
//     overlapping topics
//  4. Report per-book outcomes and a final summary
//
// # Basic usage
//
//	manager := download.NewManager(settings, listing, logger, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	report, err := manager.DownloadByTopics(ctx, []int{1, 3}, model.FormatPDF)
//
// # Failure semantics
//
// An unsupported format fails the call before anything is fetched, and a
// listing fetch or indexing error is fatal as well. Everything after that
// is per book: a non-success response or a filesystem error is recorded
// in the report and the batch continues with the next book.
//
// # Progress
//
// Progress is reported via a callback receiving ProgressEvent values
// (Info, Verbose, Warning, Error, Success), and GetProgress exposes
// byte/file counters for interactive UIs.
package download
