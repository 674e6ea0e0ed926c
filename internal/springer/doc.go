// Package springer supplies the raw free-book listing from the publisher.
//
// The listing is a spreadsheet export with one row per book. Listing
// downloads it (caching the file on disk between runs) and decodes the
// relevant columns into model.RawBook records:
//
//	client := http.NewClient(60*time.Second, "springer-dl")
//	listing := springer.NewListing(client, config.DefaultListingURL, cachePath, logger)
//
//	books, err := listing.FetchRawBooks(ctx, false) // use cache if present
//	var fetchErr *springer.FetchError
//	if errors.As(err, &fetchErr) {
//	    // publisher unreachable; fetchErr.StatusCode carries the response code
//	}
//
// The DOI column holds resolver URLs like "http://doi.org/10.1007/...";
// the resolver prefix is stripped (exact prefix removal) so the rest of
// the program works with bare identifiers.
package springer
