// Package http provides the HTTP client used by springer-dl for fetching
// the book listing and downloading books.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Timeout handling
//   - File downloads streamed to disk with progress tracking
//
// Non-success responses are reported as *StatusError so callers can
// surface the transport status code:
//
//	client := http.NewClient(60*time.Second, "springer-dl")
//	err := client.DownloadFile(ctx, url, "/books/title.pdf", nil)
//	var statusErr *http.StatusError
//	if errors.As(err, &statusErr) {
//	    fmt.Println("server said", statusErr.Code)
//	}
package http
