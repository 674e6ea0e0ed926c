package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// StatusError is returned when a request completes but the server answers
// with a non-success status code. Callers that need the transport code
// (e.g. to build a fetch error, or to report a per-book failure) unwrap
// it with errors.As.
type StatusError struct {
	// Code is the HTTP status code.
	Code int

	// Status is the full status line, e.g. "404 Not Found".
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
}

// Client wraps HTTP operations for springer-dl.
//
// Client provides:
//   - Configured User-Agent header
//   - Timeout handling
//   - File download streamed to disk with optional progress tracking
//
// Example usage:
//
//	client := NewClient(60*time.Second, "springer-dl")
//	err := client.DownloadFile(ctx, pdfURL, "/books/title.pdf", nil)
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client with the given timeout and
// User-Agent header.
func NewClient(timeout time.Duration, userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor large downloads by providing an OnUpdate callback
// that receives the current bytes written and total expected bytes.
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	// -1 when the server did not send a Content-Length.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	// Parameters are (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// DownloadFile downloads a file to the specified path with optional
// progress callback.
//
// The file is created (or truncated if it exists) and the content is
// streamed directly to disk, avoiding loading the entire file into memory.
// A non-2xx response is reported as a *StatusError and no file is created.
//
// Parameters:
//   - ctx: Context for cancellation
//   - url: URL to download from
//   - destPath: Local file path to save to
//   - onProgress: Optional callback called with (bytesWritten, totalBytes).
//     Pass nil to disable progress tracking.
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	file, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer file.Close()

	var writer io.Writer = file
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   file,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	_, err = io.Copy(writer, resp.Body)
	return err
}
