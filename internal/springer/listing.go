package springer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	httpx "springerdl/internal/http"
	ioutils "springerdl/internal/io"
	"springerdl/internal/logging"
	"springerdl/internal/model"
)

// FetchError means the free-book listing could not be fetched from the
// publisher. No catalog can be built without the listing, so callers
// treat it as fatal.
type FetchError struct {
	// StatusCode is the HTTP status code the publisher answered with,
	// or 0 when the request itself failed.
	StatusCode int
}

func (e *FetchError) Error() string {
	if e.StatusCode == 0 {
		return "cannot fetch book listing from publisher"
	}
	return fmt.Sprintf("cannot fetch book listing (response status code: %d)", e.StatusCode)
}

// Listing fetches and decodes the publisher's free-book listing.
//
// The listing is a spreadsheet export. It is cached on disk so repeated
// invocations don't refetch it; FetchRawBooks only asks for "force or use
// cache".
//
// Example usage:
//
//	listing := NewListing(client, config.DefaultListingURL, cachePath, logger)
//	books, err := listing.FetchRawBooks(ctx, false)
type Listing struct {
	client    *httpx.Client
	url       string
	cachePath string
	log       logging.Logger
}

// NewListing creates a Listing that fetches from url and caches the raw
// spreadsheet at cachePath.
func NewListing(client *httpx.Client, url, cachePath string, log logging.Logger) *Listing {
	return &Listing{
		client:    client,
		url:       url,
		cachePath: cachePath,
		log:       log,
	}
}

// FetchRawBooks returns the raw book records from the publisher's listing.
//
// When forceRefresh is true, or no cached listing exists yet, the listing
// is downloaded first. A non-success response yields a *FetchError
// carrying the status code, and the existing cache is left untouched.
func (l *Listing) FetchRawBooks(ctx context.Context, forceRefresh bool) ([]model.RawBook, error) {
	if forceRefresh || !l.cached() {
		if err := l.refresh(ctx); err != nil {
			return nil, err
		}
	} else {
		l.log.Debug("using cached book listing", "path", l.cachePath)
	}

	books, err := l.decode()
	if err != nil {
		return nil, fmt.Errorf("decoding book listing: %w", err)
	}

	l.log.Info("book listing loaded", "books", len(books))
	return books, nil
}

func (l *Listing) cached() bool {
	_, err := os.Stat(l.cachePath)
	return err == nil
}

// refresh downloads the listing into the cache. The download goes to a
// temporary file first so a failed transfer never clobbers a good cache.
func (l *Listing) refresh(ctx context.Context) error {
	l.log.Debug("fetching book listing", "url", l.url)

	if err := ioutils.EnsureDir(filepath.Dir(l.cachePath)); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmpPath := l.cachePath + ".tmp"
	if err := l.client.DownloadFile(ctx, l.url, tmpPath, nil); err != nil {
		os.Remove(tmpPath)

		var statusErr *httpx.StatusError
		if errors.As(err, &statusErr) {
			return &FetchError{StatusCode: statusErr.Code}
		}
		return fmt.Errorf("fetching book listing: %w", err)
	}

	if err := os.Rename(tmpPath, l.cachePath); err != nil {
		return fmt.Errorf("storing book listing cache: %w", err)
	}

	l.log.Debug("book listing cached", "path", l.cachePath)
	return nil
}
