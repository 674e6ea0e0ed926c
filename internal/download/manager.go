package download

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"springerdl/internal/catalog"
	"springerdl/internal/config"
	httpx "springerdl/internal/http"
	ioutils "springerdl/internal/io"
	"springerdl/internal/logging"
	"springerdl/internal/model"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// UnsupportedFormatError is returned when DownloadByTopics is asked for a
// format it does not know. It fails the whole call before anything is
// fetched.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format: %q", e.Format)
}

// ListingSource supplies the raw book listing. internal/springer provides
// the real implementation; tests substitute their own.
type ListingSource interface {
	FetchRawBooks(ctx context.Context, forceRefresh bool) ([]model.RawBook, error)
}

// Outcome records the result of one book download attempt.
type Outcome struct {
	DOI   string
	Title string
	Path  string
	Err   error
}

// Report summarizes one DownloadByTopics call.
type Report struct {
	Format model.Format

	// Requested is the number of distinct books resolved from the
	// requested topics before deduplication against downloads.
	Requested int

	Downloaded int

	// Skipped counts repeat appearances of already-downloaded books
	// under later topics of the same call.
	Skipped int

	Failed int

	Outcomes []Outcome
}

// Manager coordinates catalog building and book downloads.
//
// The taxonomy index is built lazily on first use and then reused for the
// rest of the run; Catalog can be called up front to control the
// force-refresh behavior. Downloads are strictly sequential: one book is
// fetched and written completely before the next begins, and a failed
// book never aborts the remaining batch.
type Manager struct {
	settings *config.Settings
	client   *httpx.Client
	source   ListingSource
	log      logging.Logger

	onProgress func(ProgressEvent)

	mu    sync.Mutex
	index *catalog.Index

	receivedBytes   int64
	downloadedFiles int32
	totalFiles      int32
}

// NewManager creates a new download Manager.
//
// onProgress may be nil when no UI wants progress events.
func NewManager(settings *config.Settings, source ListingSource, log logging.Logger, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		settings:   settings,
		client:     httpx.NewClient(time.Duration(settings.HTTPTimeoutSeconds)*time.Second, settings.UserAgent),
		source:     source,
		log:        log,
		onProgress: onProgress,
	}
}

// Catalog returns the taxonomy index, building it on first call.
//
// forceRefresh is passed through to the listing source so the cached
// listing can be bypassed; it also discards an already-built index.
// Fetch and indexing errors are fatal: no partial index is kept.
func (m *Manager) Catalog(ctx context.Context, forceRefresh bool) (*catalog.Index, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.index != nil && !forceRefresh {
		return m.index, nil
	}

	records, err := m.source.FetchRawBooks(ctx, forceRefresh)
	if err != nil {
		return nil, err
	}

	ix, err := catalog.Build(records)
	if err != nil {
		return nil, fmt.Errorf("indexing book listing: %w", err)
	}

	m.index = ix
	return ix, nil
}

// DownloadByTopics downloads every book belonging to the given topic IDs
// in the given format.
//
// A book appearing under several of the requested topics is downloaded at
// most once: a per-call dedup set records identifiers whose file has been
// written, and later occurrences are skipped. Topic IDs outside the valid
// range are reported and skipped. Per-book transport and filesystem
// errors are recorded in the report and the loop continues; the only
// call-level failures are an unsupported format and a missing catalog.
func (m *Manager) DownloadByTopics(ctx context.Context, topicIDs []int, format model.Format) (*Report, error) {
	if !format.Valid() {
		return nil, &UnsupportedFormatError{Format: format.String()}
	}

	ix, err := m.Catalog(ctx, false)
	if err != nil {
		return nil, err
	}

	report := &Report{Format: format}

	// Pre-resolve the distinct books so progress totals are known.
	planned := make(map[string]bool)
	for _, id := range topicIDs {
		for _, doi := range ix.BooksForTopic(id) {
			planned[doi] = true
		}
	}
	report.Requested = len(planned)
	atomic.StoreInt32(&m.totalFiles, int32(len(planned)))
	atomic.StoreInt32(&m.downloadedFiles, 0)

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Downloading %d books in %s format", len(planned), format),
		Level:   LevelInfo,
	})

	downloaded := make(map[string]bool)
	for _, id := range topicIDs {
		dois := ix.BooksForTopic(id)
		if dois == nil {
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("No topic with ID = %d, skipping", id),
				Level:   LevelWarning,
			})
			continue
		}

		for _, doi := range dois {
			if downloaded[doi] {
				m.log.Debug("book already downloaded in this call, skipping", "doi", doi)
				report.Skipped++
				continue
			}

			outcome := m.downloadBook(ctx, ix, doi, format)
			report.Outcomes = append(report.Outcomes, outcome)
			if outcome.Err != nil {
				report.Failed++
				m.progress(ProgressEvent{
					Message: fmt.Sprintf("Couldn't download %q: %v", outcome.Title, outcome.Err),
					Level:   LevelWarning,
				})
				continue
			}

			downloaded[doi] = true
			report.Downloaded++
			atomic.AddInt32(&m.downloadedFiles, 1)
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Downloaded: %s", filepath.Base(outcome.Path)),
				Level:   LevelVerbose,
			})
		}
	}

	level := LevelSuccess
	if report.Failed > 0 {
		level = LevelWarning
	}
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Finished %s downloads: %d downloaded, %d failed", format, report.Downloaded, report.Failed),
		Level:   level,
	})

	return report, nil
}

// GetProgress returns current download progress for the running batch.
func (m *Manager) GetProgress() (receivedBytes int64, filesReceived, filesTotal int32) {
	return atomic.LoadInt64(&m.receivedBytes),
		atomic.LoadInt32(&m.downloadedFiles),
		atomic.LoadInt32(&m.totalFiles)
}

func (m *Manager) downloadBook(ctx context.Context, ix *catalog.Index, doi string, format model.Format) Outcome {
	book := model.Book{DOI: doi, Title: ix.Title(doi), Package: ix.PackageOf(doi)}
	path := book.Path(format, m.settings.ToPathConfig())
	outcome := Outcome{DOI: doi, Title: book.Title, Path: path}

	m.log.Info("downloading book", "doi", doi, "format", format.String())

	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		outcome.Err = fmt.Errorf("creating directory: %w", err)
		return outcome
	}

	link := bookURL(m.settings.LinkTemplate(format), doi)

	var prev int64
	err := m.client.DownloadFile(ctx, link, path, func(written, total int64) {
		atomic.AddInt64(&m.receivedBytes, written-prev)
		prev = written
	})
	if err != nil {
		var statusErr *httpx.StatusError
		if errors.As(err, &statusErr) {
			outcome.Err = fmt.Errorf("response code %d", statusErr.Code)
		} else {
			outcome.Err = err
		}
	}
	return outcome
}

// bookURL fills the {doi} placeholder of a link template with the
// percent-encoded identifier. No character is considered safe: DOIs
// contain slashes, which must not be treated as path separators.
func bookURL(template, doi string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(doi), "+", "%20")
	return strings.ReplaceAll(template, "{doi}", escaped)
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
