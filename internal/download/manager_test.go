package download

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"springerdl/internal/config"
	"springerdl/internal/logging"
	"springerdl/internal/model"
)

type fakeSource struct {
	records []model.RawBook
	err     error
	calls   int
}

func (f *fakeSource) FetchRawBooks(ctx context.Context, forceRefresh bool) ([]model.RawBook, error) {
	f.calls++
	return f.records, f.err
}

// bookServer serves book content and counts fetches per identifier.
type bookServer struct {
	*httptest.Server

	mu      sync.Mutex
	fetches map[string]int
	failing map[string]bool
}

func newBookServer() *bookServer {
	bs := &bookServer{
		fetches: make(map[string]int),
		failing: make(map[string]bool),
	}
	bs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Paths look like /pdf/<doi>.pdf with the DOI percent-decoded
		// back by the URL parser.
		doi := strings.TrimPrefix(r.URL.Path, "/pdf/")
		doi = strings.TrimSuffix(doi, ".pdf")

		bs.mu.Lock()
		bs.fetches[doi]++
		failing := bs.failing[doi]
		bs.mu.Unlock()

		if failing {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("content of " + doi))
	}))
	return bs
}

func (bs *bookServer) count(doi string) int {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return bs.fetches[doi]
}

func exampleRecords() []model.RawBook {
	return []model.RawBook{
		{Title: "Book A", Package: "Pkg1", Subjects: "Math; Physics", DOI: "10.1/aaa"},
		{Title: "Book B", Package: "Pkg1", Subjects: "Math", DOI: "10.1/bbb"},
		{Title: "Book C", Package: "Pkg2", Subjects: "Physics", DOI: "10.1/ccc"},
	}
}

func newTestManager(t *testing.T, bs *bookServer, records []model.RawBook) (*Manager, string) {
	t.Helper()

	dest := t.TempDir()
	settings := config.DefaultSettings()
	settings.Destination = dest
	settings.PDFLinkTemplate = bs.URL + "/pdf/{doi}.pdf"
	settings.EPUBLinkTemplate = bs.URL + "/epub/{doi}.epub"

	return NewManager(settings, &fakeSource{records: records}, logging.Nop{}, nil), dest
}

func TestDownloadByTopics_DeduplicatesAcrossTopics(t *testing.T) {
	bs := newBookServer()
	defer bs.Close()
	m, dest := newTestManager(t, bs, exampleRecords())

	// Package 1 (Pkg1: aaa, bbb) and subject 3 (Math: aaa, bbb) overlap
	// completely; each book must be fetched and written exactly once.
	report, err := m.DownloadByTopics(context.Background(), []int{1, 3}, model.FormatPDF)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Requested)
	assert.Equal(t, 2, report.Downloaded)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, 0, report.Failed)

	assert.Equal(t, 1, bs.count("10.1/aaa"))
	assert.Equal(t, 1, bs.count("10.1/bbb"))
	assert.Equal(t, 0, bs.count("10.1/ccc"))

	data, err := os.ReadFile(filepath.Join(dest, "Book-A.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "content of 10.1/aaa", string(data))
}

func TestDownloadByTopics_PerBookFailureIsolated(t *testing.T) {
	bs := newBookServer()
	defer bs.Close()
	bs.failing["10.1/aaa"] = true

	m, dest := newTestManager(t, bs, exampleRecords())

	report, err := m.DownloadByTopics(context.Background(), []int{1, 2}, model.FormatPDF)
	require.NoError(t, err, "per-book failures must not fail the call")

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 2, report.Downloaded)

	var failed *Outcome
	for i := range report.Outcomes {
		if report.Outcomes[i].Err != nil {
			failed = &report.Outcomes[i]
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, "10.1/aaa", failed.DOI)
	assert.Contains(t, failed.Err.Error(), "404")

	// The books after the failing one were still written.
	assert.FileExists(t, filepath.Join(dest, "Book-B.pdf"))
	assert.FileExists(t, filepath.Join(dest, "Book-C.pdf"))
	assert.NoFileExists(t, filepath.Join(dest, "Book-A.pdf"))
}

func TestDownloadByTopics_FailedBookRetriedUnderLaterTopic(t *testing.T) {
	bs := newBookServer()
	defer bs.Close()
	bs.failing["10.1/aaa"] = true

	m, _ := newTestManager(t, bs, exampleRecords())

	// aaa fails under package 1; it is not in the dedup set, so subject 3
	// attempts it again.
	report, err := m.DownloadByTopics(context.Background(), []int{1, 3}, model.FormatPDF)
	require.NoError(t, err)

	assert.Equal(t, 2, bs.count("10.1/aaa"))
	assert.Equal(t, 2, report.Failed)
	assert.Equal(t, 1, report.Downloaded) // bbb, downloaded once and skipped once
}

func TestDownloadByTopics_UnsupportedFormat(t *testing.T) {
	source := &fakeSource{records: exampleRecords()}
	settings := config.DefaultSettings()
	m := NewManager(settings, source, logging.Nop{}, nil)

	_, err := m.DownloadByTopics(context.Background(), []int{1}, model.Format(9))

	var formatErr *UnsupportedFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, 0, source.calls, "format validation must short-circuit before any fetch")
}

func TestDownloadByTopics_InvalidTopicIDSkipped(t *testing.T) {
	bs := newBookServer()
	defer bs.Close()
	m, dest := newTestManager(t, bs, exampleRecords())

	var warnings []string
	m.onProgress = func(event ProgressEvent) {
		if event.Level == LevelWarning {
			warnings = append(warnings, event.Message)
		}
	}

	report, err := m.DownloadByTopics(context.Background(), []int{99, 2}, model.FormatPDF)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Downloaded)
	assert.FileExists(t, filepath.Join(dest, "Book-C.pdf"))
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "99")
}

func TestDownloadByTopics_GroupByPackage(t *testing.T) {
	bs := newBookServer()
	defer bs.Close()
	m, dest := newTestManager(t, bs, exampleRecords())
	m.settings.GroupByPackage = true

	_, err := m.DownloadByTopics(context.Background(), []int{2}, model.FormatPDF)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dest, "Pkg2", "Book-C.pdf"))
}

func TestCatalog_BuiltOnceAndReused(t *testing.T) {
	source := &fakeSource{records: exampleRecords()}
	m := NewManager(config.DefaultSettings(), source, logging.Nop{}, nil)

	first, err := m.Catalog(context.Background(), false)
	require.NoError(t, err)
	second, err := m.Catalog(context.Background(), false)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, source.calls)

	// Force refresh rebuilds.
	_, err = m.Catalog(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestCatalog_FetchErrorPropagates(t *testing.T) {
	wantErr := errors.New("listing unreachable")
	m := NewManager(config.DefaultSettings(), &fakeSource{err: wantErr}, logging.Nop{}, nil)

	_, err := m.Catalog(context.Background(), false)
	require.ErrorIs(t, err, wantErr)

	_, err = m.DownloadByTopics(context.Background(), []int{1}, model.FormatPDF)
	require.ErrorIs(t, err, wantErr)
}

func TestBookURL(t *testing.T) {
	got := bookURL("https://example.com/content/pdf/{doi}.pdf", "10.1007/978-3 319")
	assert.Equal(t, "https://example.com/content/pdf/10.1007%2F978-3%20319.pdf", got)
}
