package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestClient_DownloadFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("book content"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "book.pdf")
	client := NewClient(10*time.Second, "test")

	var lastWritten int64
	err := client.DownloadFile(context.Background(), server.URL, dest, func(written, total int64) {
		lastWritten = written
	})
	if err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(data) != "book content" {
		t.Errorf("file content = %q", data)
	}
	if lastWritten != int64(len("book content")) {
		t.Errorf("progress reported %d bytes, want %d", lastWritten, len("book content"))
	}
}

func TestClient_DownloadFile_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "book.pdf")
	client := NewClient(10*time.Second, "test")

	err := client.DownloadFile(context.Background(), server.URL, dest, nil)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("want *StatusError, got %v", err)
	}
	if statusErr.Code != 404 {
		t.Errorf("Code = %d, want 404", statusErr.Code)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("no file should be created on a failed download")
	}
}
