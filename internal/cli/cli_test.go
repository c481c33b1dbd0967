package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ytget/batch-uploader/internal/devserver"
	"github.com/ytget/batch-uploader/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestUpload_DownloadsResult(t *testing.T) {
	server := devserver.New(devserver.Config{PendingPolls: 2})
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	src := t.TempDir()
	a := writeFile(t, src, "a.txt", "alpha")
	b := writeFile(t, src, "b.txt", "beta")
	out := filepath.Join(t.TempDir(), "results")

	logs, err := execute(t, "upload", "--server", ts.URL, "--interval", "1ms", "--out", out, a, "--file", b)
	if err != nil {
		t.Fatalf("upload failed: %v\n%s", err, logs)
	}

	entries, err := os.ReadDir(out)
	if err != nil || len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), ".zip") {
		t.Fatalf("Expected one zip in %s, got %v (%v)", out, entries, err)
	}
	if server.TaskCount() != 1 {
		t.Errorf("Expected a single submitted batch, got %d", server.TaskCount())
	}
	if !strings.Contains(logs, "Saved result") {
		t.Errorf("Expected a saved result record, got:\n%s", logs)
	}
}

func TestUpload_NoDownload(t *testing.T) {
	ts := httptest.NewServer(devserver.New(devserver.Config{PendingPolls: 0}).Handler())
	defer ts.Close()

	a := writeFile(t, t.TempDir(), "a.txt", "alpha")
	out := filepath.Join(t.TempDir(), "unused")

	logs, err := execute(t, "upload", "-s", ts.URL, "--no-download", "-o", out, a)
	if err != nil {
		t.Fatalf("upload failed: %v\n%s", err, logs)
	}
	if !strings.Contains(logs, ts.URL+"/download/") {
		t.Errorf("Expected the result URL in the output, got:\n%s", logs)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("Expected nothing downloaded, stat err = %v", err)
	}
}

func TestUpload_ProcessingFailure(t *testing.T) {
	ts := httptest.NewServer(devserver.New(devserver.Config{PendingPolls: 1, Fail: true}).Handler())
	defer ts.Close()

	a := writeFile(t, t.TempDir(), "a.txt", "alpha")

	_, err := execute(t, "upload", "--server", ts.URL, "--interval", "1ms", a)
	if err == nil || !strings.Contains(err.Error(), "failed") {
		t.Errorf("Expected a task failure, got %v", err)
	}
}

func TestUpload_MaxPolls(t *testing.T) {
	ts := httptest.NewServer(devserver.New(devserver.Config{PendingPolls: 10}).Handler())
	defer ts.Close()

	a := writeFile(t, t.TempDir(), "a.txt", "alpha")

	_, err := execute(t, "upload", "--server", ts.URL, "--interval", "1ms", "--max-polls", "3", a)
	if err == nil {
		t.Error("Expected an error when the poll limit is reached")
	}
}

func TestUpload_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no files", []string{"upload"}},
		{"missing file", []string{"upload", filepath.Join(t.TempDir(), "nope.txt")}},
		{"bad server", []string{"upload", "--server", "ftp://example.com", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

type fakeDownloader struct {
	taskID model.TaskID
	dir    string
	err    error
}

func (d *fakeDownloader) Download(ctx context.Context, taskID model.TaskID, dir string) (string, error) {
	d.taskID, d.dir = taskID, dir
	if d.err != nil {
		return "", d.err
	}
	return filepath.Join(dir, taskID.String()+".zip"), nil
}

func TestFetchResult(t *testing.T) {
	d := &fakeDownloader{}
	if err := fetchResult(context.Background(), d, "abc", "/tmp/out"); err != nil {
		t.Fatalf("fetchResult returned error: %v", err)
	}
	if d.taskID != "abc" || d.dir != "/tmp/out" {
		t.Errorf("Download called with %q, %q", d.taskID, d.dir)
	}

	boom := errors.New("disk full")
	err := fetchResult(context.Background(), &fakeDownloader{err: boom}, "abc", "/tmp/out")
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "abc") {
		t.Errorf("Expected wrapped download error naming the task, got %v", err)
	}
}
