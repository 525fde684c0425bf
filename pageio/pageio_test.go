package pageio

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/textmark/dom"
)

const (
	pageV1 = "<html><body><p>version one</p></body></html>"
	pageV2 = "<html><body><p>version two</p></body></html>"
)

func writePage(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing page fixture: %v", err)
	}
	return path
}

func TestOpenParsesDocument(t *testing.T) {
	path := writePage(t, t.TempDir(), "page.html", pageV1)
	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if got := dom.Text(doc.Body()); !strings.Contains(got, "version one") {
		t.Errorf("document text = %q, want it to contain %q", got, "version one")
	}
}

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.html")
	_, err := Open(path)
	var lerr *LoadError
	if !errors.As(err, &lerr) {
		t.Fatalf("Open(missing) error = %v, want *LoadError", err)
	}
	if lerr.Path != path {
		t.Errorf("Path = %q, want %q", lerr.Path, path)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error %v does not wrap fs.ErrNotExist", err)
	}
}

type reloadResult struct {
	doc *dom.Document
	err error
}

func watchFile(t *testing.T, path string) (*Watcher, chan reloadResult) {
	t.Helper()
	results := make(chan reloadResult, 4)
	w, err := NewWatcher(path, func(doc *dom.Document, err error) {
		results <- reloadResult{doc, err}
	}, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher error: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	t.Cleanup(func() { w.Stop() })
	return w, results
}

func waitReload(t *testing.T, ch <-chan reloadResult) reloadResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
		return reloadResult{}
	}
}

func wantNoReload(t *testing.T, ch <-chan reloadResult, d time.Duration) {
	t.Helper()
	select {
	case r := <-ch:
		t.Fatalf("unexpected reload (err %v)", r.err)
	case <-time.After(d):
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writePage(t, dir, "page.html", pageV1)
	_, results := watchFile(t, path)

	writePage(t, dir, "page.html", pageV2)

	r := waitReload(t, results)
	if r.err != nil {
		t.Fatalf("reload error: %v", r.err)
	}
	if got := dom.Text(r.doc.Body()); !strings.Contains(got, "version two") {
		t.Errorf("reloaded text = %q, want it to contain %q", got, "version two")
	}
}

func TestWatcherReloadsOnAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := writePage(t, dir, "page.html", pageV1)
	_, results := watchFile(t, path)

	// Editors often save by writing a scratch file and renaming it
	// over the target.
	tmp := writePage(t, dir, "page.html.tmp", pageV2)
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("rename error: %v", err)
	}

	r := waitReload(t, results)
	if r.err != nil {
		t.Fatalf("reload error: %v", r.err)
	}
	if got := dom.Text(r.doc.Body()); !strings.Contains(got, "version two") {
		t.Errorf("reloaded text = %q, want it to contain %q", got, "version two")
	}
}

func TestWatcherReportsVanishedFile(t *testing.T) {
	dir := t.TempDir()
	path := writePage(t, dir, "page.html", pageV1)
	_, results := watchFile(t, path)

	if err := os.Rename(path, path+".bak"); err != nil {
		t.Fatalf("rename error: %v", err)
	}

	r := waitReload(t, results)
	if r.doc != nil {
		t.Error("reload of vanished file returned a document")
	}
	var lerr *LoadError
	if !errors.As(r.err, &lerr) {
		t.Errorf("reload error = %v, want *LoadError", r.err)
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := writePage(t, dir, "page.html", pageV1)
	_, results := watchFile(t, path)

	writePage(t, dir, "other.html", pageV2)

	wantNoReload(t, results, 200*time.Millisecond)
}

func TestWatcherStopSilences(t *testing.T) {
	dir := t.TempDir()
	path := writePage(t, dir, "page.html", pageV1)
	w, results := watchFile(t, path)

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	writePage(t, dir, "page.html", pageV2)

	wantNoReload(t, results, 200*time.Millisecond)
}

func TestWatcherStartStopIdempotent(t *testing.T) {
	path := writePage(t, t.TempDir(), "page.html", pageV1)
	w, err := NewWatcher(path, nil)
	if err != nil {
		t.Fatalf("NewWatcher error: %v", err)
	}
	if !filepath.IsAbs(w.Path()) {
		t.Errorf("Path() = %q, want absolute", w.Path())
	}
	if w.IsRunning() {
		t.Error("IsRunning = true before Start")
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Stop before Start = %v, want nil", err)
	}

	if err := w.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Errorf("second Start = %v, want nil", err)
	}
	if !w.IsRunning() {
		t.Error("IsRunning = false after Start")
	}

	if err := w.Stop(); err != nil {
		t.Errorf("Stop error: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop = %v, want nil", err)
	}
	if w.IsRunning() {
		t.Error("IsRunning = true after Stop")
	}
}
