package link

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

type buildReport struct {
	res *Result
	err error
}

// replaceModule writes a module through a rename, so the watcher never sees
// a partially written file.
func replaceModule(t *testing.T, root, path, text string) {
	t.Helper()
	tmp := filepath.Join(root, "module.tmp")
	if err := os.WriteFile(tmp, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
}

func nextReport(t *testing.T, reports <-chan buildReport) *Result {
	t.Helper()
	select {
	case r := <-reports:
		if r.err != nil {
			t.Fatal(r.err)
		}
		return r.res
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a build")
	}
	return nil
}

func TestWatchRebuildsOnChange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "txlink.link")
	defer teardown()
	//
	delay := DebounceDelay
	DebounceDelay = 20 * time.Millisecond
	defer func() { DebounceDelay = delay }()
	root, m, want := setupRoot(t, "keep.txtar")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reports := make(chan buildReport, 10)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, root, m, func(res *Result, err error) {
			reports <- buildReport{res, err}
		})
	}()
	res := nextReport(t, reports)
	if res.Document.Text != want {
		t.Errorf("unexpected initial grammar:\n%s", res.Document.Text)
	}
	//
	path := m.ModulePath(root, "More.tx")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	changed := string(data) + "extend ActorItemExtension:\n    | Q\n;\nQ: 'q';\n"
	replaceModule(t, root, path, changed)
	res = nextReport(t, reports)
	out, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "ActorItemExtension:\n      Q\n;\n") {
		t.Errorf("expected Q to be injected, output is:\n%s", out)
	}
	//
	replaceModule(t, root, path, changed) // identical content
	select {
	case r := <-reports:
		t.Errorf("expected no build for unchanged modules, got %v / %v", r.res, r.err)
	case <-time.After(20 * DebounceDelay):
	}
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected Watch to return nil, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancellation")
	}
	if len(reports) != 0 {
		t.Errorf("expected exactly two builds, got %d more", len(reports))
	}
}
