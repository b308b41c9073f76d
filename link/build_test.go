package link

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/txlink/manifest"
	"github.com/npillmayer/txlink/module"
)

// setupRoot writes the modules of a test archive into a fresh build root and
// returns the root together with a manifest listing the modules.
func setupRoot(t *testing.T, archive string) (string, *manifest.Manifest, string) {
	t.Helper()
	sources, want := loadArchive(t, archive)
	root := t.TempDir()
	m := manifest.Default()
	m.Modules = nil
	if err := os.MkdirAll(m.ModulesPath(root), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, src := range sources {
		m.Modules = append(m.Modules, src.Name)
		if err := os.WriteFile(m.ModulePath(root, src.Name), []byte(src.Text), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root, m, want
}

func TestBuild(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "txlink.link")
	defer teardown()
	//
	root, m, want := setupRoot(t, "keep.txtar")
	res, err := Build(root, m)
	if err != nil {
		t.Fatal(err)
	}
	if res.Path != filepath.Join(root, "New Speech", "new_speech.tx") {
		t.Errorf("unexpected output path %s", res.Path)
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != want {
		t.Errorf("unexpected output:\n%s", data)
	}
	if len(res.Unlisted) != 0 {
		t.Errorf("expected no unlisted modules, got %v", res.Unlisted)
	}
	entries, _ := os.ReadDir(m.ModulesPath(root))
	if len(entries) != len(m.Modules)+1 {
		t.Errorf("expected modules and output only, found %d files", len(entries))
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	root, m, _ := setupRoot(t, "remove.txtar")
	first, err := Build(root, m)
	if err != nil {
		t.Fatal(err)
	}
	firstData, _ := os.ReadFile(first.Path)
	second, err := Build(root, m)
	if err != nil {
		t.Fatal(err)
	}
	secondData, _ := os.ReadFile(second.Path)
	if string(firstData) != string(secondData) {
		t.Errorf("builds differ")
	}
	if first.Fingerprint != second.Fingerprint {
		t.Errorf("fingerprints differ: %s vs %s", first.Fingerprint, second.Fingerprint)
	}
	if first.BuildID == second.BuildID {
		t.Errorf("expected distinct build ids")
	}
	if err := os.WriteFile(m.ModulePath(root, m.Modules[0]), []byte("A: b;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	third, err := Prepare(root, m)
	if err != nil {
		t.Fatal(err)
	}
	if third.Fingerprint == first.Fingerprint {
		t.Errorf("expected fingerprint to change with module contents")
	}
}

func TestBuildMissingModule(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "txlink.link")
	defer teardown()
	//
	root, m, _ := setupRoot(t, "inline.txtar")
	m.Modules = append(m.Modules, "Missing.tx")
	_, err := Build(root, m)
	if !errors.Is(err, ErrModuleMissing) {
		t.Fatalf("expected ErrModuleMissing, got %v", err)
	}
	if _, err := os.Stat(m.OutputPath(root)); !os.IsNotExist(err) {
		t.Errorf("expected no output to be written")
	}
}

func TestBuildLeavesStaleOutputOnError(t *testing.T) {
	root, m, _ := setupRoot(t, "inline.txtar")
	stale := []byte("Stale: 'old';\n")
	if err := os.WriteFile(m.OutputPath(root), stale, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(m.ModulePath(root, "Actions.tx"), []byte("extend\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Build(root, m)
	var serr *module.SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("expected syntax error, got %v", err)
	}
	if serr.Module != "Actions.tx" || serr.Line != 1 {
		t.Errorf("unexpected error location %s:%d", serr.Module, serr.Line)
	}
	data, _ := os.ReadFile(m.OutputPath(root))
	if string(data) != string(stale) {
		t.Errorf("expected stale output to be untouched, got %q", data)
	}
}

func TestBuildReportsUnlisted(t *testing.T) {
	root, m, _ := setupRoot(t, "inline.txtar")
	if err := os.WriteFile(m.ModulePath(root, "Forgotten.tx"), []byte("F: 'f';\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := Build(root, m)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Unlisted) != 1 || res.Unlisted[0] != "Forgotten.tx" {
		t.Errorf("expected Forgotten.tx to be reported, got %v", res.Unlisted)
	}
}
