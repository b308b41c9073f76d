package link

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/npillmayer/txlink/manifest"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// DebounceDelay is the time Watch collects module changes before rebuilding.
var DebounceDelay = 300 * time.Millisecond

// Watch builds the grammar and rebuilds it whenever a listed module changes,
// until ctx is cancelled. Every build attempt is reported, except rebuilds
// which would not change the output. Builds run one at a time on the calling
// goroutine.
func Watch(ctx context.Context, root string, m *manifest.Manifest, report func(*Result, error)) error {
	if m == nil {
		m = manifest.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(m.ModulesPath(root)); err != nil {
		return err
	}
	var last string
	rebuild := func() {
		res, err := Prepare(root, m)
		if err != nil {
			report(nil, err)
			return
		}
		if res.Fingerprint == last {
			tracer().Debugf("[%s] modules unchanged, output not written", res.BuildID)
			return
		}
		if err := res.Write(); err != nil {
			report(nil, err)
			return
		}
		last = res.Fingerprint
		report(res, nil)
	}
	rebuild()
	ticker := time.NewTicker(DebounceDelay)
	defer ticker.Stop()
	pending := make(map[string]fsnotify.Op)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(event.Name)
			if slices.Contains(m.Modules, name) {
				pending[name] |= event.Op
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			tracer().Errorf("watcher error: %v", err)
		case <-ticker.C:
			if len(pending) == 0 {
				continue
			}
			changed := maps.Keys(pending)
			slices.Sort(changed)
			tracer().Infof("modules changed: %v", changed)
			pending = make(map[string]fsnotify.Op)
			rebuild()
		}
	}
}
