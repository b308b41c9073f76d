/*
Package manifest holds the build configuration of the grammar linker.

A manifest names the modules directory, the output file, the fixed order of
modules and the registry of extendable rules. Default returns the manifest
for the "New Speech" grammar; Load reads a manifest from a YAML or HCL file,
with every setting not present in the file taken from Default:

    # txlink.yaml
    modules_dir: grammar
    output: speech.tx
    modules: [Core.tx, Actions.tx]
    extendable: [ActorItemExtension]
    remove_when_empty: ActorItemExtension

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// tracer traces with key 'txlink.manifest'.
func tracer() tracing.Trace {
	return tracing.Select("txlink.manifest")
}

// Manifest is the configuration of a grammar build.
type Manifest struct {
	ModulesDir      string   `yaml:"modules_dir" hcl:"modules_dir,optional"`             // relative to the build root
	Output          string   `yaml:"output" hcl:"output,optional"`                       // file name within ModulesDir
	Modules         []string `yaml:"modules" hcl:"modules,optional"`                     // module file names in dependency order
	Extendable      []string `yaml:"extendable" hcl:"extendable,optional"`               // rules open for extend blocks
	RemoveWhenEmpty string   `yaml:"remove_when_empty" hcl:"remove_when_empty,optional"` // extendable rule dropped if nobody extends it
	ModulePattern   string   `yaml:"module_pattern" hcl:"module_pattern,optional"`       // glob for detecting unlisted modules
}

// Default returns the manifest of the New Speech grammar.
func Default() *Manifest {
	return &Manifest{
		ModulesDir: "New Speech",
		Output:     "new_speech.tx",
		Modules: []string{
			"Core.tx",
			"Actions.tx",
			"Communication.tx",
			"Events.tx",
			"Scenarios.tx",
			"StateMachines.tx",
			"Timing.tx",
			"Lifecycle.tx",
			"Causality.tx",
			"Spatial.tx",
			"Quality.tx",
			"Testing.tx",
			"Simulation.tx",
		},
		Extendable: []string{
			"ExtensionElementContribution",
			"ActorItemExtension",
			"MovementStepExtension",
			"MovementDetailExtension",
		},
		RemoveWhenEmpty: "MovementDetailExtension",
		ModulePattern:   "*.tx",
	}
}

// Validate checks a manifest for consistency.
func (m *Manifest) Validate() error {
	if m.ModulesDir == "" {
		return errors.New("manifest: modules directory not set")
	}
	if m.Output == "" {
		return errors.New("manifest: output file not set")
	}
	if len(m.Modules) == 0 {
		return errors.New("manifest: no modules listed")
	}
	count := make(map[string]int, len(m.Modules))
	for _, name := range m.Modules {
		if name == "" {
			return errors.New("manifest: empty module name")
		}
		count[name]++
	}
	for name, n := range count {
		if n == 1 {
			delete(count, name)
		}
	}
	if len(count) > 0 {
		dups := maps.Keys(count)
		slices.Sort(dups)
		return fmt.Errorf("manifest: modules listed more than once: %v", dups)
	}
	if slices.Contains(m.Modules, m.Output) {
		return fmt.Errorf("manifest: output %s would overwrite a module", m.Output)
	}
	if m.RemoveWhenEmpty != "" && !slices.Contains(m.Extendable, m.RemoveWhenEmpty) {
		return fmt.Errorf("manifest: rule %s is not extendable and cannot be removed when empty",
			m.RemoveWhenEmpty)
	}
	return nil
}

// ModulesPath returns the modules directory for a build root.
func (m *Manifest) ModulesPath(root string) string {
	return filepath.Join(root, m.ModulesDir)
}

// ModulePath returns the path of a module file for a build root.
func (m *Manifest) ModulePath(root, module string) string {
	return filepath.Join(m.ModulesPath(root), module)
}

// OutputPath returns the path of the consolidated grammar for a build root.
func (m *Manifest) OutputPath(root string) string {
	return filepath.Join(m.ModulesPath(root), m.Output)
}

// Unlisted returns the files in the modules directory which match the module
// pattern but are neither listed as modules nor the output file. They are
// most probably modules somebody forgot to add to the manifest.
func (m *Manifest) Unlisted(root string) ([]string, error) {
	if m.ModulePattern == "" {
		return nil, nil
	}
	dir := m.ModulesPath(root)
	matches, err := doublestar.Glob(os.DirFS(dir), m.ModulePattern, doublestar.WithFilesOnly())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("manifest: cannot search %s: %w", dir, err)
	}
	var unlisted []string
	for _, match := range matches {
		name := filepath.FromSlash(match)
		if name == m.Output || slices.Contains(m.Modules, name) {
			continue
		}
		unlisted = append(unlisted, name)
	}
	slices.Sort(unlisted)
	return unlisted, nil
}

// ApplyGlobal overrides settings from the global configuration, if present.
// Recognized keys are `txlink.modules-dir` and `txlink.output`.
func (m *Manifest) ApplyGlobal() *Manifest {
	if dir := gconf.GetString("txlink.modules-dir"); dir != "" {
		tracer().Debugf("modules directory set by configuration: %s", dir)
		m.ModulesDir = dir
	}
	if out := gconf.GetString("txlink.output"); out != "" {
		tracer().Debugf("output set by configuration: %s", out)
		m.Output = out
	}
	return m
}
