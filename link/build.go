package link

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cnf/structhash"
	"github.com/google/uuid"
	"github.com/npillmayer/txlink/manifest"
)

// ErrModuleMissing is the cause of build errors for module files listed in
// the manifest but not present in the modules directory.
var ErrModuleMissing = errors.New("module file missing")

// Result is the outcome of a build.
type Result struct {
	Path        string    // path of the consolidated grammar
	BuildID     string    // unique per build, for correlating log output
	Fingerprint string    // hash over manifest and module contents
	Document    *Document // the linked grammar
	Unlisted    []string  // module files present but not listed in the manifest
}

// Build links the modules listed in m, found below root, and writes the
// consolidated grammar to the output path of m. It returns the result of the
// build, including the output path.
//
// An empty root denotes the current working directory, a nil manifest denotes
// manifest.Default(). If Build fails, no output is written and an existing
// output file is left untouched.
func Build(root string, m *manifest.Manifest) (*Result, error) {
	res, err := Prepare(root, m)
	if err != nil {
		return nil, err
	}
	if err := res.Write(); err != nil {
		return nil, err
	}
	tracer().Infof("[%s] wrote consolidated grammar to %s", res.BuildID, res.Path)
	return res, nil
}

// Prepare links the modules listed in m, like Build, but does not write the
// result.
func Prepare(root string, m *manifest.Manifest) (*Result, error) {
	if m == nil {
		m = manifest.Default()
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root = wd
	}
	reg, err := RegistryFor(m)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Path:    m.OutputPath(root),
		BuildID: uuid.New().String(),
	}
	tracer().Infof("[%s] linking %d modules from %s", res.BuildID, len(m.Modules), m.ModulesPath(root))
	sources, err := ReadSources(root, m)
	if err != nil {
		return nil, err
	}
	if res.Document, err = Link(sources, reg); err != nil {
		return nil, err
	}
	if res.Fingerprint, err = fingerprint(m, sources); err != nil {
		return nil, err
	}
	if res.Unlisted, err = m.Unlisted(root); err != nil {
		tracer().Errorf("[%s] %v", res.BuildID, err)
	}
	for _, name := range res.Unlisted {
		tracer().Infof("[%s] warning: %s is not listed in the manifest and not linked", res.BuildID, name)
	}
	return res, nil
}

// ReadSources reads the modules listed in m, in manifest order.
func ReadSources(root string, m *manifest.Manifest) ([]Source, error) {
	sources := make([]Source, 0, len(m.Modules))
	for _, name := range m.Modules {
		path := m.ModulePath(root, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrModuleMissing, path)
			}
			return nil, fmt.Errorf("cannot read module %s: %w", path, err)
		}
		sources = append(sources, Source{Name: name, Text: string(data)})
	}
	return sources, nil
}

// Write writes the consolidated grammar to the result's path. The text goes
// to a temporary file first, which then replaces the output file.
func (res *Result) Write() error {
	dir := filepath.Dir(res.Path)
	tmp, err := os.CreateTemp(dir, ".txlink-*.tmp")
	if err != nil {
		return fmt.Errorf("cannot create output: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after successful rename
	if _, err := tmp.WriteString(res.Document.Text); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot write output: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot write output: %w", err)
	}
	if err := os.Rename(tmp.Name(), res.Path); err != nil {
		return fmt.Errorf("cannot write output: %w", err)
	}
	return nil
}

type buildInput struct {
	Modules         []string
	Texts           []string
	Extendable      []string
	RemoveWhenEmpty string
}

func fingerprint(m *manifest.Manifest, sources []Source) (string, error) {
	in := buildInput{
		Modules:         make([]string, len(sources)),
		Texts:           make([]string, len(sources)),
		Extendable:      m.Extendable,
		RemoveWhenEmpty: m.RemoveWhenEmpty,
	}
	for i, src := range sources {
		in.Modules[i] = src.Name
		in.Texts[i] = src.Text
	}
	return structhash.Hash(in, 1)
}
