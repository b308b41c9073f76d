package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"
)

// Load reads a manifest from a YAML (.yaml, .yml) or HCL (.hcl) file.
// Settings missing from the file are taken from Default. The manifest is
// validated before it is returned.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m *Manifest
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		m, err = fromYAML(data)
	case ".hcl":
		m, err = fromHCL(path, data)
	default:
		return nil, fmt.Errorf("manifest %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	tracer().Infof("loaded manifest %s with %d modules", path, len(m.Modules))
	return m, nil
}

func fromYAML(data []byte) (*Manifest, error) {
	m := Default()
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return m, nil
}

func fromHCL(filename string, data []byte) (*Manifest, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	var parsed Manifest
	if diags = gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, diags
	}
	return overlay(Default(), &parsed), nil
}

// overlay copies every setting of o which is not a zero value onto m.
func overlay(m, o *Manifest) *Manifest {
	if o.ModulesDir != "" {
		m.ModulesDir = o.ModulesDir
	}
	if o.Output != "" {
		m.Output = o.Output
	}
	if o.Modules != nil {
		m.Modules = o.Modules
	}
	if o.Extendable != nil {
		m.Extendable = o.Extendable
	}
	if o.RemoveWhenEmpty != "" {
		m.RemoveWhenEmpty = o.RemoveWhenEmpty
	}
	if o.ModulePattern != "" {
		m.ModulePattern = o.ModulePattern
	}
	return m
}
