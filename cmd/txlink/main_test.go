package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/txlink/engine"
	"github.com/npillmayer/txlink/link"
	"github.com/npillmayer/txlink/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const coreModule = `module Core

Model: elements*=Element;
Element:
    Actor
    | ActorItemExtension
    | MovementDetailExtension
;
ActorItemExtension:
;
MovementDetailExtension:
;
Actor: 'actor' name=ID;
`

const actionsModule = `module Actions

extend ActorItemExtension:
    | 'walks' target=ID
    | 'waits'
;
extend Gesture: 'nods';
`

const testManifest = `modules_dir: grammar
output: linked.tx
modules:
  - Core.tx
  - Actions.tx
`

func setupRoot(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "grammar")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Core.tx"), []byte(coreModule), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Actions.tx"), []byte(actionsModule), 0o644))
	mf := filepath.Join(root, "txlink.yaml")
	require.NoError(t, os.WriteFile(mf, []byte(testManifest), 0o644))
	return root, mf
}

func TestBuildCommand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "txlink.cli")
	defer teardown()
	//
	root, mf := setupRoot(t)
	out := &bytes.Buffer{}
	cmd := rootCmd(&options{})
	cmd.SetOut(out)
	cmd.SetArgs([]string{root, "--manifest", mf})
	require.NoError(t, cmd.Execute())
	path := filepath.Join(root, "grammar", "linked.tx")
	assert.Equal(t, "Wrote consolidated grammar to "+path+"\n", out.String())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	grammar := string(data)
	assert.Contains(t, grammar, "ActorItemExtension:\n      'walks' target=ID\n    | 'waits'\n;\n")
	assert.NotContains(t, grammar, "MovementDetailExtension")
	assert.NotContains(t, grammar, "module ")
	assert.NotContains(t, grammar, "extend ")
}

func TestBuildCommandMissingModule(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "txlink.cli")
	defer teardown()
	//
	root, mf := setupRoot(t)
	require.NoError(t, os.Remove(filepath.Join(root, "grammar", "Actions.tx")))
	cmd := rootCmd(&options{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{root, "--manifest", mf})
	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, link.ErrModuleMissing)
	_, err = os.Stat(filepath.Join(root, "grammar", "linked.tx"))
	assert.True(t, os.IsNotExist(err), "no output expected")
}

func TestCheckCommandArgs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "txlink.cli")
	defer teardown()
	//
	cmd := rootCmd(&options{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"check"})
	assert.Error(t, cmd.Execute())
}

// recorder is an engine runner remembering the arguments of every call.
func recorder(calls *[][]string, err error) engine.Runner {
	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		*calls = append(*calls, args)
		return nil, err
	}
}

func TestBuildCommandVerify(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "txlink.cli")
	defer teardown()
	//
	root, mf := setupRoot(t)
	var calls [][]string
	cmd := rootCmd(&options{run: recorder(&calls, nil)})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{root, "--manifest", mf, "--verify"})
	require.NoError(t, cmd.Execute())
	path := filepath.Join(root, "grammar", "linked.tx")
	require.Len(t, calls, 1)
	require.True(t, len(calls[0]) > 2)
	assert.Equal(t, path, calls[0][2], "verify compiles the output just written")
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestBuildCommandVerifyFails(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "txlink.cli")
	defer teardown()
	//
	root, mf := setupRoot(t)
	var calls [][]string
	cmd := rootCmd(&options{run: recorder(&calls, errors.New("exit status 1"))})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{root, "--manifest", mf, "--verify"})
	err := cmd.Execute()
	require.Error(t, err)
	var engineErr *engine.Error
	assert.ErrorAs(t, err, &engineErr)
}

func TestCheckCommand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "txlink.cli")
	defer teardown()
	//
	var calls [][]string
	cmd := rootCmd(&options{run: recorder(&calls, nil)})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"check", "g.tx", "--ignore-case"})
	require.NoError(t, cmd.Execute())
	cmd = rootCmd(&options{run: recorder(&calls, nil)})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"check", "g.tx", "demo.avalanche"})
	require.NoError(t, cmd.Execute())
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"g.tx", "1", "1", "1", "0"}, calls[0][2:])
	assert.Equal(t, []string{"g.tx", "0", "1", "1", "0", "demo.avalanche"}, calls[1][2:])
}

func newTestInspector(t *testing.T) (*Inspector, *bytes.Buffer) {
	t.Helper()
	root, mf := setupRoot(t)
	m, err := manifest.Load(mf)
	require.NoError(t, err)
	res, err := link.Prepare(root, m)
	require.NoError(t, err)
	reg, err := link.RegistryFor(m)
	require.NoError(t, err)
	out := &bytes.Buffer{}
	insp, err := NewInspector(res, reg, out)
	require.NoError(t, err)
	return insp, out
}

func TestInspectorRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "txlink.cli")
	defer teardown()
	//
	insp, out := newTestInspector(t)
	quit, err := insp.Eval("rules")
	require.NoError(t, err)
	assert.False(t, quit)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	// registry is listed in sorted order
	assert.Regexp(t, `^ActorItemExtension\s+2 alternative\(s\)$`, lines[0])
	assert.Regexp(t, `^ExtensionElementContribution\s+not defined$`, lines[1])
	assert.Regexp(t, `^MovementDetailExtension\s+removed$`, lines[2])
	assert.Regexp(t, `^MovementStepExtension\s+not defined$`, lines[3])
}

func TestInspectorShowAndContrib(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "txlink.cli")
	defer teardown()
	//
	insp, out := newTestInspector(t)
	_, err := insp.Eval("show Actor")
	require.NoError(t, err)
	assert.Equal(t, "Actor: 'actor' name=ID;\n", out.String())
	out.Reset()
	_, err = insp.Eval("contrib ActorItemExtension")
	require.NoError(t, err)
	assert.Equal(t, "Actions.tx:\n    | 'walks' target=ID\n    | 'waits'\n", out.String())
	_, err = insp.Eval("show Nothing")
	assert.Error(t, err)
	_, err = insp.Eval("contrib")
	assert.Error(t, err)
}

func TestInspectorUnregisteredAndQuit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "txlink.cli")
	defer teardown()
	//
	insp, out := newTestInspector(t)
	_, err := insp.Eval("unregistered")
	require.NoError(t, err)
	assert.Equal(t, "Gesture\n", out.String())
	_, err = insp.Eval("frobnicate")
	assert.Error(t, err)
	quit, err := insp.Eval("quit")
	require.NoError(t, err)
	assert.True(t, quit)
}
