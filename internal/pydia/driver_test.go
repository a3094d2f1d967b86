package pydia

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/dgrun/internal/params"
	"github.com/vk/dgrun/internal/probe"
	"github.com/vk/dgrun/internal/searchpath"
	"github.com/vk/dgrun/internal/session"
)

// fakeDruggability is a stand-in package that logs every DIA call as a JSON
// array, with the Python type of each parameter value.
const fakeDruggability = `import json, os, sys

_log = open(os.environ['FAKE_DIA_LOG'], 'a')
_root = os.environ['FAKE_DIA_ROOT']


def _write(*fields):
    _log.write(json.dumps(list(fields)) + '\n')
    _log.flush()


_write('path', [p for p in sys.path if p.startswith(_root)])


class DIA(object):
    def __init__(self, name, workdir=None, verbose='info'):
        _write('new', name, workdir, verbose)

    def set_parameters(self, **kwargs):
        _write('set_parameters', [[k, type(v).__name__, v] for k, v in kwargs.items()])

    def add_probe(self, probe_type, grid_file):
        _write('add_probe', probe_type, grid_file)

    def perform_analysis(self):
        if os.environ.get('FAKE_DIA_FAIL'):
            raise ValueError('no hotspots found')
        print('analysis chatter')
        _write('perform_analysis')

    def pickle(self):
        _write('pickle')

    def evaluate_ligand(self, path):
        _write('evaluate_ligand', path)
        return {'site': 1}
`

type pythonFixture struct {
	engine *Engine
	site   string
	vmd    string
	log    string
	out    *bytes.Buffer
}

// newPythonFixture installs the fake package under root/site. The engine's
// search path lists root/vmd then root/site; PYTHONPATH already holds
// root/site.
func newPythonFixture(t *testing.T, env ...string) *pythonFixture {
	t.Helper()
	python, err := exec.LookPath("python3")
	if err != nil {
		t.Skip("python3 not available")
	}

	root := t.TempDir()
	site := filepath.Join(root, "site")
	vmd := filepath.Join(root, "vmd")
	require.NoError(t, os.MkdirAll(filepath.Join(site, "druggability"), 0o755))
	require.NoError(t, os.MkdirAll(vmd, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(site, "druggability", "__init__.py"), []byte(fakeDruggability), 0o644))
	logPath := filepath.Join(root, "dia.log")

	out := &bytes.Buffer{}
	e := New(python, searchpath.New(vmd, site), out)
	e.Environ = append([]string{
		"PATH=" + os.Getenv("PATH"),
		"PYTHONPATH=" + site,
		"PYTHONDONTWRITEBYTECODE=1",
		"FAKE_DIA_LOG=" + logPath,
		"FAKE_DIA_ROOT=" + root,
	}, env...)
	return &pythonFixture{engine: e, site: site, vmd: vmd, log: logPath, out: out}
}

func (f *pythonFixture) calls(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(f.log)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func assertJSONLines(t *testing.T, want, got []string) {
	t.Helper()
	require.Len(t, got, len(want), "got %v", got)
	for i := range want {
		assert.JSONEq(t, want[i], got[i], "line %d", i+1)
	}
}

func TestDriver_FullSequence(t *testing.T) {
	f := newPythonFixture(t)
	ctx := context.Background()

	s, err := f.engine.NewSession(ctx, session.Options{Name: "dg", Workdir: "/work/dg", Verbose: "debug"})
	require.NoError(t, err)

	require.NoError(t, s.SetParameters(ctx, params.Group{params.Int("temperature", 300)}))
	require.NoError(t, s.SetParameters(ctx, params.Group{
		params.Float("merge_radius", 5.5),
		params.Int("delta_g", -1),
		params.Float("low_affinity", 10),
	}))
	require.NoError(t, s.AddProbe(ctx, probe.Probe{Label: "IPRO", GridFile: "/grids/dg_IPRO.dx"}))
	require.NoError(t, s.AddProbe(ctx, probe.Probe{Label: "ACET", GridFile: "/grids/dg_ACET.dx"}))
	require.NoError(t, s.PerformAnalysis(ctx))
	require.NoError(t, s.Pickle(ctx))
	result, err := s.EvaluateLigand(ctx, "ligand.pdb")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.Equal(t, "{'site': 1}", result)
	assert.Contains(t, f.out.String(), "analysis chatter")
	assertJSONLines(t, []string{
		`["path", ["` + f.site + `", "` + f.vmd + `"]]`,
		`["new", "dg", "/work/dg", "debug"]`,
		`["set_parameters", [["temperature", "int", 300]]]`,
		`["set_parameters", [["merge_radius", "float", 5.5], ["delta_g", "int", -1], ["low_affinity", "float", 10.0]]]`,
		`["add_probe", "IPRO", "/grids/dg_IPRO.dx"]`,
		`["add_probe", "ACET", "/grids/dg_ACET.dx"]`,
		`["perform_analysis"]`,
		`["pickle"]`,
		`["evaluate_ligand", "ligand.pdb"]`,
	}, f.calls(t))
}

func TestDriver_EmptyVerbosityPassedThrough(t *testing.T) {
	f := newPythonFixture(t)

	s, err := f.engine.NewSession(context.Background(), session.Options{Name: "dg", Workdir: "/work/dg"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	calls := f.calls(t)
	require.Len(t, calls, 2)
	assert.JSONEq(t, `["new", "dg", "/work/dg", ""]`, calls[1])
}

func TestDriver_ExceptionBecomesRemoteError(t *testing.T) {
	f := newPythonFixture(t, "FAKE_DIA_FAIL=1")
	ctx := context.Background()

	s, err := f.engine.NewSession(ctx, session.Options{Name: "dg", Workdir: "/work/dg", Verbose: "info"})
	require.NoError(t, err)
	defer s.Close()

	err = s.PerformAnalysis(ctx)
	var remote *RemoteError
	require.True(t, errors.As(err, &remote), "expected a RemoteError, got %v", err)
	assert.Equal(t, "perform_analysis", remote.Op)
	assert.Equal(t, "ValueError", remote.Kind)
	assert.Equal(t, "no hotspots found", remote.Message)

	require.NoError(t, s.Pickle(ctx))
}

func TestDriver_UnknownOperation(t *testing.T) {
	f := newPythonFixture(t)
	ctx := context.Background()

	s, err := f.engine.NewSession(ctx, session.Options{Name: "dg", Workdir: "/work/dg", Verbose: "info"})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.(*Session).call(ctx, request{Op: "bogus"})
	var remote *RemoteError
	require.True(t, errors.As(err, &remote), "expected a RemoteError, got %v", err)
	assert.Equal(t, "ValueError", remote.Kind)
	assert.Equal(t, "unknown op: bogus", remote.Message)
}

func TestDriver_LocateAppendsSearchPathAfterInherited(t *testing.T) {
	f := newPythonFixture(t)

	require.NoError(t, f.engine.Locate(context.Background()))

	assertJSONLines(t, []string{
		`["path", ["` + f.site + `", "` + f.vmd + `"]]`,
	}, f.calls(t))
}

func TestDriver_LocateMissingPackage(t *testing.T) {
	f := newPythonFixture(t)
	f.engine.SearchPath = searchpath.New(f.vmd)
	f.engine.Environ = []string{"PATH=" + os.Getenv("PATH")}

	err := f.engine.Locate(context.Background())
	require.ErrorIs(t, err, session.ErrPackageNotFound)
	assert.Contains(t, err.Error(), "druggability")
}
