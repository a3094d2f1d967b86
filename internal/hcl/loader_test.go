package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/dgrun/internal/config"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func TestLoad_SampleMatchesBuiltin(t *testing.T) {
	path := filepath.Join("..", "..", "examples", "dg.hcl")

	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	want := config.Sample()
	assert.Equal(t, path, model.Source)
	assert.Equal(t, want.SearchPath.Dirs(), model.SearchPath.Dirs())
	assert.Equal(t, want.PackagePath, model.PackagePath)
	assert.Equal(t, want.Session.Name, model.Session.Name)
	assert.Equal(t, want.Session.Workdir, model.Session.Workdir)
	assert.Equal(t, want.Session.Probes.All(), model.Session.Probes.All())
	assert.Empty(t, model.Session.EvaluateLigand)

	require.Len(t, model.Session.Parameters, len(want.Session.Parameters))
	for i, g := range want.Session.Parameters {
		assert.Equal(t, g.String(), model.Session.Parameters[i].String(), "group #%d", i+1)
	}
}

func TestLoad_ParameterOrderFollowsSource(t *testing.T) {
	dir := writeFiles(t, map[string]string{"run.hcl": `
session "dg" {
  workdir = "/w"
  parameters {
    n_solutions  = 3
    max_charge   = 2
    merge_radius = 5.5
    delta_g      = -1
  }
  probe "IPRO" { grid = "a.dx" }
}
`})

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, model.Session.Parameters, 1)
	assert.Equal(t, "n_solutions=3, max_charge=2, merge_radius=5.5, delta_g=-1", model.Session.Parameters[0].String())
}

func TestLoad_MergesFilesInDirectory(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a_paths.hcl": `search_paths = ["/p1", "/p2"]`,
		"b_more.hcl":  `search_paths = ["/p2", "/p3"]
package_path = "/pkg"`,
		"c_session.hcl": `
session "run1" {
  workdir = "/w"
  evaluate_ligand = "ligand.pdb"
  probe "ACET" { grid = "acet.dx" }
  probe "IPRO" { grid = "ipro.dx" }
}`,
		"notes.txt": "ignored",
	})

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"/p1", "/p2", "/p3", "/pkg"}, model.SearchPath.Dirs())
	assert.Equal(t, "/pkg", model.PackagePath)
	assert.Equal(t, "ligand.pdb", model.Session.EvaluateLigand)
	assert.Equal(t, []string{"ACET", "IPRO"}, model.Session.Probes.Labels())
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "syntax error",
			content: `session "dg" {`,
			errMsg:  "failed to parse HCL file",
		},
		{
			name:    "no session",
			content: `search_paths = ["/a"]`,
			errMsg:  "no session block defined",
		},
		{
			name: "two sessions",
			content: `
session "a" {
  workdir = "/w"
  probe "IPRO" { grid = "a.dx" }
}
session "b" {
  workdir = "/w"
  probe "IPRO" { grid = "a.dx" }
}`,
			errMsg: "expected exactly one session block, found 2",
		},
		{
			name: "missing workdir",
			content: `
session "dg" {
  probe "IPRO" { grid = "a.dx" }
}`,
			errMsg: "failed to decode HCL file",
		},
		{
			name: "string parameter",
			content: `
session "dg" {
  workdir = "/w"
  parameters { temperature = "300" }
  probe "IPRO" { grid = "a.dx" }
}`,
			errMsg: `parameter "temperature": expected a number, got string`,
		},
		{
			name: "empty parameters block",
			content: `
session "dg" {
  workdir = "/w"
  parameters {}
  probe "IPRO" { grid = "a.dx" }
}`,
			errMsg: "parameter group must not be empty",
		},
		{
			name: "duplicate probe",
			content: `
session "dg" {
  workdir = "/w"
  probe "IPRO" { grid = "a.dx" }
  probe "IPRO" { grid = "b.dx" }
}`,
			errMsg: "duplicate probe label",
		},
		{
			name: "no probes",
			content: `
session "dg" {
  workdir = "/w"
}`,
			errMsg: "at least one probe is required",
		},
		{
			name: "unknown attribute",
			content: `
session "dg" {
  workdir = "/w"
  wrokdir = "/typo"
  probe "IPRO" { grid = "a.dx" }
}`,
			errMsg: "failed to decode HCL file",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeFiles(t, map[string]string{"run.hcl": tc.content})

			_, err := NewLoader().Load(context.Background(), dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestLoad_MissingPath(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.hcl"))
	assert.ErrorContains(t, err, "error accessing path")
}

func TestLoad_NoHCLFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{"readme.md": "#"})

	_, err := NewLoader().Load(context.Background(), dir)
	assert.ErrorContains(t, err, "no .hcl files found")
}

func TestLoad_DecimalLiteralsStayDecimal(t *testing.T) {
	testCases := []struct {
		name   string
		body   string
		want   string
		wantInt bool
	}{
		{"integral decimal", "merge_radius = 6.0", "merge_radius=6.0", false},
		{"exponent", "temperature = 3e2", "temperature=300.0", false},
		{"negative decimal", "delta_g = -1.0", "delta_g=-1.0", false},
		{"integer", "n_probes = 7", "n_probes=7", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeFiles(t, map[string]string{"run.hcl": `
session "dg" {
  workdir = "/w"
  parameters { ` + tc.body + ` }
  probe "IPRO" { grid = "a.dx" }
}
`})

			model, err := NewLoader().Load(context.Background(), dir)
			require.NoError(t, err)

			require.Len(t, model.Session.Parameters, 1)
			p := model.Session.Parameters[0][0]
			assert.Equal(t, tc.want, p.String())
			assert.Equal(t, tc.wantInt, p.IsInt())
		})
	}
}
