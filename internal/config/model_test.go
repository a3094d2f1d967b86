package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/dgrun/internal/params"
	"github.com/vk/dgrun/internal/probe"
)

func TestSample_IsValid(t *testing.T) {
	m := Sample()
	require.NoError(t, m.Validate())

	assert.Equal(t, []string{
		"/usr/local/lib/vmd/scripts/python",
		"/usr/local/lib/vmd/plugins/noarch/python",
		"/usr/local/lib/vmd/plugins/noarch/tcl/drugui",
	}, m.SearchPath.Dirs())
	assert.Equal(t, []string{"IPRO", "IPAM", "ACAM", "ACET"}, m.Session.Probes.Labels())
	require.Len(t, m.Session.Parameters, 10)
	assert.Equal(t, "merge_radius=5.5", m.Session.Parameters[4].String())
}

func TestValidate(t *testing.T) {
	table, err := probe.NewTable(probe.Probe{Label: "IPRO", GridFile: "a.dx"})
	require.NoError(t, err)

	testCases := []struct {
		name    string
		model   *Model
		wantErr string
	}{
		{"no session", &Model{}, "no session defined"},
		{"no name", &Model{Session: &Session{Workdir: "/w", Probes: table}}, "name must not be empty"},
		{"no workdir", &Model{Session: &Session{Name: "dg", Probes: table}}, "workdir must not be empty"},
		{"no probes", &Model{Session: &Session{Name: "dg", Workdir: "/w"}}, "at least one probe"},
		{
			"bad group",
			&Model{Session: &Session{Name: "dg", Workdir: "/w", Probes: table, Parameters: []params.Group{{}}}},
			"parameters #1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorContains(t, tc.model.Validate(), tc.wantErr)
		})
	}
}
