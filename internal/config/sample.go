package config

import (
	"github.com/vk/dgrun/internal/params"
	"github.com/vk/dgrun/internal/probe"
	"github.com/vk/dgrun/internal/searchpath"
)

// SampleSource is the Source of the built-in sample run.
const SampleSource = "the built-in sample run (set DGRUN_RUN_FILE)"

const (
	sampleSearchPath  = "/usr/local/lib/vmd/scripts/python:/usr/local/lib/vmd/plugins/noarch/python"
	samplePackagePath = "/usr/local/lib/vmd/plugins/noarch/tcl/drugui"
	sampleDir         = "/home/anilee/area/zsrc/t-drug/t-mdm2/zdrg1/al"
)

// Sample returns the MDM2 sample run shipped with DruGUI: four probe grids
// from a volmap calculation and the recommended analysis parameters.
func Sample() *Model {
	sp := searchpath.New()
	sp.AppendList(sampleSearchPath)
	sp.Append(samplePackagePath)

	table, err := probe.NewTable(
		probe.Probe{Label: "IPRO", GridFile: sampleDir + "/dg_IPRO.dx"},
		probe.Probe{Label: "IPAM", GridFile: sampleDir + "/dg_IPAM.dx"},
		probe.Probe{Label: "ACAM", GridFile: sampleDir + "/dg_ACAM.dx"},
		probe.Probe{Label: "ACET", GridFile: sampleDir + "/dg_ACET.dx"},
	)
	if err != nil {
		panic(err)
	}

	return &Model{
		Source:      SampleSource,
		SearchPath:  sp,
		PackagePath: samplePackagePath,
		Session: &Session{
			Name:    "dg",
			Workdir: sampleDir + "/dg",
			Parameters: []params.Group{
				{params.Int("temperature", 300)},
				{params.Int("delta_g", -1)},
				{params.Int("n_probes", 7)},
				{params.Int("min_n_probes", 6)},
				{params.Float("merge_radius", 5.5)},
				{params.Int("low_affinity", 10)},
				{params.Int("n_solutions", 3)},
				{params.Int("max_charge", 2)},
				{params.Int("n_charged", 3)},
				{params.Int("n_frames", 1)},
			},
			Probes: table,
		},
	}
}
