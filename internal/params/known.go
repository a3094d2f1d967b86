package params

// Spec documents a parameter the druggability engine understands. The engine
// owns validation; these entries only feed logs and the dry-run listing.
type Spec struct {
	Unit        string
	Description string
}

// Known lists the parameters accepted by DIA.set_parameters.
var Known = map[string]Spec{
	"temperature":  {"K", "productive simulation temperature"},
	"delta_g":      {"kcal/mol", "probe binding hotspots with lower values are evaluated"},
	"n_probes":     {"", "number of probes merged to determine achievable affinity of a site"},
	"min_n_probes": {"", "minimum number of probes merged for an acceptable solution"},
	"merge_radius": {"A", "distance within which two probes are merged"},
	"low_affinity": {"uM", "sites with affinity better than this value are reported"},
	"n_solutions":  {"", "number of drug-size solutions reported per binding site"},
	"max_charge":   {"", "maximum absolute total charge (occupancy weighted sum over probes)"},
	"n_charged":    {"", "maximum number of charged hotspots in a solution"},
	"n_frames":     {"", "number of frames; 1 when grids come from volmap (.dx)"},
}

// IsKnown reports whether name is a documented engine parameter.
func IsKnown(name string) bool {
	_, ok := Known[name]
	return ok
}
