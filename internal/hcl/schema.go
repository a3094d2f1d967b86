package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is the set of top-level attributes and blocks accepted in any file.
type fileRoot struct {
	SearchPaths []string        `hcl:"search_paths,optional"`
	PackagePath *string         `hcl:"package_path,optional"`
	Sessions    []*sessionBlock `hcl:"session,block"`
}

// sessionBlock is a `session "<name>" { ... }` block.
type sessionBlock struct {
	Name           string             `hcl:"name,label"`
	Workdir        string             `hcl:"workdir"`
	EvaluateLigand *string            `hcl:"evaluate_ligand,optional"`
	Parameters     []*parametersBlock `hcl:"parameters,block"`
	Probes         []*probeBlock      `hcl:"probe,block"`
}

// parametersBlock holds one set_parameters call. Its attributes are read in
// source order, so the body is kept raw.
type parametersBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// probeBlock is a `probe "<label>" { grid = "..." }` block.
type probeBlock struct {
	Label string `hcl:"label,label"`
	Grid  string `hcl:"grid"`
}
