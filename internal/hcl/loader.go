package hcl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/dgrun/internal/config"
	"github.com/vk/dgrun/internal/ctxlog"
	"github.com/vk/dgrun/internal/searchpath"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL run description loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found at the given paths. Search paths from
// all files are merged in file order; exactly one session block must exist
// across all files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(hclFiles) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %s", strings.Join(paths, ", "))
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	model := &config.Model{
		Source:     strings.Join(hclFiles, ", "),
		SearchPath: searchpath.New(),
	}
	parser := hclparse.NewParser()
	var sessions []*sessionBlock

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, dir := range root.SearchPaths {
			if !model.SearchPath.Append(dir) {
				logger.Debug("Search path already registered, skipping.", "dir", dir, "file", file)
			}
		}
		if root.PackagePath != nil && *root.PackagePath != "" {
			model.PackagePath = *root.PackagePath
		}
		sessions = append(sessions, root.Sessions...)
	}

	// The package directory goes after the plugin directories.
	model.SearchPath.Append(model.PackagePath)

	switch len(sessions) {
	case 0:
		return nil, errors.New("no session block defined")
	case 1:
	default:
		return nil, fmt.Errorf("expected exactly one session block, found %d", len(sessions))
	}

	model.Session, err = l.translateSession(ctx, sessions[0], parser.Files())
	if err != nil {
		return nil, err
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("HCL loading complete.",
		"session", model.Session.Name,
		"search_paths", model.SearchPath.Len(),
		"parameter_groups", len(model.Session.Parameters),
		"probes", model.Session.Probes.Len(),
	)
	return model, nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			err := filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && filepath.Ext(p) == ".hcl" {
					if _, wasSeen := seen[p]; !wasSeen {
						allFiles = append(allFiles, p)
						seen[p] = struct{}{}
					}
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else if filepath.Ext(path) == ".hcl" {
			if _, wasSeen := seen[path]; !wasSeen {
				allFiles = append(allFiles, path)
				seen[path] = struct{}{}
			}
		}
	}
	return allFiles, nil
}
