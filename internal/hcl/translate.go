package hcl

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/dgrun/internal/config"
	"github.com/vk/dgrun/internal/ctxlog"
	"github.com/vk/dgrun/internal/params"
	"github.com/vk/dgrun/internal/probe"
	"github.com/zclconf/go-cty/cty"
)

// translateSession converts the HCL session schema into the agnostic model.
// files holds the parsed sources so literal text can be inspected.
func (l *Loader) translateSession(ctx context.Context, s *sessionBlock, files map[string]*hcl.File) (*config.Session, error) {
	logger := ctxlog.FromContext(ctx).With("session", s.Name)
	logger.Debug("Translating HCL session to internal config model.")

	out := &config.Session{
		Name:    s.Name,
		Workdir: s.Workdir,
	}
	if s.EvaluateLigand != nil {
		out.EvaluateLigand = *s.EvaluateLigand
	}

	for i, block := range s.Parameters {
		group, err := translateParameters(block, files)
		if err != nil {
			return nil, fmt.Errorf("session %q, parameters #%d: %w", s.Name, i+1, err)
		}
		logger.Debug("Parameter group translated.", "index", i, "parameters", group.String())
		out.Parameters = append(out.Parameters, group)
	}

	probes := make([]probe.Probe, 0, len(s.Probes))
	for _, p := range s.Probes {
		probes = append(probes, probe.Probe{Label: p.Label, GridFile: p.Grid})
	}
	table, err := probe.NewTable(probes...)
	if err != nil {
		return nil, fmt.Errorf("session %q: %w", s.Name, err)
	}
	out.Probes = table
	logger.Debug("Probes translated.", "labels", table.Labels())

	return out, nil
}

// translateParameters evaluates a parameters block. Attributes are returned
// in the order they appear in the source file.
func translateParameters(block *parametersBlock, files map[string]*hcl.File) (params.Group, error) {
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	ordered := make([]*hcl.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		ordered = append(ordered, attr)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Range.Start.Byte < ordered[j].Range.Start.Byte
	})

	group := make(params.Group, 0, len(ordered))
	for _, attr := range ordered {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parameter %q: %w", attr.Name, diags)
		}
		if !val.Type().Equals(cty.Number) {
			return nil, fmt.Errorf("parameter %q: expected a number, got %s", attr.Name, val.Type().FriendlyName())
		}
		group = append(group, params.Parameter{
			Name:  attr.Name,
			Value: val,
			Float: isDecimal(files, attr.Expr.Range()),
		})
	}

	if err := group.Validate(); err != nil {
		return nil, err
	}
	return group, nil
}

// isDecimal reports whether the expression's source text is written as a
// decimal, with a fractional part or an exponent.
func isDecimal(files map[string]*hcl.File, rng hcl.Range) bool {
	f, ok := files[rng.Filename]
	if !ok {
		return false
	}
	return bytes.ContainsAny(rng.SliceBytes(f.Bytes), ".eE")
}
