// Package params models the numeric simulation parameters handed to an
// analysis session. Values are kept as cty numbers so the literal a user
// wrote (an integer 300, a decimal 5.5) reaches the engine unmodified.
package params

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Parameter is a single named numeric value.
type Parameter struct {
	Name  string
	Value cty.Value
	// Float marks a value written as a decimal (6.0, 3e2). It is sent as a
	// float even when integral.
	Float bool
}

// Int builds an integer parameter.
func Int(name string, v int64) Parameter {
	return Parameter{Name: name, Value: cty.NumberIntVal(v)}
}

// Float builds a decimal parameter.
func Float(name string, v float64) Parameter {
	return Parameter{Name: name, Value: cty.NumberFloatVal(v), Float: true}
}

// Validate checks the parameter has a name and a known, non-null number.
func (p Parameter) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("parameter name must not be empty")
	}
	if p.Value.IsNull() || !p.Value.IsKnown() {
		return fmt.Errorf("parameter %q: value must be a known number", p.Name)
	}
	if !p.Value.Type().Equals(cty.Number) {
		return fmt.Errorf("parameter %q: expected a number, got %s", p.Name, p.Value.Type().FriendlyName())
	}
	return nil
}

// Literal renders the value as a numeric literal. Integers render without
// a fractional part or exponent. Decimals use the shortest form that
// round-trips and always carry a '.' or an exponent, so 6.0 stays "6.0".
func (p Parameter) Literal() string {
	bf := p.Value.AsBigFloat()
	if !p.Float && bf.IsInt() {
		return bf.Text('f', 0)
	}
	s := bf.Text('g', -1)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// IsInt reports whether the value is sent as an integer.
func (p Parameter) IsInt() bool {
	return !p.Float && p.Value.AsBigFloat().IsInt()
}

func (p Parameter) String() string {
	return p.Name + "=" + p.Literal()
}

// Group is the ordered set of parameters applied by one set_parameters call.
type Group []Parameter

// Validate checks every parameter in the group and rejects repeated names.
func (g Group) Validate() error {
	if len(g) == 0 {
		return fmt.Errorf("parameter group must not be empty")
	}
	seen := make(map[string]struct{}, len(g))
	for _, p := range g {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, ok := seen[p.Name]; ok {
			return fmt.Errorf("parameter %q set twice in one group", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// Names returns the parameter names in order.
func (g Group) Names() []string {
	names := make([]string, len(g))
	for i, p := range g {
		names[i] = p.Name
	}
	return names
}

func (g Group) String() string {
	parts := make([]string, len(g))
	for i, p := range g {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}
