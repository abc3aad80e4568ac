package signature

import (
	"fmt"
	"strings"

	"github.com/vk/graphforge/internal/document"
	"github.com/vk/graphforge/internal/typedesc"
)

// ParameterView is the serialized form of one parameter.
type ParameterView struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Direction string `json:"direction"`
	Default   string `json:"default,omitempty"`
	Const     bool   `json:"const,omitempty"`
	Reference bool   `json:"reference,omitempty"`
	Editable  bool   `json:"editable,omitempty"`
}

// LocalView is the serialized form of one local variable.
type LocalView struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Default   string `json:"default,omitempty"`
	Const     bool   `json:"const,omitempty"`
	Reference bool   `json:"reference,omitempty"`
	Editable  bool   `json:"editable,omitempty"`
}

// Listing is the full signature state returned by every mutating operation.
// RecompileNeeded tells the caller whether the change was structural; the
// caller decides when to actually trigger recompilation.
type Listing struct {
	Graph           string          `json:"graph"`
	Scope           string          `json:"scope"`
	Parameters      []ParameterView `json:"parameters"`
	Locals          []LocalView     `json:"locals"`
	RecompileNeeded bool            `json:"recompile_needed"`
}

// buildListing serializes the graph's current signature.
func buildListing(g *document.Graph, structural bool) *Listing {
	sig := g.Signature()
	listing := &Listing{
		Graph:           g.Name(),
		Scope:           g.Scope(),
		Parameters:      make([]ParameterView, 0, len(sig.Parameters())),
		Locals:          make([]LocalView, 0, len(sig.Locals())),
		RecompileNeeded: structural,
	}
	for _, p := range sig.Parameters() {
		listing.Parameters = append(listing.Parameters, ParameterView{
			Name:      p.Name,
			Type:      p.Type.String(),
			Direction: string(p.Dir),
			Default:   typedesc.RenderValue(p.Default),
			Const:     p.Flags.Const,
			Reference: p.Flags.Reference,
			Editable:  p.Flags.Editable,
		})
	}
	for _, l := range sig.Locals() {
		listing.Locals = append(listing.Locals, LocalView{
			Name:      l.Name,
			Type:      l.Type.String(),
			Default:   typedesc.RenderValue(l.Default),
			Const:     l.Flags.Const,
			Reference: l.Flags.Reference,
			Editable:  l.Flags.Editable,
		})
	}
	return listing
}

// Describe returns the current signature listing without mutating anything.
func Describe(g *document.Graph) *Listing {
	return buildListing(g, false)
}

// listParameters renders the parameter list for NotFound diagnostics.
func listParameters(g *document.Graph) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "parameters on graph %s:\n", g.Name())
	for _, p := range g.Signature().Parameters() {
		fmt.Fprintf(&sb, "  [%s] %s: %s\n", p.Dir, p.Name, p.Type)
	}
	return sb.String()
}

// listLocals renders the local-variable list for NotFound diagnostics.
func listLocals(g *document.Graph) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "local variables on graph %s:\n", g.Name())
	for _, l := range g.Signature().Locals() {
		fmt.Fprintf(&sb, "  %s: %s\n", l.Name, l.Type)
	}
	return sb.String()
}
