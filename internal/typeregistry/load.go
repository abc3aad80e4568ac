package typeregistry

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/graphforge/internal/ctxlog"
	"github.com/vk/graphforge/internal/fsutil"
	"github.com/vk/graphforge/internal/typedesc"
)

// LoadManifestsRecursively walks typesPath for .hcl manifests and merges
// their declarations into the registry. Registration happens in two passes
// so manifest structs may reference each other and the builtins in any
// order: names first, then field/alias/conversion types.
func (r *Registry) LoadManifestsRecursively(ctx context.Context, typesPath string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry loading type manifests...", "path", typesPath)

	filePaths, err := fsutil.FindFilesByExtension(typesPath, ".hcl")
	if err != nil {
		logger.Error("Failed to walk types directory", "path", typesPath, "error", err)
		return err
	}
	if len(filePaths) == 0 {
		logger.Warn("No .hcl type manifests found in path", "path", typesPath)
		return nil
	}

	parser := hclparse.NewParser()
	var manifests []*manifestFile
	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return fmt.Errorf("failed to parse type manifest %s: %w", filePath, diags)
		}
		var manifest manifestFile
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &manifest); diags.HasErrors() {
			return fmt.Errorf("failed to decode type manifest %s: %w", filePath, diags)
		}
		manifests = append(manifests, &manifest)
		logger.Debug("Parsed type manifest.", "file", filePath)
	}

	// Pass one: names only, so later type strings can resolve forward
	// references.
	for _, m := range manifests {
		for _, s := range m.Structs {
			r.RegisterStruct(StructDef{Name: s.Name})
		}
		for _, e := range m.Enums {
			r.RegisterEnum(EnumDef{Name: e.Name, Values: e.Values})
		}
		for _, c := range m.Classes {
			r.RegisterClass(c.Name)
		}
		for _, i := range m.Interfaces {
			r.RegisterInterface(i.Name)
		}
	}

	// Pass two: everything that names a type via the descriptor grammar.
	descParser := typedesc.NewParser(r, r.Aliases())
	for _, m := range manifests {
		for _, s := range m.Structs {
			def := StructDef{Name: s.Name}
			for _, f := range s.Fields {
				fieldType, err := descParser.Parse(ctx, f.Type)
				if err != nil {
					return fmt.Errorf("struct %q field %q: %w", s.Name, f.Name, err)
				}
				def.Fields = append(def.Fields, Field{Name: f.Name, Type: fieldType})
			}
			r.RegisterStruct(def)
		}
		for _, a := range m.Aliases {
			aliased, err := descParser.Parse(ctx, a.Type)
			if err != nil {
				return fmt.Errorf("alias %q: %w", a.Name, err)
			}
			r.RegisterAlias(a.Name, aliased)
		}
		for _, c := range m.Conversions {
			from, err := descParser.Parse(ctx, c.From)
			if err != nil {
				return fmt.Errorf("conversion from %q: %w", c.From, err)
			}
			to, err := descParser.Parse(ctx, c.To)
			if err != nil {
				return fmt.Errorf("conversion to %q: %w", c.To, err)
			}
			r.RegisterConversion(from, to)
		}
	}

	logger.Info("Type registry loaded.", "manifests", len(manifests))
	return nil
}
