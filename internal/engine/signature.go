package engine

import (
	"context"

	"github.com/vk/graphforge/internal/ctxlog"
	"github.com/vk/graphforge/internal/document"
	"github.com/vk/graphforge/internal/fault"
	"github.com/vk/graphforge/internal/signature"
)

var paramDirections = map[string]document.ParamDirection{
	"input":  document.ParamInput,
	"out":    document.ParamOut,
	"return": document.ParamReturn,
}

func parseParamDirection(s string) (document.ParamDirection, error) {
	if s == "" {
		return document.ParamInput, nil
	}
	dir, ok := paramDirections[s]
	if !ok {
		return "", fault.New(fault.ParseError, "unknown parameter direction %q", s)
	}
	return dir, nil
}

// AddParameter adds a signature parameter to a function graph and mirrors
// it onto the Entry and Result nodes.
func (e *Engine) AddParameter(ctx context.Context, scope GraphScope, name, typeStr, dirStr string) Result {
	return e.signatureOp(ctx, scope, "add parameter", func(tx *document.Txn, g *document.Graph) (*signature.Listing, error) {
		dir, err := parseParamDirection(dirStr)
		if err != nil {
			return nil, err
		}
		return e.sigs.AddParameter(ctx, tx, g, name, typeStr, dir)
	})
}

// RemoveParameter deletes a parameter and its backing pins. Return
// parameters match by role, so any name removes the single return value.
func (e *Engine) RemoveParameter(ctx context.Context, scope GraphScope, name, dirStr string) Result {
	return e.signatureOp(ctx, scope, "remove parameter", func(tx *document.Txn, g *document.Graph) (*signature.Listing, error) {
		dir, err := parseParamDirection(dirStr)
		if err != nil {
			return nil, err
		}
		return e.sigs.RemoveParameter(ctx, tx, g, name, dir)
	})
}

// UpdateParameter applies a partial update to a parameter. Type and name
// changes are structural; flag and default changes are cosmetic.
func (e *Engine) UpdateParameter(ctx context.Context, scope GraphScope, name, dirStr string, update signature.ParamUpdate) Result {
	return e.signatureOp(ctx, scope, "update parameter", func(tx *document.Txn, g *document.Graph) (*signature.Listing, error) {
		dir, err := parseParamDirection(dirStr)
		if err != nil {
			return nil, err
		}
		return e.sigs.UpdateParameter(ctx, tx, g, name, dir, update)
	})
}

// AddLocal declares a local variable on a function graph.
func (e *Engine) AddLocal(ctx context.Context, scope GraphScope, name, typeStr, defaultStr string) Result {
	return e.signatureOp(ctx, scope, "add local", func(tx *document.Txn, g *document.Graph) (*signature.Listing, error) {
		return e.sigs.AddLocal(ctx, tx, g, name, typeStr, defaultStr)
	})
}

// RemoveLocal deletes a local variable by case-insensitive name.
func (e *Engine) RemoveLocal(ctx context.Context, scope GraphScope, name string) Result {
	return e.signatureOp(ctx, scope, "remove local", func(tx *document.Txn, g *document.Graph) (*signature.Listing, error) {
		return e.sigs.RemoveLocal(ctx, tx, g, name)
	})
}

// UpdateLocal applies a partial update to a local variable.
func (e *Engine) UpdateLocal(ctx context.Context, scope GraphScope, name string, update signature.LocalUpdate) Result {
	return e.signatureOp(ctx, scope, "update local", func(tx *document.Txn, g *document.Graph) (*signature.Listing, error) {
		return e.sigs.UpdateLocal(ctx, tx, g, name, update)
	})
}

// DescribeSignature lists the scoped graph's parameters and locals without
// mutating anything.
func (e *Engine) DescribeSignature(ctx context.Context, scope GraphScope) Result {
	g, err := e.resolveGraph(scope)
	if err != nil {
		return failure("describe signature", err)
	}
	return success(signature.Describe(g))
}

// signatureOp runs one signature mutation in a transaction and reports the
// fresh listing on success.
func (e *Engine) signatureOp(ctx context.Context, scope GraphScope, command string, op func(*document.Txn, *document.Graph) (*signature.Listing, error)) Result {
	g, err := e.resolveGraph(scope)
	if err != nil {
		return failure(command, err)
	}

	tx := e.doc.Begin()
	defer tx.Rollback()

	listing, err := op(tx, g)
	if err != nil {
		return failure(command, err)
	}

	tx.Commit()
	e.markModified(ctx)
	ctxlog.FromContext(ctx).Info("Changed signature.", "graph", g.Name(), "command", command, "recompile_needed", listing.RecompileNeeded)
	return success(listing)
}
