package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/graphforge/internal/ctxlog"
	"github.com/vk/graphforge/internal/document"
	"github.com/vk/graphforge/internal/fault"
	"github.com/vk/graphforge/internal/pintransform"
	"github.com/vk/graphforge/internal/resolve"
)

// PinPair names the two endpoints of a wiring command.
type PinPair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Connect wires one source pin to one target pin. If either token names a
// sub-pin of a splittable struct pin that has not been split yet, the pin
// is split first; a failure later in the same command rolls the split back
// with everything else.
func (e *Engine) Connect(ctx context.Context, scope GraphScope, source, target string) Result {
	graphs, err := e.candidates(scope)
	if err != nil {
		return failure("connect", err)
	}

	tx := e.doc.Begin()
	defer tx.Rollback()

	src, err := e.resolvePinSplitting(ctx, tx, graphs, source)
	if err != nil {
		return failure("connect", err)
	}
	dst, err := e.resolvePinSplitting(ctx, tx, graphs, target)
	if err != nil {
		return failure("connect", err)
	}
	if err := e.conns.Connect(ctx, tx, src, dst); err != nil {
		return failure("connect", err)
	}

	tx.Commit()
	e.markModified(ctx)
	return success(map[string]string{
		"source": pinRef(src),
		"target": pinRef(dst),
	})
}

// ConnectBatch wires several pairs in one command. Items are independent: a
// failing pair is unwound to its savepoint and reported, while the pairs
// around it still apply.
func (e *Engine) ConnectBatch(ctx context.Context, scope GraphScope, pairs []PinPair) Result {
	graphs, err := e.candidates(scope)
	if err != nil {
		return failure("connect batch", err)
	}

	tx := e.doc.Begin()
	defer tx.Rollback()

	batch := pintransform.NewBatchResult()
	applied := 0
	for _, pair := range pairs {
		label := pair.Source + " -> " + pair.Target
		mark := tx.Savepoint()
		if err := e.connectOne(ctx, tx, graphs, pair); err != nil {
			tx.RollbackTo(mark)
			batch.Add(label, pintransform.Failed, err.Error())
			continue
		}
		applied++
		batch.Add(label, pintransform.Applied, "")
	}

	tx.Commit()
	if applied > 0 {
		e.markModified(ctx)
	}
	ctxlog.FromContext(ctx).Info("Connected pins.", "requested", len(pairs), "applied", applied)
	return success(batch)
}

func (e *Engine) connectOne(ctx context.Context, tx *document.Txn, graphs []*document.Graph, pair PinPair) error {
	src, err := e.resolvePinSplitting(ctx, tx, graphs, pair.Source)
	if err != nil {
		return err
	}
	dst, err := e.resolvePinSplitting(ctx, tx, graphs, pair.Target)
	if err != nil {
		return err
	}
	return e.conns.Connect(ctx, tx, src, dst)
}

// Disconnect severs edges. A pair with both endpoints removes that single
// edge; a pair with an empty target breaks every edge on the source pin.
func (e *Engine) Disconnect(ctx context.Context, scope GraphScope, pairs []PinPair) Result {
	graphs, err := e.candidates(scope)
	if err != nil {
		return failure("disconnect", err)
	}

	tx := e.doc.Begin()
	defer tx.Rollback()

	batch := pintransform.NewBatchResult()
	severed := 0
	for _, pair := range pairs {
		mark := tx.Savepoint()
		n, outcome, err := e.disconnectOne(ctx, tx, graphs, pair)
		if err != nil {
			tx.RollbackTo(mark)
			batch.Add(pair.Source, pintransform.Failed, err.Error())
			continue
		}
		severed += n
		batch.Add(pair.Source, outcome, "")
	}

	tx.Commit()
	if severed > 0 {
		e.markModified(ctx)
	}
	ctxlog.FromContext(ctx).Info("Disconnected pins.", "requested", len(pairs), "severed", severed)
	return success(batch)
}

func (e *Engine) disconnectOne(ctx context.Context, tx *document.Txn, graphs []*document.Graph, pair PinPair) (int, pintransform.Outcome, error) {
	src, err := resolve.Pin(ctx, graphs, pair.Source)
	if err != nil {
		return 0, pintransform.Failed, err
	}
	if pair.Target == "" {
		n := e.conns.Disconnect(ctx, tx, src)
		if n == 0 {
			return 0, pintransform.Noop, nil
		}
		return n, pintransform.Applied, nil
	}
	dst, err := resolve.Pin(ctx, graphs, pair.Target)
	if err != nil {
		return 0, pintransform.Failed, err
	}
	if !e.conns.DisconnectPair(ctx, tx, src, dst) {
		return 0, pintransform.Noop, nil
	}
	return 1, pintransform.Applied, nil
}

// SplitPins expands each named struct pin into its member sub-pins. Pins
// that are already split report a no-op; unsplittable pins fail their item
// without touching the rest of the batch.
func (e *Engine) SplitPins(ctx context.Context, scope GraphScope, tokens []string) Result {
	return e.transformPins(ctx, scope, tokens, "split", e.pins.Split)
}

// RecombinePins collapses split pins back to their parents, restoring any
// connections the split had parked.
func (e *Engine) RecombinePins(ctx context.Context, scope GraphScope, tokens []string) Result {
	return e.transformPins(ctx, scope, tokens, "recombine", e.pins.Recombine)
}

func (e *Engine) transformPins(ctx context.Context, scope GraphScope, tokens []string, verb string, op func(context.Context, *document.Txn, *document.Pin) (pintransform.Outcome, error)) Result {
	graphs, err := e.candidates(scope)
	if err != nil {
		return failure(verb+" pins", err)
	}

	tx := e.doc.Begin()
	defer tx.Rollback()

	batch := pintransform.NewBatchResult()
	applied := 0
	for _, token := range tokens {
		mark := tx.Savepoint()
		pin, err := resolve.Pin(ctx, graphs, token)
		if err != nil {
			batch.Add(token, pintransform.Failed, err.Error())
			continue
		}
		outcome, err := op(ctx, tx, pin)
		if err != nil {
			tx.RollbackTo(mark)
			batch.Add(token, pintransform.Failed, err.Error())
			continue
		}
		if outcome == pintransform.Applied {
			applied++
		}
		batch.Add(token, outcome, "")
	}

	tx.Commit()
	if applied > 0 {
		e.markModified(ctx)
	}
	ctxlog.FromContext(ctx).Info("Transformed pins.", "op", verb, "requested", len(tokens), "applied", applied)
	return success(batch)
}

// resolvePinSplitting resolves a pin token, splitting a struct parent on
// demand when the token names a member of a pin that is not split yet.
func (e *Engine) resolvePinSplitting(ctx context.Context, tx *document.Txn, graphs []*document.Graph, token string) (*document.Pin, error) {
	pin, err := resolve.Pin(ctx, graphs, token)
	if err == nil {
		return pin, nil
	}
	if fault.KindOf(err) != fault.NotFound {
		return nil, err
	}

	nodeToken, pinName, ok := strings.Cut(token, ":")
	if !ok {
		return nil, err
	}
	idx := strings.LastIndex(pinName, "_")
	if idx <= 0 {
		return nil, err
	}
	parentName := pinName[:idx]

	n, nerr := resolve.Node(ctx, graphs, nodeToken)
	if nerr != nil {
		return nil, err
	}
	parent := n.FindPin(parentName, document.In)
	if parent == nil {
		parent = n.FindPin(parentName, document.Out)
	}
	if parent == nil || parent.IsSplit() {
		return nil, err
	}
	if _, serr := e.pins.Split(ctx, tx, parent); serr != nil {
		return nil, err
	}
	return resolve.PinOnNode(ctx, n, pinName)
}

func pinRef(p *document.Pin) string {
	return fmt.Sprintf("%s:%s", p.Node().Name(), p.Name())
}
