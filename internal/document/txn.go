package document

// Txn is the scoped transaction every caller-visible mutating command runs
// inside. Mutation helpers append inverse closures to the journal; rolling
// back replays them in reverse, restoring the document exactly. The engine
// is single-threaded, so one Txn is open at a time per document.
type Txn struct {
	doc      *Document
	journal  []func()
	finished bool
}

// Begin opens a transaction on the document.
func (d *Document) Begin() *Txn {
	return &Txn{doc: d}
}

// Record appends an inverse closure that undoes the mutation just applied.
func (t *Txn) Record(undo func()) {
	t.journal = append(t.journal, undo)
}

// Savepoint marks the current journal position. Batched operations take one
// savepoint per item so a failed item unwinds alone.
func (t *Txn) Savepoint() int {
	return len(t.journal)
}

// RollbackTo unwinds the journal back to a savepoint, leaving earlier
// mutations applied.
func (t *Txn) RollbackTo(mark int) {
	for i := len(t.journal) - 1; i >= mark; i-- {
		t.journal[i]()
	}
	t.journal = t.journal[:mark]
}

// Rollback unwinds the whole transaction. Safe to call after Commit; it
// becomes a no-op.
func (t *Txn) Rollback() {
	if t.finished {
		return
	}
	t.RollbackTo(0)
	t.finished = true
}

// Commit discards the journal, making the transaction's mutations final.
func (t *Txn) Commit() {
	t.journal = nil
	t.finished = true
}
