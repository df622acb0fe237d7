package journal

import (
	"github.com/qtumproject/neutron-core/address"
	"github.com/qtumproject/neutron-core/kvstore"
	"github.com/qtumproject/neutron-core/txmodel"
)

// Wrapper is the journal: a store handle plus a stack of checkpoints.
// Grounded on deltadb.h's DeltaDBWrapper. Composition over inheritance
// (§9 design note): Wrapper holds a kvstore.Store capability rather than
// embedding/extending a concrete database type.
type Wrapper struct {
	store kvstore.Store

	// checkpoints[0] is the immortal base checkpoint (spec I5).
	checkpoints []*Checkpoint

	hasNoAAL map[address.Address]struct{}

	initialCoins         txmodel.OutPoint
	initialCoinsReceiver address.Address
	hasInitialCoins      bool
}

// New constructs a Wrapper around store, seeded with a single checkpoint
// (deltadb.h's constructor: "checkpoint(); this will add the initial '0'
// checkpoint and set all pointers").
func New(store kvstore.Store) *Wrapper {
	w := &Wrapper{
		store:    store,
		hasNoAAL: make(map[address.Address]struct{}),
	}
	w.checkpoints = []*Checkpoint{newCheckpoint()}
	return w
}

// current is the top-of-stack checkpoint that all writes land in.
func (w *Wrapper) current() *Checkpoint {
	return w.checkpoints[len(w.checkpoints)-1]
}

// Depth returns the number of checkpoints currently on the stack.
func (w *Wrapper) Depth() int {
	return len(w.checkpoints)
}

// Checkpoint pushes a new empty checkpoint and returns its stack index.
func (w *Wrapper) Checkpoint() int {
	w.checkpoints = append(w.checkpoints, newCheckpoint())
	return len(w.checkpoints) - 1
}

// Revert pops the top checkpoint, unless only the immortal base remains
// (spec I5), in which case it is a no-op. Returns the resulting top index.
func (w *Wrapper) Revert() int {
	if len(w.checkpoints) == 1 {
		return 0
	}
	w.checkpoints = w.checkpoints[:len(w.checkpoints)-1]
	return len(w.checkpoints) - 1
}

// CondenseSingle merges the top checkpoint into its parent (writes and
// balances overwrite, spent-vins union) and pops the top.
func (w *Wrapper) CondenseSingle() {
	if len(w.checkpoints) == 1 {
		return
	}
	top := w.checkpoints[len(w.checkpoints)-1]
	parent := w.checkpoints[len(w.checkpoints)-2]
	mergeInto(parent, top)
	w.checkpoints = w.checkpoints[:len(w.checkpoints)-1]
}

// CondenseAll repeatedly condenses so only checkpoint 0 remains.
func (w *Wrapper) CondenseAll() {
	if len(w.checkpoints) == 1 {
		return
	}
	base := w.checkpoints[0]
	for _, cp := range w.checkpoints[1:] {
		mergeInto(base, cp)
	}
	w.checkpoints = w.checkpoints[:1]
}

func mergeInto(dst, src *Checkpoint) {
	for k, v := range src.deltas {
		dst.deltas[k] = v
	}
	for a, bal := range src.balances {
		dst.balances[a] = bal
	}
	for v := range src.spentVins {
		dst.spentVins[v] = struct{}{}
	}
}

// Commit condenses every checkpoint and atomically flushes the result to
// the store: non-empty values become writes, empty values become erases.
// On success, the journal resets to a single fresh checkpoint and the
// negative-AAL-cache is cleared (spec §4.3, §4.4). On a store-level
// failure, the journal is left untouched so the caller can retry or abort
// (spec §5 "Failure atomicity").
func (w *Wrapper) Commit() error {
	w.CondenseAll()
	base := w.checkpoints[0]

	ops := make([]kvstore.BatchOp, 0, len(base.deltas))
	for k, v := range base.deltas {
		if len(v) == 0 {
			ops = append(ops, kvstore.BatchOp{Key: []byte(k), Erase: true})
		} else {
			ops = append(ops, kvstore.BatchOp{Key: []byte(k), Value: v})
		}
	}

	if err := w.store.WriteBatch(ops); err != nil {
		return err
	}

	w.checkpoints = []*Checkpoint{newCheckpoint()}
	w.hasNoAAL = make(map[address.Address]struct{})
	return nil
}

// LatestModifiedState returns the top checkpoint, for debug reporting
// (deltadb.h's getLatestModifiedState).
func (w *Wrapper) LatestModifiedState() *Checkpoint {
	return w.current()
}

// rawWrite stores value at key in the top checkpoint. An empty value is a
// tombstone (spec I4).
func (w *Wrapper) rawWrite(key, value []byte) {
	w.current().deltas[string(key)] = value
}

// rawRead scans every checkpoint top-down for key, falling through to the
// store if none contain it.
//
// REDESIGN FLAG: the source's DeltaDBWrapper::Read loops `i` from
// checkpoints.size()-1 down to 0 but always tests `current->deltas`
// (the top checkpoint) regardless of `i`, so older checkpoints are never
// actually consulted — only the top one and the store. This reimplements
// the loop to genuinely scan checkpoints[i].deltas for each i, matching
// §4.3's documented read fall-through and letting committed-but-not-yet-
// condensed writes in older frames be found.
func (w *Wrapper) rawRead(key []byte) ([]byte, bool, error) {
	k := string(key)
	for i := len(w.checkpoints) - 1; i >= 0; i-- {
		if v, ok := w.checkpoints[i].deltas[k]; ok {
			return v, true, nil
		}
	}
	return w.store.Read(key)
}
