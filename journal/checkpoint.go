// Package journal is the C3 checkpoint journal, C4 AAL ledger, C5 transfer
// engine, and C6 condensing-tx builder combined into one package: all four
// share one mutable checkpoint stack and one negative-AAL-cache, exactly as
// the original DeltaDBWrapper is a single C++ class (see DESIGN.md for why
// these were not split across package boundaries).
//
// Grounded on original_source/src/qtum/deltadb.h's DeltaCheckpoint and
// DeltaDBWrapper.
package journal

import (
	"encoding/hex"

	"github.com/qtumproject/neutron-core/address"
	"github.com/qtumproject/neutron-core/txmodel"
)

// Checkpoint is one stack frame of uncommitted changes: pending key/value
// writes, modified account balances, and the set of shadow UTXOs that must
// be consumed by the eventual condensing transaction.
//
// Grounded on DeltaCheckpoint in deltadb.h. balances and spentVins use
// Go's built-in map/set idiom in place of std::map/std::set; deltas keys
// are stored as strings since Go maps cannot be keyed on []byte directly.
type Checkpoint struct {
	deltas    map[string][]byte
	balances  map[address.Address]uint64
	spentVins map[txmodel.OutPoint]struct{}
}

func newCheckpoint() *Checkpoint {
	return &Checkpoint{
		deltas:    make(map[string][]byte),
		balances:  make(map[address.Address]uint64),
		spentVins: make(map[txmodel.OutPoint]struct{}),
	}
}

func isPrintableASCII(b []byte) bool {
	for _, c := range b {
		if c < 32 || c > 127 {
			return false
		}
	}
	return true
}

// Report renders the checkpoint for human-readable debug output (used by
// cmd/neutron-inspect, never for consensus), mirroring DeltaCheckpoint::
// toJSON's ASCII-vs-hex heuristic for keys and values: printable strings
// render as-is, anything else renders as hex.
func (c *Checkpoint) Report() map[string]any {
	deltas := make(map[string]string, len(c.deltas))
	for k, v := range c.deltas {
		kOut := k
		if !isPrintableASCII([]byte(k)) {
			kOut = hex.EncodeToString([]byte(k))
		}
		vOut := string(v)
		if !isPrintableASCII(v) {
			vOut = hex.EncodeToString(v)
		}
		deltas[kOut] = vOut
	}

	balances := make(map[string]uint64, len(c.balances))
	for a, bal := range c.balances {
		balances[a.String()] = bal
	}

	vins := make([]string, 0, len(c.spentVins))
	for v := range c.spentVins {
		vins = append(vins, hex.EncodeToString(v.TxID[:])+":"+hex.EncodeToString([]byte{byte(v.N)}))
	}

	return map[string]any{
		"deltas":          deltas,
		"modified-balances": balances,
		"spent-vins":      vins,
	}
}
