// Package txmodel defines the transaction shape the condensing-tx builder
// (package journal) emits: inputs that spend shadow UTXOs and outputs that
// re-materialize post-execution balances.
//
// Grounded on original_source/src/qtum/deltadb.cpp's createCondensingTx,
// which builds a CMutableTransaction from sorted COutPoint vins and
// CTxOut vouts; this package models the same two-sided shape without
// pulling in a full Bitcoin-style transaction library, since the wire
// format beyond vin/vout ordering is left opaque by the core (spec §6).
package txmodel

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
)

// OutPoint identifies a specific transaction output: (txid, n).
type OutPoint struct {
	TxID [32]byte
	N    uint32
}

// Less orders outpoints ascending by (txid, n), matching
// deltadb.cpp's `std::sort(sortedVins...)` over COutPoint's default
// lexicographic comparison.
func (o OutPoint) Less(other OutPoint) bool {
	if c := bytes.Compare(o.TxID[:], other.TxID[:]); c != 0 {
		return c < 0
	}
	return o.N < other.N
}

// IsNull reports whether o is the null outpoint (no prior UTXO): an
// all-zero txid with N = 0xffffffff.
func (o OutPoint) IsNull() bool {
	return o.TxID == [32]byte{} && o.N == 0xffffffff
}

// TxIn spends PrevOut with ScriptSig.
type TxIn struct {
	PrevOut   OutPoint
	ScriptSig []byte
}

// TxOut pays Value to ScriptPubKey.
type TxOut struct {
	Value        uint64
	ScriptPubKey []byte
}

// Transaction is the condensing transaction's shape: a flat list of inputs
// and outputs, no witness or locktime fields (none are needed by this
// core; the orchestrator that appends this to a block owns those).
type Transaction struct {
	Vin  []TxIn
	Vout []TxOut
}

// IsEmpty reports whether tx has neither inputs nor outputs, the sentinel
// "nothing to condense" / "rejected" return value used throughout C6.
func (tx Transaction) IsEmpty() bool {
	return len(tx.Vin) == 0 && len(tx.Vout) == 0
}

// serialize renders tx into a deterministic byte form suitable for hashing.
// Layout: vin-count(u32 LE), then per vin txid(32B)‖n(u32 LE)‖scriptLen(u32
// LE)‖script; vout-count(u32 LE), then per vout value(u64 LE)‖scriptLen(u32
// LE)‖script. This is an internal hashing preimage, not a consensus wire
// format — the core treats the transaction as opaque beyond vin/vout order.
func (tx Transaction) serialize() []byte {
	var buf bytes.Buffer
	var tmp [8]byte

	binary.LittleEndian.PutUint32(tmp[:4], uint32(len(tx.Vin)))
	buf.Write(tmp[:4])
	for _, in := range tx.Vin {
		buf.Write(in.PrevOut.TxID[:])
		binary.LittleEndian.PutUint32(tmp[:4], in.PrevOut.N)
		buf.Write(tmp[:4])
		binary.LittleEndian.PutUint32(tmp[:4], uint32(len(in.ScriptSig)))
		buf.Write(tmp[:4])
		buf.Write(in.ScriptSig)
	}

	binary.LittleEndian.PutUint32(tmp[:4], uint32(len(tx.Vout)))
	buf.Write(tmp[:4])
	for _, out := range tx.Vout {
		binary.LittleEndian.PutUint64(tmp[:8], out.Value)
		buf.Write(tmp[:8])
		binary.LittleEndian.PutUint32(tmp[:4], uint32(len(out.ScriptPubKey)))
		buf.Write(tmp[:4])
		buf.Write(out.ScriptPubKey)
	}
	return buf.Bytes()
}

// TxID computes the transaction's identifying hash as a double-SHA256 of
// its serialized form, the standard Bitcoin-family digest this corpus's
// chain inherits.
func (tx Transaction) TxID() [32]byte {
	first := sha256.Sum256(tx.serialize())
	return sha256.Sum256(first[:])
}
