// Package eventindex is the C7 event/result index (spec §4.7): an
// in-memory buffer of ContractExecutionResult objects that, on commit,
// writes a result record and one height-index record per touched address.
//
// Grounded on original_source/src/qtum/deltadb.h's EventDB declaration and
// deltadb.cpp's EventDB::commit/buildAddressMap/getResultTouches/revert/
// getResults implementations.
package eventindex

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/inconshreveable/log15"

	"github.com/qtumproject/neutron-core/address"
	"github.com/qtumproject/neutron-core/execmodel"
	"github.com/qtumproject/neutron-core/keycodec"
	"github.com/qtumproject/neutron-core/kvstore"
	"github.com/qtumproject/neutron-core/txmodel"
)

var eventLog = log15.New("pkg", "eventindex")

// EventDB buffers results for the block currently being built and flushes
// them to the store on Commit. It holds no state across blocks beyond the
// records already written to store.
type EventDB struct {
	store  kvstore.Store
	buffer []execmodel.ContractExecutionResult
}

// New returns an EventDB backed by store.
func New(store kvstore.Store) *EventDB {
	return &EventDB{store: store}
}

// AddResult appends r to the in-progress block's buffer.
func (e *EventDB) AddResult(r execmodel.ContractExecutionResult) {
	e.buffer = append(e.buffer, r)
}

// Revert discards the buffer, used when block validation fails before a
// commit (spec §4.7's revert).
func (e *EventDB) Revert() {
	e.buffer = nil
}

// buildAddressMap computes, for one result, the transitive union of
// addresses touched by it and every result in its call-result tree,
// mapping each touched address to the outpoints (txid‖vout) that touched
// it. Mirrors EventDB::buildAddressMap's recursive walk.
func buildAddressMap(r execmodel.ContractExecutionResult, out map[address.Address][]txmodel.OutPoint) {
	outpoint := txmodel.OutPoint{TxID: r.Tx.TxID, N: r.Tx.N}
	out[r.Address] = append(out[r.Address], outpoint)
	for _, child := range r.CallResults {
		buildAddressMap(child, out)
	}
}

// getResultTouches returns the full set of addresses touched by r's
// call-result tree, paired with the outpoints that touched each one.
func getResultTouches(r execmodel.ContractExecutionResult) map[address.Address][]txmodel.OutPoint {
	touches := make(map[address.Address][]txmodel.OutPoint)
	buildAddressMap(r, touches)
	return touches
}

func encodeOutpoints(outs []txmodel.OutPoint) []byte {
	buf := make([]byte, 0, len(outs)*33)
	for _, o := range outs {
		buf = append(buf, o.TxID[:]...)
		buf = append(buf, byte(o.N))
	}
	return buf
}

// Commit atomically writes every buffered result's result record and
// height-index records for height, then clears the buffer. Mirrors
// EventDB::commit: buildAddressMap is accumulated across the *entire*
// buffer before any key is written, so two results touching the same
// address at the same height have their outpoints concatenated rather
// than the second overwriting the first.
func (e *EventDB) Commit(height uint32) error {
	var ops []kvstore.BatchOp
	touches := make(map[address.Address][]txmodel.OutPoint)
	for _, r := range e.buffer {
		blob, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("eventindex: marshal result: %w", err)
		}
		resultKey := keycodec.EventResult(height, r.Tx.TxID, r.Tx.N)
		ops = append(ops, kvstore.BatchOp{Key: resultKey, Value: blob})

		buildAddressMap(r, touches)
	}
	for addr, outs := range touches {
		heightKey := keycodec.EventHeight(height, addr)
		ops = append(ops, kvstore.BatchOp{Key: heightKey, Value: encodeOutpoints(outs)})
	}
	if err := e.store.WriteBatch(ops); err != nil {
		return fmt.Errorf("eventindex: commit height %d: %w", height, err)
	}
	e.buffer = nil
	return nil
}

// GetResults iterates the result namespace bytewise from "r_"‖minHeight up
// to (but not including) "r_"‖(maxHeight+1), returning decoded results in
// ascending height/outpoint order until maxResults is reached (0 means
// unbounded). Per spec §4.7's own observation, this does not scope by addr
// within the range query; addr is accepted for API parity with the
// original and reserved for a future index redesign.
func (e *EventDB) GetResults(addr address.Address, minHeight, maxHeight uint32, maxResults int) ([]execmodel.ContractExecutionResult, error) {
	_ = addr
	var results []execmodel.ContractExecutionResult
	for h := minHeight; h <= maxHeight; h++ {
		it := e.store.IterFrom(keycodec.EventResultPrefix(h))
		for it.Next() {
			var r execmodel.ContractExecutionResult
			if err := json.Unmarshal(it.Value(), &r); err != nil {
				it.Release()
				return nil, fmt.Errorf("eventindex: decode result at height %d: %w", h, err)
			}
			results = append(results, r)
			if maxResults > 0 && len(results) >= maxResults {
				it.Release()
				return results, nil
			}
		}
		err := it.Error()
		it.Release()
		if err != nil {
			return nil, fmt.Errorf("eventindex: iterate height %d: %w", h, err)
		}
		if h == maxHeight {
			break
		}
	}
	return results, nil
}

// GetDescendingResults is the supplemented EventDB::getDescendingResults:
// same selection as GetResults but returned from maxHeight down to
// minHeight. The store only iterates forward, so this collects the full
// ascending page (bounded by maxResults collected overall, not per
// height) and reverses it.
func (e *EventDB) GetDescendingResults(addr address.Address, minHeight, maxHeight uint32, maxResults int) ([]execmodel.ContractExecutionResult, error) {
	results, err := e.GetResults(addr, minHeight, maxHeight, maxResults)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}

// EraseBlock deletes every height-index and result record written at
// height, used when disconnecting a block. The original C++ left this
// unimplemented (always returning false); SPEC_FULL.md resolves the
// corresponding Open Question by implementing §4.7's own prose spec.
func (e *EventDB) EraseBlock(height uint32) error {
	resultPrefix := keycodec.EventResultPrefix(height)
	heightPrefix := heightPrefixOnly(height)

	var ops []kvstore.BatchOp
	for _, prefix := range [][]byte{resultPrefix, heightPrefix} {
		it := e.store.IterFrom(prefix)
		for it.Next() {
			key := make([]byte, len(it.Key()))
			copy(key, it.Key())
			ops = append(ops, kvstore.BatchOp{Key: key, Erase: true})
		}
		err := it.Error()
		it.Release()
		if err != nil {
			return fmt.Errorf("eventindex: erase block %d: %w", height, err)
		}
	}
	if len(ops) == 0 {
		return nil
	}
	if err := e.store.WriteBatch(ops); err != nil {
		return fmt.Errorf("eventindex: erase block %d: %w", height, err)
	}
	eventLog.Info("erased block from event index", "height", height, "records", len(ops))
	return nil
}

// heightPrefixOnly builds "h_"‖height(BE) without a trailing address, used
// to bound an EraseBlock scan over every address touched at that height.
func heightPrefixOnly(height uint32) []byte {
	k := make([]byte, 0, 6)
	k = append(k, 'h', '_')
	k = binary.BigEndian.AppendUint32(k, height)
	return k
}
