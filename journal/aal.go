package journal

import (
	"encoding/binary"

	"github.com/qtumproject/neutron-core/address"
	"github.com/qtumproject/neutron-core/keycodec"
)

// AalRecord is a contract account's shadow-UTXO record: the single UTXO
// currently holding its entire balance.
type AalRecord struct {
	TxID    [32]byte
	Vout    uint32
	Balance uint64
}

func encodeAalRecord(r AalRecord) []byte {
	buf := make([]byte, 0, 32+4+8)
	buf = append(buf, r.TxID[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, r.Vout)
	buf = binary.LittleEndian.AppendUint64(buf, r.Balance)
	return buf
}

func decodeAalRecord(v []byte) AalRecord {
	var r AalRecord
	copy(r.TxID[:], v[:32])
	r.Vout = binary.LittleEndian.Uint32(v[32:36])
	r.Balance = binary.LittleEndian.Uint64(v[36:44])
	return r
}

// writeAalData stores a's fixed-width shadow record
// (txid:32B‖vout:u32 LE‖balance:u64 LE); the empty-value tombstone is
// written by removeAalData instead. A write always clears the address from
// the negative cache since a write proves the address no longer lacks a
// record.
func (w *Wrapper) writeAalData(a address.Address, r AalRecord) {
	w.rawWrite(keycodec.AAL(a), encodeAalRecord(r))
	delete(w.hasNoAAL, a)
}

// removeAalData tombstones a's shadow record (an empty value, per spec
// §4.4 "An empty value is treated as a delete").
func (w *Wrapper) removeAalData(a address.Address) {
	w.rawWrite(keycodec.AAL(a), nil)
}

// readAalData reads a's shadow record, consulting the negative cache
// first to avoid a repeat store lookup for an address already known to
// lack one this execution (cleared on Commit).
func (w *Wrapper) readAalData(a address.Address) (AalRecord, bool, error) {
	if _, known := w.hasNoAAL[a]; known {
		return AalRecord{}, false, nil
	}
	v, found, err := w.rawRead(keycodec.AAL(a))
	if err != nil {
		return AalRecord{}, false, err
	}
	if !found || len(v) == 0 {
		w.hasNoAAL[a] = struct{}{}
		return AalRecord{}, false, nil
	}
	return decodeAalRecord(v), true, nil
}

// GetBalance returns a's current balance: the top-most checkpoint balance
// entry if any checkpoint has modified it, else the AAL shadow record's
// balance, else 0. Grounded on DeltaDBWrapper::getBalance.
func (w *Wrapper) GetBalance(a address.Address) (uint64, error) {
	for i := len(w.checkpoints) - 1; i >= 0; i-- {
		if bal, ok := w.checkpoints[i].balances[a]; ok {
			return bal, nil
		}
	}
	rec, found, err := w.readAalData(a)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	return rec.Balance, nil
}
