package journal

import (
	"encoding/binary"

	"github.com/qtumproject/neutron-core/address"
	"github.com/qtumproject/neutron-core/keycodec"
)

// WriteState stores value under (address, key) in the top checkpoint.
// Grounded on DeltaDBWrapper::writeState.
func (w *Wrapper) WriteState(addr address.Address, key, value []byte) {
	w.rawWrite(keycodec.State(addr, key), value)
}

// ReadState reads the value for (address, key), scanning the checkpoint
// stack before falling through to the store. Grounded on
// DeltaDBWrapper::readState.
func (w *Wrapper) ReadState(addr address.Address, key []byte) ([]byte, bool, error) {
	return w.rawRead(keycodec.State(addr, key))
}

// WriteByteCode stores a contract's bytecode blob. Grounded on
// DeltaDBWrapper::writeByteCode.
func (w *Wrapper) WriteByteCode(addr address.Address, code []byte) {
	w.rawWrite(keycodec.Bytecode(addr), code)
}

// ReadByteCode reads a contract's bytecode blob. Grounded on
// DeltaDBWrapper::readByteCode.
func (w *Wrapper) ReadByteCode(addr address.Address) ([]byte, bool, error) {
	return w.rawRead(keycodec.Bytecode(addr))
}

// UpdatedKeyMarker is the (block number, block hash) pair recorded for the
// most recent write to a contract storage key.
type UpdatedKeyMarker struct {
	BlockNum  uint32
	BlockHash [32]byte
}

func encodeUpdatedKeyMarker(m UpdatedKeyMarker) []byte {
	buf := make([]byte, 0, 4+32)
	buf = binary.LittleEndian.AppendUint32(buf, m.BlockNum)
	buf = append(buf, m.BlockHash[:]...)
	return buf
}

func decodeUpdatedKeyMarker(v []byte) UpdatedKeyMarker {
	var m UpdatedKeyMarker
	m.BlockNum = binary.LittleEndian.Uint32(v[:4])
	copy(m.BlockHash[:], v[4:36])
	return m
}

// WriteUpdatedKey records that (address, key) was last touched at the
// given block. Grounded on DeltaDBWrapper::writeUpdatedKey.
func (w *Wrapper) WriteUpdatedKey(addr address.Address, key []byte, m UpdatedKeyMarker) {
	w.rawWrite(keycodec.UpdatedKey(addr, key), encodeUpdatedKeyMarker(m))
}

// ReadUpdatedKey returns the last-touched marker for (address, key).
func (w *Wrapper) ReadUpdatedKey(addr address.Address, key []byte) (UpdatedKeyMarker, bool, error) {
	v, found, err := w.rawRead(keycodec.UpdatedKey(addr, key))
	if err != nil || !found {
		return UpdatedKeyMarker{}, found, err
	}
	return decodeUpdatedKeyMarker(v), true, nil
}

// WriteRawKey stores the unhashed original key under its hashed lookup
// key, letting long keys be recovered from the hash used in keycodec.State.
// Grounded on DeltaDBWrapper::writeRawKey.
func (w *Wrapper) WriteRawKey(addr address.Address, key, rawKey []byte) {
	w.rawWrite(keycodec.RawKey(addr, key), rawKey)
}

// ReadRawKey reads back the unhashed original key.
func (w *Wrapper) ReadRawKey(addr address.Address, key []byte) ([]byte, bool, error) {
	return w.rawRead(keycodec.RawKey(addr, key))
}

// WriteCurrentIterator records the current changelog iterator for a key.
// Grounded on DeltaDBWrapper::writeCurrentIterator.
func (w *Wrapper) WriteCurrentIterator(addr address.Address, key []byte, iterator uint64) {
	w.rawWrite(keycodec.CurrentIterator(addr, key), binary.LittleEndian.AppendUint64(nil, iterator))
}

// ReadCurrentIterator reads the current changelog iterator for a key.
func (w *Wrapper) ReadCurrentIterator(addr address.Address, key []byte) (uint64, bool, error) {
	v, found, err := w.rawRead(keycodec.CurrentIterator(addr, key))
	if err != nil || !found {
		return 0, found, err
	}
	return binary.LittleEndian.Uint64(v), true, nil
}

// WriteStateAtIterator stores a key's historical value as of a given
// changelog iterator. Grounded on DeltaDBWrapper::writeStateWithIterator.
func (w *Wrapper) WriteStateAtIterator(addr address.Address, key []byte, iterator uint64, value []byte) {
	w.rawWrite(keycodec.StateAtIterator(addr, key, iterator), value)
}

// ReadStateAtIterator reads a key's historical value as of a given
// changelog iterator.
func (w *Wrapper) ReadStateAtIterator(addr address.Address, key []byte, iterator uint64) ([]byte, bool, error) {
	return w.rawRead(keycodec.StateAtIterator(addr, key, iterator))
}

// IteratorInfo is the block/outpoint provenance recorded alongside a
// historical value.
type IteratorInfo struct {
	BlockNum  uint32
	BlockHash [32]byte
	TxID      [32]byte
	Vout      uint32
}

func encodeIteratorInfo(info IteratorInfo) []byte {
	buf := make([]byte, 0, 4+32+32+4)
	buf = binary.LittleEndian.AppendUint32(buf, info.BlockNum)
	buf = append(buf, info.BlockHash[:]...)
	buf = append(buf, info.TxID[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, info.Vout)
	return buf
}

func decodeIteratorInfo(v []byte) IteratorInfo {
	var info IteratorInfo
	info.BlockNum = binary.LittleEndian.Uint32(v[:4])
	copy(info.BlockHash[:], v[4:36])
	copy(info.TxID[:], v[36:68])
	info.Vout = binary.LittleEndian.Uint32(v[68:72])
	return info
}

// WriteInfoAtIterator stores the block/outpoint info for a key's value as
// of a given changelog iterator. Grounded on
// DeltaDBWrapper::writeInfoWithIterator.
func (w *Wrapper) WriteInfoAtIterator(addr address.Address, key []byte, iterator uint64, info IteratorInfo) {
	w.rawWrite(keycodec.InfoAtIterator(addr, key, iterator), encodeIteratorInfo(info))
}

// ReadInfoAtIterator reads the block/outpoint info for a key's value as of
// a given changelog iterator.
func (w *Wrapper) ReadInfoAtIterator(addr address.Address, key []byte, iterator uint64) (IteratorInfo, bool, error) {
	v, found, err := w.rawRead(keycodec.InfoAtIterator(addr, key, iterator))
	if err != nil || !found {
		return IteratorInfo{}, found, err
	}
	return decodeIteratorInfo(v), true, nil
}

// OldestIteratorRecord is the oldest surviving changelog iterator for a
// key and the block at which it was recorded.
type OldestIteratorRecord struct {
	Iterator  uint64
	BlockNum  uint32
	BlockHash [32]byte
}

func encodeOldestIterator(r OldestIteratorRecord) []byte {
	buf := make([]byte, 0, 8+4+32)
	buf = binary.LittleEndian.AppendUint64(buf, r.Iterator)
	buf = binary.LittleEndian.AppendUint32(buf, r.BlockNum)
	buf = append(buf, r.BlockHash[:]...)
	return buf
}

func decodeOldestIterator(v []byte) OldestIteratorRecord {
	var r OldestIteratorRecord
	r.Iterator = binary.LittleEndian.Uint64(v[:8])
	r.BlockNum = binary.LittleEndian.Uint32(v[8:12])
	copy(r.BlockHash[:], v[12:44])
	return r
}

// WriteOldestIterator records the oldest surviving changelog iterator for
// a key. Grounded on DeltaDBWrapper::writeOldestIterator.
func (w *Wrapper) WriteOldestIterator(addr address.Address, key []byte, r OldestIteratorRecord) {
	w.rawWrite(keycodec.OldestIterator(addr, key), encodeOldestIterator(r))
}

// ReadOldestIterator reads the oldest surviving changelog iterator for a
// key.
func (w *Wrapper) ReadOldestIterator(addr address.Address, key []byte) (OldestIteratorRecord, bool, error) {
	v, found, err := w.rawRead(keycodec.OldestIterator(addr, key))
	if err != nil || !found {
		return OldestIteratorRecord{}, found, err
	}
	return decodeOldestIterator(v), true, nil
}
