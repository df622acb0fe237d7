// Package keycodec builds the exact binary keys persisted by the contract
// state core (spec §4.2). Every layout here is consensus-critical: the byte
// sequences must match spec.md's table exactly, including its one
// deliberate asymmetry (event keys are big-endian so that bytewise
// iteration matches numeric height order; everything else is
// little-endian).
//
// Grounded on original_source/src/qtum/deltadb.cpp's getBytecodeKey,
// getStateKey, writeAalData, writeUpdatedKey, writeRawKey,
// writeCurrentIterator, writeStateWithIterator, writeInfoWithIterator,
// writeOldestIterator, createHeightKey, and createResultKey.
package keycodec

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/qtumproject/neutron-core/address"
)

const (
	prefixState  = "state_"
	prefixHeight = "h_"
	prefixResult = "r_"

	suffixBytecode = 'c'
	suffixStateKey = '_'
	suffixAAL      = 'a'

	iteratorMarker = 'I'
)

func versionByte(k address.Kind) byte {
	return byte(k)
}

// maxInlineKeyLen is the longest contract-state key that is stored inline
// (prefixed with '_'); longer keys are stored by their sha256 hash instead
// (spec §4.2's "contract state entry" row).
const maxInlineKeyLen = 31

// Bytecode builds the key for a contract's bytecode blob:
// "state_"‖version(1B)‖addr(20B)‖'c'.
func Bytecode(addr address.Address) []byte {
	k := make([]byte, 0, len(prefixState)+1+address.DataSize+1)
	k = append(k, prefixState...)
	k = append(k, versionByte(addr.Version))
	k = append(k, addr.Data[:]...)
	k = append(k, suffixBytecode)
	return k
}

// State builds the key for a single contract storage slot:
// "state_"‖version‖addr‖'_'‖keytail, where keytail is '_'‖key for keys of
// at most 31 bytes, or sha256(key) (32 bytes) for longer keys.
func State(addr address.Address, key []byte) []byte {
	k := make([]byte, 0, len(prefixState)+1+address.DataSize+1+32)
	k = append(k, prefixState...)
	k = append(k, versionByte(addr.Version))
	k = append(k, addr.Data[:]...)
	k = append(k, suffixStateKey)
	if len(key) <= maxInlineKeyLen {
		k = append(k, '_')
		k = append(k, key...)
	} else {
		sum := sha256.Sum256(key)
		k = append(k, sum[:]...)
	}
	return k
}

// AAL builds the key for a contract account's shadow-UTXO record:
// "state_"‖version‖addr‖'a'.
func AAL(addr address.Address) []byte {
	k := make([]byte, 0, len(prefixState)+1+address.DataSize+1)
	k = append(k, prefixState...)
	k = append(k, versionByte(addr.Version))
	k = append(k, addr.Data[:]...)
	k = append(k, suffixAAL)
	return k
}

// changelogKey builds version‖addr‖'_'‖key, the shared layout for
// UpdatedKey/RawKey/OldestIterator (spec §4.2: raw-key uses "same prefix as
// updated-key"). The three accessors alias the same persisted key by
// design, matching writeUpdatedKey/writeRawKey/writeOldestIterator in
// deltadb.cpp, whose updatePre/keysPre/oldPre differentiators were never
// wired in; see DESIGN.md.
func changelogKey(addr address.Address, key []byte) []byte {
	k := make([]byte, 0, 1+address.DataSize+1+len(key))
	k = append(k, versionByte(addr.Version))
	k = append(k, addr.Data[:]...)
	k = append(k, suffixStateKey)
	k = append(k, key...)
	return k
}

// UpdatedKey builds the key for the "key last touched at block" marker:
// version‖addr‖'_'‖key.
func UpdatedKey(addr address.Address, key []byte) []byte {
	return changelogKey(addr, key)
}

// RawKey builds the key under which the unhashed original key is stored,
// looked up by its hash for long keys. Same layout as UpdatedKey.
func RawKey(addr address.Address, key []byte) []byte {
	return changelogKey(addr, key)
}

// OldestIterator builds the key for the oldest surviving changelog
// iterator of a given contract key. Same layout as UpdatedKey.
func OldestIterator(addr address.Address, key []byte) []byte {
	return changelogKey(addr, key)
}

// CurrentIterator builds the key for a key's current changelog iterator:
// version‖addr‖'_'‖'I'‖'_'‖key.
func CurrentIterator(addr address.Address, key []byte) []byte {
	k := make([]byte, 0, 1+address.DataSize+3+len(key))
	k = append(k, versionByte(addr.Version))
	k = append(k, addr.Data[:]...)
	k = append(k, suffixStateKey)
	k = append(k, iteratorMarker)
	k = append(k, suffixStateKey)
	k = append(k, key...)
	return k
}

// StateAtIterator builds the key for a key's historical value as of a
// given changelog iterator: version‖addr‖key‖iterator(u64 LE).
func StateAtIterator(addr address.Address, key []byte, iterator uint64) []byte {
	k := make([]byte, 0, 1+address.DataSize+len(key)+8)
	k = append(k, versionByte(addr.Version))
	k = append(k, addr.Data[:]...)
	k = append(k, key...)
	k = binary.LittleEndian.AppendUint64(k, iterator)
	return k
}

// InfoAtIterator builds the key for the block/outpoint info recorded
// alongside a historical value: version‖addr‖'_'‖key‖iterator(u64 LE).
func InfoAtIterator(addr address.Address, key []byte, iterator uint64) []byte {
	k := make([]byte, 0, 1+address.DataSize+1+len(key)+8)
	k = append(k, versionByte(addr.Version))
	k = append(k, addr.Data[:]...)
	k = append(k, suffixStateKey)
	k = append(k, key...)
	k = binary.LittleEndian.AppendUint64(k, iterator)
	return k
}

// EventHeight builds the height-index key: "h_"‖height(u32 BE)‖version‖addr.
// Big-endian so that bytewise key iteration matches numeric height order.
func EventHeight(height uint32, addr address.Address) []byte {
	k := make([]byte, 0, len(prefixHeight)+4+1+address.DataSize)
	k = append(k, prefixHeight...)
	k = binary.BigEndian.AppendUint32(k, height)
	k = append(k, versionByte(addr.Version))
	k = append(k, addr.Data[:]...)
	return k
}

// EventResultPrefix builds the "r_"‖height(u32 BE) prefix alone, used to
// bound a range scan over a height (see eventindex.GetResults).
func EventResultPrefix(height uint32) []byte {
	k := make([]byte, 0, len(prefixResult)+4)
	k = append(k, prefixResult...)
	k = binary.BigEndian.AppendUint32(k, height)
	return k
}

// EventResult builds the full result-record key:
// "r_"‖height(u32 BE)‖txid(32B)‖vout(u8). Note: vout is truncated to a
// single byte, matching the original C++'s `k.insert(k.end(), vout.n)`
// narrowing a uint32_t into the vector<uint8_t> key — preserved here
// byte-for-byte per spec §4.2's literal "vout(u8)" column.
func EventResult(height uint32, txid [32]byte, vout uint32) []byte {
	k := EventResultPrefix(height)
	k = append(k, txid[:]...)
	k = append(k, byte(vout))
	return k
}
