// Package address implements the universal address format shared by every
// component of the contract state core: a tagged, fixed-width address that
// can name a legacy P2PKH/P2SH output or a contract account.
package address

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // ripemd160 is required for CREATE address derivation, see §4.8
)

// DataSize is the fixed width of the address payload, independent of kind.
const DataSize = 20

// Kind tags the interpretation of an address's 20-byte payload.
type Kind uint32

const (
	Unknown Kind = iota
	LegacyEvm
	PubKeyHash
	Evm
	X86
	ScriptHash
	P2WSH
	P2WPKH
)

func (k Kind) String() string {
	switch k {
	case Unknown:
		return "unknown"
	case LegacyEvm:
		return "legacy-evm"
	case PubKeyHash:
		return "pubkeyhash"
	case Evm:
		return "evm"
	case X86:
		return "x86"
	case ScriptHash:
		return "scripthash"
	case P2WSH:
		return "p2wsh"
	case P2WPKH:
		return "p2wpkh"
	default:
		return "unknown"
	}
}

// Address is the pair (version, data) described in spec §3. It is always
// passed by value: the zero Address is Unknown/all-zero data.
type Address struct {
	Version Kind
	Data    [DataSize]byte
}

// New builds an Address from a kind and a payload, truncating or
// zero-padding the payload to DataSize as the original's convertData does.
func New(kind Kind, data []byte) Address {
	var a Address
	a.Version = kind
	n := len(data)
	if n > DataSize {
		n = DataSize
	}
	copy(a.Data[:n], data[:n])
	return a
}

// FromOutput derives an address positionally from an output's coordinates,
// used where an address is assigned by an output's location rather than
// carried in a script (original_source/src/qtum/neutron.h declares
// UniversalAddress::FromOutput; the retrieved slice doesn't carry its body,
// so this follows the same txid||vout-derivation shape used by CREATE
// address computation in neutron.cpp).
func FromOutput(kind Kind, txid [32]byte, vout uint32) Address {
	buf := make([]byte, 32+4)
	copy(buf, txid[:])
	binary.LittleEndian.PutUint32(buf[32:], vout)
	return New(kind, Hash160(buf))
}

// HasAAL reports whether this address kind participates in the
// Account-Level Abstraction (i.e. whether it may hold a shadow UTXO).
func (a Address) HasAAL() bool {
	return a.Version == Evm || a.Version == X86
}

// IsContract is an alias for HasAAL: every address kind that can run
// contract code is exactly the set of kinds the AAL tracks.
func (a Address) IsContract() bool {
	return a.HasAAL()
}

// IsNull reports whether this is the zero/unknown address.
func (a Address) IsNull() bool {
	return a.Version == Unknown
}

// Less implements the strict lexicographic ordering on (version, data)
// that spec §3 and §9 require for deterministic condensing-tx vout order.
//
// REDESIGN FLAG: the original C++ operator< was
// `version < a.version || data < a.data`, which is not lexicographic (it
// can report both a<b and b<a true, or neither, for differing versions
// with differing data ordering) and is explicitly called out in spec §9 as
// broken. This reimplements it as real lexicographic comparison.
func (a Address) Less(b Address) bool {
	if a.Version != b.Version {
		return a.Version < b.Version
	}
	return bytes.Compare(a.Data[:], b.Data[:]) < 0
}

// String renders the address as "kind:hexdata", for logs and debug dumps
// only; it is never used as a storage key or hashed representation.
func (a Address) String() string {
	return a.Version.String() + ":" + hex.EncodeToString(a.Data[:])
}

// Equal reports value equality of (version, data).
func (a Address) Equal(b Address) bool {
	return a.Version == b.Version && a.Data == b.Data
}

// ABI is the fixed-width on-wire form: a 4-byte little-endian version
// followed by the 20-byte padded payload (spec §3: "on-wire ABI form pads
// data to a fixed 20-byte field and prepends the 4-byte little-endian
// version").
type ABI [4 + DataSize]byte

// ToABI encodes the address into its fixed-width wire form.
func (a Address) ToABI() ABI {
	var out ABI
	binary.LittleEndian.PutUint32(out[:4], uint32(a.Version))
	copy(out[4:], a.Data[:])
	return out
}

// FromABI decodes the fixed-width wire form back into an Address.
func FromABI(raw ABI) Address {
	var a Address
	a.Version = Kind(binary.LittleEndian.Uint32(raw[:4]))
	copy(a.Data[:], raw[4:])
	return a
}

// ToFlatData is the byte-slice form of ToABI, used when handing an address
// to contract code (the ABI form, not the chain-storage form).
func (a Address) ToFlatData() []byte {
	abi := a.ToABI()
	out := make([]byte, len(abi))
	copy(out, abi[:])
	return out
}

// Hash160 computes ripemd160(sha256(data)), the standard compression used
// throughout this chain to derive 20-byte addresses (CREATE contract
// addresses, §4.8 step 2; P2PKH/P2SH payloads elsewhere in the pack's
// style). Used by FromOutput and FromScript; contractio's createAddress
// computes the same derivation with its own ripemd160 call.
func Hash160(data []byte) []byte {
	sh := sha256.Sum256(data)
	r := ripemd160.New()
	_, _ = r.Write(sh[:])
	return r.Sum(nil)
}
