package script

import "encoding/binary"

// Builder assembles a script by appending opcodes and length-prefixed data
// pushes, mirroring the source's `CScript() << op << data` chaining.
type Builder struct {
	buf []byte
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Op appends a single opcode.
func (b *Builder) Op(op Op) *Builder {
	b.buf = append(b.buf, byte(op))
	return b
}

// Push appends data as a length-prefixed push. Lengths up to 75 bytes use
// a single-byte prefix (direct push); this module never pushes anything
// larger, so the multi-byte PUSHDATA forms are not needed.
func (b *Builder) Push(data []byte) *Builder {
	if len(data) > 75 {
		panic("script: push data exceeds direct-push limit")
	}
	b.buf = append(b.buf, byte(len(data)))
	b.buf = append(b.buf, data...)
	return b
}

// PushUint32 pushes v as a little-endian 4-byte (or shorter, minimally
// encoded) value, matching CScriptNum's handling of the version/gas
// fields it pushes onto the stack.
func (b *Builder) PushUint32(v uint32) *Builder {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	n := 4
	for n > 1 && tmp[n-1] == 0 {
		n--
	}
	return b.Push(tmp[:n])
}

// Bytes returns the assembled script.
func (b *Builder) Bytes() []byte {
	return b.buf
}

// P2PKH builds `OP_DUP OP_HASH160 <20B> OP_EQUALVERIFY OP_CHECKSIG`
// (§6 External Interfaces).
func P2PKH(hash160 []byte) []byte {
	return NewBuilder().Op(OpDup).Op(OpHash160).Push(hash160).Op(OpEqualVerify).Op(OpCheckSig).Bytes()
}

// P2SH builds `OP_HASH160 <20B> OP_EQUAL` (§6).
func P2SH(hash160 []byte) []byte {
	return NewBuilder().Op(OpHash160).Push(hash160).Op(OpEqual).Bytes()
}

// NoExecContract builds `<version> <empty> <empty> <empty> <address> OP_CALL`,
// the output script that keeps coins owned by a contract account without
// making it callable (§6, SPEC_FULL.md §5).
func NoExecContract(version VersionVM, addr []byte) []byte {
	return NewBuilder().
		PushUint32(version.ToRaw()).
		Push(nil).
		Push(nil).
		Push(nil).
		Push(addr).
		Op(OpCall).
		Bytes()
}

// SpendInput builds `<0x02> OP_SPEND`, the scriptSig used by every
// condensing-tx input (§6: "Input script: `<0x02> OP_SPEND`").
func SpendInput() []byte {
	return NewBuilder().Push([]byte{2}).Op(OpSpend).Bytes()
}
