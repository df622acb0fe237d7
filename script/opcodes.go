// Package script builds and restricted-evaluates the output scripts used
// by the condensing transaction and by contract-creating transactions.
//
// Grounded on original_source/src/qtum/deltadb.cpp's createCondensingTx
// (`CScript() << OP_DUP << OP_HASH160 << ... `) for the builder side, and
// neutron.cpp's ContractOutputParser::receiveStack (`EvalScript(stack,
// scriptPubKey, SCRIPT_EXEC_BYTE_CODE, ...)`) for the restricted
// push-stack evaluator. No general Bitcoin-script library in the pack
// models this chain's custom OP_CALL/OP_CREATE/OP_SPEND opcodes, so the
// encoder/evaluator here is hand-rolled rather than adapted from a
// library (see DESIGN.md).
package script

// Op is a single script opcode.
type Op byte

// Opcodes used by condensing-tx and contract-output scripts. Values match
// the source chain's script/script.h numbering for the subset this module
// touches.
const (
	OpDup         Op = 0x76
	OpEqual       Op = 0x87
	OpEqualVerify Op = 0x88
	OpHash160     Op = 0xa9
	OpCheckSig    Op = 0xac
	OpCreate      Op = 0xc1
	OpCall        Op = 0xc2
	OpSpend       Op = 0xc3
)

// VersionVM is the 4-byte contract-version tag carried in contract output
// scripts (neutron.cpp's `VersionVM`). Only the fields this module needs
// to distinguish a no-exec v2 output are modeled; rootVM selects which VM
// a CALL/CREATE targets and is ignored for no-exec outputs since they
// carry no executable payload.
type VersionVM struct {
	RootVM      uint16
	VMVersion   uint8
	FlagOptions uint8
}

const (
	RootVMEVM = 1
	RootVMX86 = 2
)

// ToRaw packs the version into the little-endian 4-byte form pushed onto
// the script stack.
func (v VersionVM) ToRaw() uint32 {
	return uint32(v.RootVM) | uint32(v.VMVersion)<<16 | uint32(v.FlagOptions)<<24
}

// VersionVMFromRaw unpacks a 4-byte little-endian version tag.
func VersionVMFromRaw(raw uint32) VersionVM {
	return VersionVM{
		RootVM:      uint16(raw & 0xffff),
		VMVersion:   uint8((raw >> 16) & 0xff),
		FlagOptions: uint8((raw >> 24) & 0xff),
	}
}

// NoExecVersion2 is the version tag used by the condensing-tx's no-exec
// contract outputs (SPEC_FULL.md §5): rootVM is 0 (un-callable, carries no
// executable payload) with vmVersion 2 to mark "no-exec v2".
func NoExecVersion2() VersionVM {
	return VersionVM{RootVM: 0, VMVersion: 2, FlagOptions: 0}
}
