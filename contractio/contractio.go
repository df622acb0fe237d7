// Package contractio is the C8 contract output parser (spec §4.8):
// turning a transaction output's script into a ContractOutput by
// restricted push-stack evaluation.
//
// Grounded on original_source/src/qtum/neutron.cpp's
// ContractOutputParser::parseOutput/receiveStack/getSenderAddress.
package contractio

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // matches CREATE address derivation in address.Hash160's sibling use

	"github.com/qtumproject/neutron-core/address"
	"github.com/qtumproject/neutron-core/execmodel"
	"github.com/qtumproject/neutron-core/script"
	"github.com/qtumproject/neutron-core/txmodel"
)

// ErrMalformedOutput is returned for any output that fails §4.8's parsing
// rules: too few stack items, oversized numeric fields, an overflowing
// gasPrice*gasLimit product, an unrecognized rootVM, or a script that
// doesn't evaluate at all.
var ErrMalformedOutput = errors.New("contractio: malformed contract output")

// BlockTxSource resolves an output script from the in-progress block's own
// transactions, the first of getSenderAddress's three lookup tiers.
type BlockTxSource interface {
	ScriptForBlockTx(txid [32]byte, vout uint32) ([]byte, bool)
}

// CoinsView resolves an output script from a UTXO cache, the second tier.
type CoinsView interface {
	ScriptForCoin(txid [32]byte, vout uint32) ([]byte, bool)
}

// TxLookup resolves an output script via a full transaction lookup, the
// third and final tier.
type TxLookup interface {
	ScriptForTx(txid [32]byte, vout uint32) ([]byte, bool, error)
}

// SenderResolver bundles the three optional, ordered collaborators
// getSenderAddress consults in turn. Any of the three may be nil; the
// search stops at the first one that reports a hit. This is the
// supplemented three-tier lookup (SPEC_FULL.md §4 item 5).
type SenderResolver struct {
	BlockTxs BlockTxSource
	Coins    CoinsView
	Txs      TxLookup
}

func resolveSenderScript(r SenderResolver, prevout txmodel.OutPoint) ([]byte, error) {
	if r.BlockTxs != nil {
		if s, ok := r.BlockTxs.ScriptForBlockTx(prevout.TxID, prevout.N); ok {
			return s, nil
		}
	}
	if r.Coins != nil {
		if s, ok := r.Coins.ScriptForCoin(prevout.TxID, prevout.N); ok {
			return s, nil
		}
	}
	if r.Txs != nil {
		s, ok, err := r.Txs.ScriptForTx(prevout.TxID, prevout.N)
		if err != nil {
			return nil, fmt.Errorf("contractio: resolve sender: %w", err)
		}
		if ok {
			return s, nil
		}
	}
	return nil, nil
}

// getSenderAddress resolves tx.Vin[0]'s prevout script through the
// three-tier resolver and extracts a PubKeyHash address from it, or the
// null address if no tier has the script or the script isn't a standard
// P2PKH/P2PK destination. Mirrors neutron.cpp's getSenderAddress.
func getSenderAddress(tx txmodel.Transaction, resolver SenderResolver) (address.Address, error) {
	if len(tx.Vin) == 0 {
		return address.Address{}, nil
	}
	s, err := resolveSenderScript(resolver, tx.Vin[0].PrevOut)
	if err != nil {
		return address.Address{}, err
	}
	if s == nil {
		return address.Address{}, nil
	}
	return address.FromScript(s), nil
}

// createAddress computes the new contract address for an OP_CREATE output:
// ripemd160(sha256(txid‖vout(u32 LE))) (§4.8 step 2).
func createAddress(txid [32]byte, vout uint32) []byte {
	buf := make([]byte, 32+4)
	copy(buf, txid[:])
	binary.LittleEndian.PutUint32(buf[32:], vout)
	sum := sha256.Sum256(buf)
	h := ripemd160.New()
	h.Write(sum[:])
	return h.Sum(nil)
}

// vchToUint64 interprets a push's bytes as a little-endian unsigned
// integer, matching CScriptNum::vch_to_uint64's usage here (gasPrice,
// gasLimit, and the version tag are all pushed as minimally-encoded LE
// numbers by script.Builder.PushUint32).
func vchToUint64(v []byte) (uint64, error) {
	if len(v) > 8 {
		return 0, ErrMalformedOutput
	}
	var buf [8]byte
	copy(buf[:], v)
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// ParseOutput parses tx's output at vout into a ContractOutput, per
// §4.8's full five-step procedure. resolver is consulted for the sender
// address; a zero-value SenderResolver yields an Unknown sender, matching
// getSenderAddress's `view == NULL` early return.
func ParseOutput(tx txmodel.Transaction, vout uint32, resolver SenderResolver) (execmodel.ContractOutput, error) {
	var out execmodel.ContractOutput
	if vout >= uint32(len(tx.Vout)) {
		return out, fmt.Errorf("%w: vout %d out of range", ErrMalformedOutput, vout)
	}

	sender, err := getSenderAddress(tx, resolver)
	if err != nil {
		return out, err
	}
	out.Sender = sender
	out.Value = tx.Vout[vout].Value

	stack, opcode, err := receiveStack(tx.Vout[vout].ScriptPubKey)
	if err != nil {
		return out, err
	}

	var receiveAddr []byte
	if opcode == script.OpCall {
		receiveAddr = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out.OpCreate = false
	} else {
		out.OpCreate = true
		receiveAddr = createAddress(tx.TxID(), vout)
	}

	if len(stack) < 4 {
		return execmodel.ContractOutput{}, ErrMalformedOutput
	}

	code := stack[len(stack)-1]
	stack = stack[:len(stack)-1]
	if len(code) < 1 {
		return execmodel.ContractOutput{}, ErrMalformedOutput
	}

	gasPrice, err := vchToUint64(stack[len(stack)-1])
	if err != nil {
		return execmodel.ContractOutput{}, err
	}
	stack = stack[:len(stack)-1]

	gasLimit, err := vchToUint64(stack[len(stack)-1])
	if err != nil {
		return execmodel.ContractOutput{}, err
	}
	stack = stack[:len(stack)-1]

	if gasPrice > math.MaxInt64 || gasLimit > math.MaxInt64 {
		return execmodel.ContractOutput{}, ErrMalformedOutput
	}
	if gasPrice != 0 && gasLimit > math.MaxInt64/gasPrice {
		return execmodel.ContractOutput{}, ErrMalformedOutput
	}

	versionRaw := stack[len(stack)-1]
	if len(versionRaw) > 4 {
		return execmodel.ContractOutput{}, ErrMalformedOutput
	}
	versionNum, err := vchToUint64(versionRaw)
	if err != nil {
		return execmodel.ContractOutput{}, err
	}
	version := script.VersionVMFromRaw(uint32(versionNum))

	switch version.RootVM {
	case script.RootVMEVM:
		out.Address = address.New(address.Evm, receiveAddr)
	case script.RootVMX86:
		out.Address = address.New(address.X86, receiveAddr)
	default:
		return execmodel.ContractOutput{}, fmt.Errorf("%w: unrecognized rootVM %d", ErrMalformedOutput, version.RootVM)
	}

	out.Version = version
	out.GasPrice = gasPrice
	out.GasLimit = gasLimit
	out.Data = code
	out.Vout = txmodel.OutPoint{TxID: tx.TxID(), N: vout}
	return out, nil
}

// receiveStack evaluates scriptPubKey via the restricted push-stack
// evaluator and peels off the trailing opcode the way neutron.cpp's
// receiveStack does: script.Eval already stops at OP_CALL/OP_CREATE and
// pushes the remainder as the final stack item, so this pops that item
// and reads its leading opcode byte, then enforces the minimum remaining
// stack size per opcode.
func receiveStack(s []byte) ([][]byte, script.Op, error) {
	stack, err := script.Eval(s)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if len(stack) == 0 {
		return nil, 0, ErrMalformedOutput
	}
	scriptRest := stack[len(stack)-1]
	stack = stack[:len(stack)-1]
	if len(scriptRest) == 0 {
		return nil, 0, ErrMalformedOutput
	}
	opcode := script.Op(scriptRest[0])

	switch {
	case opcode == script.OpCreate && len(stack) < 4:
		return nil, 0, ErrMalformedOutput
	case opcode == script.OpCall && len(stack) < 5:
		return nil, 0, ErrMalformedOutput
	case opcode != script.OpCreate && opcode != script.OpCall:
		return nil, 0, ErrMalformedOutput
	}
	return stack, opcode, nil
}
