// Package executor is the VM-agnostic orchestrator glue (spec §2): it
// builds the per-block ContractEnvironment and dispatches a parsed
// ContractOutput to whichever VM its rootVM names, then commits the
// journal when the VM asks for it.
//
// Grounded on original_source/src/qtum/deltadb.cpp's
// ContractExecutor::buildEnv/execute (body commented out in source but
// kept as the authoritative shape of the root-VM branch, per
// SPEC_FULL.md §4 item 6).
package executor

import (
	"errors"
	"fmt"

	"github.com/inconshreveable/log15"

	"github.com/qtumproject/neutron-core/address"
	"github.com/qtumproject/neutron-core/execmodel"
	"github.com/qtumproject/neutron-core/journal"
	"github.com/qtumproject/neutron-core/script"
)

var execLog = log15.New("pkg", "executor")

// ErrNoVM is returned when the executor has no ContractVM registered for
// a ContractOutput's rootVM.
var ErrNoVM = errors.New("executor: no VM registered for rootVM")

// ContractVM is the interface every VM (EVM, X86, ...) satisfies so the
// orchestrator can dispatch to it without knowing its internals. commit
// tells the VM whether this execution may durably commit state, mirroring
// execute(result, commit)'s commit parameter.
type ContractVM interface {
	Execute(j *journal.Wrapper, env execmodel.ContractEnvironment, out execmodel.ContractOutput, result *execmodel.ContractExecutionResult, commit bool) error
}

// ChainView lets buildEnv walk back from the current tip to fill
// ContractEnvironment.BlockHashes without this package depending on any
// particular chain-index implementation.
type ChainView interface {
	// Tip returns the current chain tip's hash and height.
	Tip() (hash [32]byte, height uint32)
	// Parent returns the hash of the block preceding hash, or ok=false at
	// the genesis block.
	Parent(hash [32]byte) (parent [32]byte, ok bool)
}

// ContractExecutor is one block's orchestrator: it holds everything
// buildEnv needs plus the journal and registered VMs, and dispatches one
// ContractOutput at a time via Execute.
type ContractExecutor struct {
	BlockHash      [32]byte
	BlockTime      uint64
	Difficulty     uint64
	BlockGasLimit  uint64
	IsProofOfStake bool
	// CreatorScript is the coinbase (PoW) or coinstake (PoS) output
	// script that names the block's creator: vout[0] of the block's first
	// tx for PoW, vout[1] of the block's second tx for PoS, matching
	// buildEnv's `block.IsProofOfStake()` branch.
	CreatorScript []byte
	Chain         ChainView
	Journal       *journal.Wrapper
	EVM           ContractVM
	X86           ContractVM
}

// BuildEnv constructs the per-execution ContractEnvironment: the next
// block's number, the in-progress block's time/difficulty/gas limit, the
// block creator's address, and up to 256 ancestor hashes walked back from
// the chain tip. Mirrors ContractExecutor::buildEnv.
func (e *ContractExecutor) BuildEnv() execmodel.ContractEnvironment {
	var env execmodel.ContractEnvironment
	env.BlockTime = e.BlockTime
	env.Difficulty = e.Difficulty
	env.GasLimit = e.BlockGasLimit
	env.BlockCreator = address.FromScript(e.CreatorScript)

	if e.Chain != nil {
		tip, height := e.Chain.Tip()
		env.BlockNumber = height + 1
		hash := tip
		for i := 0; i < len(env.BlockHashes); i++ {
			env.BlockHashes[i] = hash
			parent, ok := e.Chain.Parent(hash)
			if !ok {
				break
			}
			hash = parent
		}
	}
	return env
}

// Execute dispatches out to the VM its version.RootVM names, following
// the source's asymmetric handling: the x86 path wires the AAL by calling
// SetInitialCoins before execution and reads the resulting condensing tx
// back into result.TransferTx; the EVM path does neither, since its AAL
// integration is handled by legacy code this core doesn't own (the
// source's own comment: "see qtumstate.cpp for legacy EVM support for the
// AAL"). When commit is true and the VM sets result.CommitState, the
// journal is committed; a failed or non-committing execution does not
// commit, and its pending changes (on the x86 path including the
// initial-coins and condensing-tx writes) stay in the journal.
func (e *ContractExecutor) Execute(out execmodel.ContractOutput, result *execmodel.ContractExecutionResult, commit bool) error {
	env := e.BuildEnv()
	var zero [32]byte
	if result.BlockHash == zero {
		result.BlockHash = e.BlockHash
	}

	switch out.Version.RootVM {
	case script.RootVMEVM:
		if e.EVM == nil {
			return fmt.Errorf("%w: EVM", ErrNoVM)
		}
		if err := e.EVM.Execute(e.Journal, env, out, result, commit); err != nil {
			return fmt.Errorf("executor: evm execute: %w", err)
		}
	case script.RootVMX86:
		if e.X86 == nil {
			return fmt.Errorf("%w: x86", ErrNoVM)
		}
		if err := e.Journal.SetInitialCoins(out.Address, out.Vout, out.Value); err != nil {
			return fmt.Errorf("executor: set initial coins: %w", err)
		}
		if err := e.X86.Execute(e.Journal, env, out, result, commit); err != nil {
			return fmt.Errorf("executor: x86 execute: %w", err)
		}
		tx, err := e.Journal.CreateCondensingTx()
		if err != nil {
			return fmt.Errorf("executor: create condensing tx: %w", err)
		}
		result.TransferTx = tx
	default:
		return fmt.Errorf("executor: unrecognized rootVM %d", out.Version.RootVM)
	}

	if commit && result.CommitState {
		if err := e.Journal.Commit(); err != nil {
			return fmt.Errorf("executor: commit: %w", err)
		}
		execLog.Info("committed contract execution", "address", out.Address.String(), "rootVM", out.Version.RootVM)
	}
	return nil
}
