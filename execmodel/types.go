package execmodel

import (
	"github.com/qtumproject/neutron-core/address"
	"github.com/qtumproject/neutron-core/script"
	"github.com/qtumproject/neutron-core/txmodel"
)

// ContractOutput is the VM's input, parsed from an output script's
// push-stack (contractio.ParseOutput). Grounded on neutron.h's
// ContractOutput.
type ContractOutput struct {
	Version  script.VersionVM
	Value    uint64
	GasPrice uint64
	GasLimit uint64
	Address  address.Address
	Data     []byte
	Sender   address.Address
	Vout     txmodel.OutPoint
	OpCreate bool
}

// ContractEnvironment is the read-only per-execution context every
// contract call sees. Grounded on neutron.h's ContractEnvironment.
// BlockHashes[i] is the hash of block BlockNumber-1-i (spec §3).
type ContractEnvironment struct {
	BlockNumber  uint32
	BlockTime    uint64
	Difficulty   uint64
	GasLimit     uint64
	BlockCreator address.Address
	BlockHashes  [256][32]byte
}

// ContractExecutionResult is the outcome of one contract call, forming a
// tree via CallResults that mirrors sub-calls. Grounded on deltadb.h's
// ContractExecutionResult.
type ContractExecutionResult struct {
	BlockHash     [32]byte
	BlockHeight   uint32
	Tx            txmodel.OutPoint
	UsedGas       uint64
	RefundSender  uint64
	Status        ContractStatus
	TransferTx    txmodel.Transaction
	CommitState   bool
	ModifiedData  Checkpoint
	Events        map[string]string
	CallResults   []ContractExecutionResult
	Address       address.Address
}

// Checkpoint is the subset of a journal.Checkpoint's contents that is
// useful to report back on a ContractExecutionResult without execmodel
// importing package journal, so execmodel depends only on the address,
// script and txmodel value types. Callers fill it from
// journal.Checkpoint.Report() or equivalent.
type Checkpoint struct {
	Deltas            map[string]string
	ModifiedBalances   map[string]uint64
	SpentVins         []string
}
