package executor

import (
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qtumproject/neutron-core/address"
	"github.com/qtumproject/neutron-core/execmodel"
	"github.com/qtumproject/neutron-core/journal"
	"github.com/qtumproject/neutron-core/kvstore"
	"github.com/qtumproject/neutron-core/script"
	"github.com/qtumproject/neutron-core/txmodel"
)

type fakeVM struct {
	called      bool
	setStatus   execmodel.ContractStatus
	commitState bool
	err         error
}

func (f *fakeVM) Execute(j *journal.Wrapper, env execmodel.ContractEnvironment, out execmodel.ContractOutput, result *execmodel.ContractExecutionResult, commit bool) error {
	f.called = true
	if f.err != nil {
		return f.err
	}
	result.Status = f.setStatus
	result.CommitState = f.commitState
	return nil
}

type fakeChain struct {
	tipHash   [32]byte
	tipHeight uint32
	parents   map[[32]byte][32]byte
}

func (c fakeChain) Tip() ([32]byte, uint32) { return c.tipHash, c.tipHeight }
func (c fakeChain) Parent(hash [32]byte) ([32]byte, bool) {
	p, ok := c.parents[hash]
	return p, ok
}

func evmOutput() execmodel.ContractOutput {
	var a address.Address
	a.Version = address.Evm
	return execmodel.ContractOutput{Version: script.VersionVM{RootVM: script.RootVMEVM}, Address: a}
}

func x86Output() execmodel.ContractOutput {
	var a address.Address
	a.Version = address.X86
	a.Data[0] = 1
	return execmodel.ContractOutput{
		Version: script.VersionVM{RootVM: script.RootVMX86},
		Address: a,
		Value:   10,
		Vout:    txmodel.OutPoint{N: 0},
	}
}

func newExecutor(evm, x86 ContractVM) *ContractExecutor {
	return &ContractExecutor{
		Journal: journal.New(kvstore.Wrap(memdb.New())),
		EVM:     evm,
		X86:     x86,
	}
}

func TestExecuteDispatchesToEVM(t *testing.T) {
	vm := &fakeVM{setStatus: execmodel.Success("")}
	e := newExecutor(vm, nil)
	var result execmodel.ContractExecutionResult

	require.NoError(t, e.Execute(evmOutput(), &result, true))
	assert.True(t, vm.called)
}

func TestExecuteReturnsErrNoVMForUnregisteredRootVM(t *testing.T) {
	e := newExecutor(nil, nil)
	var result execmodel.ContractExecutionResult
	err := e.Execute(evmOutput(), &result, true)
	assert.ErrorIs(t, err, ErrNoVM)
}

func TestExecuteX86PathWiresInitialCoinsAndCondensingTx(t *testing.T) {
	vm := &fakeVM{setStatus: execmodel.Success(""), commitState: false}
	e := newExecutor(nil, vm)
	var result execmodel.ContractExecutionResult

	require.NoError(t, e.Execute(x86Output(), &result, true))
	assert.True(t, vm.called)
	// SetInitialCoins takes effect (value>0 at depth 1), so the receiver's
	// balance is the output's value; with no transfer nothing is spent, so
	// the condensing tx read back into TransferTx is empty.
	bal, err := e.Journal.GetBalance(x86Output().Address)
	require.NoError(t, err)
	assert.EqualValues(t, 10, bal)
	assert.True(t, result.TransferTx.IsEmpty())
}

func TestExecuteEVMPathDoesNotCallSetInitialCoins(t *testing.T) {
	vm := &fakeVM{setStatus: execmodel.Success("")}
	e := newExecutor(vm, nil)
	out := evmOutput()
	out.Value = 10
	var result execmodel.ContractExecutionResult
	require.NoError(t, e.Execute(out, &result, true))
	assert.Equal(t, txmodel.Transaction{}, result.TransferTx)

	bal, err := e.Journal.GetBalance(out.Address)
	require.NoError(t, err)
	assert.Zero(t, bal)
}

func TestExecuteCommitsWhenCommitStateTrue(t *testing.T) {
	vm := &fakeVM{setStatus: execmodel.Success(""), commitState: true}
	e := newExecutor(vm, nil)
	a := evmOutput().Address
	e.Journal.WriteState(a, []byte("k"), []byte("v"))
	var result execmodel.ContractExecutionResult

	require.NoError(t, e.Execute(evmOutput(), &result, true))

	// Commit flushes the pending write and resets the journal.
	assert.Empty(t, e.Journal.LatestModifiedState().Report()["deltas"])

	v, found, err := e.Journal.ReadState(a, []byte("k"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("v"), v)
}

func TestExecuteDoesNotCommitWhenCommitStateFalse(t *testing.T) {
	vm := &fakeVM{setStatus: execmodel.Success(""), commitState: false}
	e := newExecutor(vm, nil)
	e.Journal.WriteState(evmOutput().Address, []byte("k"), []byte("v"))
	var result execmodel.ContractExecutionResult
	require.NoError(t, e.Execute(evmOutput(), &result, true))
	assert.Equal(t, 1, e.Journal.Depth())

	// Without a commit the write is still pending in the journal.
	deltas := e.Journal.LatestModifiedState().Report()["deltas"].(map[string]string)
	assert.Len(t, deltas, 1)
}

func TestBuildEnvWalksChainForBlockHashes(t *testing.T) {
	var h0, h1, h2 [32]byte
	h0[0], h1[0], h2[0] = 3, 2, 1
	chain := fakeChain{
		tipHash:   h2,
		tipHeight: 2,
		parents:   map[[32]byte][32]byte{h2: h1, h1: h0},
	}
	e := &ContractExecutor{Chain: chain, Journal: journal.New(kvstore.Wrap(memdb.New()))}
	env := e.BuildEnv()
	assert.EqualValues(t, 3, env.BlockNumber)
	assert.Equal(t, h2, env.BlockHashes[0])
	assert.Equal(t, h1, env.BlockHashes[1])
	assert.Equal(t, h0, env.BlockHashes[2])
}

func TestBuildEnvDerivesBlockCreatorFromCreatorScript(t *testing.T) {
	hash := make([]byte, 20)
	hash[0] = 9
	e := &ContractExecutor{CreatorScript: script.P2PKH(hash), Journal: journal.New(kvstore.Wrap(memdb.New()))}
	env := e.BuildEnv()
	assert.Equal(t, address.PubKeyHash, env.BlockCreator.Version)
	assert.Equal(t, hash, env.BlockCreator.Data[:])
}
