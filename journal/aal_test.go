package journal

import (
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qtumproject/neutron-core/address"
	"github.com/qtumproject/neutron-core/kvstore"
)

func TestGetBalanceZeroWhenNoRecordAnywhere(t *testing.T) {
	w := newTestWrapper()
	bal, err := w.GetBalance(addr(address.Evm, 1))
	require.NoError(t, err)
	assert.Zero(t, bal)
}

func TestReadAalDataCachesNegativeResult(t *testing.T) {
	store := kvstore.Wrap(memdb.New())
	w := New(store)
	a := addr(address.Evm, 1)

	_, found, err := w.readAalData(a)
	require.NoError(t, err)
	assert.False(t, found)
	_, cached := w.hasNoAAL[a]
	assert.True(t, cached)
}

func TestWriteAalDataClearsNegativeCache(t *testing.T) {
	store := kvstore.Wrap(memdb.New())
	w := New(store)
	a := addr(address.Evm, 1)

	_, _, err := w.readAalData(a)
	require.NoError(t, err)
	_, cached := w.hasNoAAL[a]
	require.True(t, cached)

	var txid [32]byte
	w.writeAalData(a, AalRecord{TxID: txid, Vout: 0, Balance: 5})
	_, cached = w.hasNoAAL[a]
	assert.False(t, cached)
}

func TestCommitClearsNegativeCache(t *testing.T) {
	store := kvstore.Wrap(memdb.New())
	w := New(store)
	a := addr(address.Evm, 1)
	_, _, err := w.readAalData(a)
	require.NoError(t, err)
	require.NoError(t, w.Commit())
	assert.Empty(t, w.hasNoAAL)
}

func TestRemoveAalDataTombstonesRecord(t *testing.T) {
	store := kvstore.Wrap(memdb.New())
	w := New(store)
	a := addr(address.Evm, 1)
	var txid [32]byte
	w.writeAalData(a, AalRecord{TxID: txid, Vout: 0, Balance: 5})
	w.removeAalData(a)

	_, found, err := w.readAalData(a)
	require.NoError(t, err)
	assert.False(t, found)
}
