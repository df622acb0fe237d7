package journal

import (
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qtumproject/neutron-core/address"
	"github.com/qtumproject/neutron-core/kvstore"
	"github.com/qtumproject/neutron-core/txmodel"
)

// Scenario 1: empty condensing.
func TestCreateCondensingTxEmptyWhenNoTransfers(t *testing.T) {
	w := newTestWrapper()
	tx, err := w.CreateCondensingTx()
	require.NoError(t, err)
	assert.True(t, tx.IsEmpty())
}

// Scenario 2: simple transfer with prior UTXO.
func TestCreateCondensingTxSimpleTransfer(t *testing.T) {
	store := kvstore.Wrap(memdb.New())
	w := New(store)
	a, b := addr(address.PubKeyHash, 0x01), addr(address.PubKeyHash, 0x02)
	var oldTxid [32]byte
	oldTxid[0] = 0x11
	w.writeAalData(a, AalRecord{TxID: oldTxid, Vout: 0, Balance: 100})

	require.NoError(t, w.Transfer(a, b, 40))
	tx, err := w.CreateCondensingTx()
	require.NoError(t, err)

	require.Len(t, tx.Vin, 1)
	assert.Equal(t, oldTxid, tx.Vin[0].PrevOut.TxID)
	require.Len(t, tx.Vout, 2)

	var total uint64
	for _, out := range tx.Vout {
		total += out.Value
	}
	assert.EqualValues(t, 100, total)
}

// Scenario 4: zero-balance drops vout and deletes shadow.
func TestCreateCondensingTxDropsZeroBalanceVoutAndRemovesShadow(t *testing.T) {
	store := kvstore.Wrap(memdb.New())
	w := New(store)
	a, b := addr(address.PubKeyHash, 0x01), addr(address.PubKeyHash, 0x02)
	var oldTxid [32]byte
	oldTxid[0] = 0x22
	w.writeAalData(a, AalRecord{TxID: oldTxid, Vout: 0, Balance: 100})

	require.NoError(t, w.Transfer(a, b, 100))
	tx, err := w.CreateCondensingTx()
	require.NoError(t, err)

	require.Len(t, tx.Vout, 1)
	assert.EqualValues(t, 100, tx.Vout[0].Value)

	_, found, err := w.readAalData(a)
	require.NoError(t, err)
	assert.False(t, found)
}

// Scenario 6: max-vouts guard.
func TestCreateCondensingTxRejectsWhenVoutsExceedMax(t *testing.T) {
	store := kvstore.Wrap(memdb.New())
	w := New(store)
	var seedTxid [32]byte
	seedTxid[0] = 1
	seed := addr(address.PubKeyHash, 0xEE)
	w.writeAalData(seed, AalRecord{TxID: seedTxid, Vout: 0, Balance: uint64(MaxContractVouts + 1)})

	for i := 0; i < MaxContractVouts+1; i++ {
		dest := address.New(address.PubKeyHash, []byte{byte(i >> 8), byte(i), 0xFF})
		require.NoError(t, w.Transfer(seed, dest, 1))
	}

	tx, err := w.CreateCondensingTx()
	require.NoError(t, err)
	assert.True(t, tx.IsEmpty())
}

// P6: deterministic condensing regardless of insertion order.
func TestCreateCondensingTxIsOrderIndependent(t *testing.T) {
	build := func(order []int) txmodel.Transaction {
		store := kvstore.Wrap(memdb.New())
		w := New(store)
		var txid [32]byte
		txid[0] = 7
		seed := addr(address.PubKeyHash, 0x99)
		w.writeAalData(seed, AalRecord{TxID: txid, Vout: 0, Balance: 300})

		dests := []address.Address{
			addr(address.PubKeyHash, 0x01),
			addr(address.PubKeyHash, 0x02),
			addr(address.PubKeyHash, 0x03),
		}
		for _, i := range order {
			require.NoError(t, w.Transfer(seed, dests[i], 50))
		}
		tx, err := w.CreateCondensingTx()
		require.NoError(t, err)
		return tx
	}

	tx1 := build([]int{0, 1, 2})
	tx2 := build([]int{2, 0, 1})
	assert.Equal(t, tx1.TxID(), tx2.TxID())
}

// P7: post-condense shadow record.
func TestCreateCondensingTxWritesNewShadowRecords(t *testing.T) {
	store := kvstore.Wrap(memdb.New())
	w := New(store)
	a, b := addr(address.PubKeyHash, 0x01), addr(address.PubKeyHash, 0x02)
	var oldTxid [32]byte
	oldTxid[0] = 0x33
	w.writeAalData(a, AalRecord{TxID: oldTxid, Vout: 0, Balance: 100})
	require.NoError(t, w.Transfer(a, b, 40))

	tx, err := w.CreateCondensingTx()
	require.NoError(t, err)
	txid := tx.TxID()

	recA, found, err := w.readAalData(a)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, txid, recA.TxID)

	recB, found, err := w.readAalData(b)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, txid, recB.TxID)
}

func TestCreateCondensingTxRejectsUnsupportedAddressKind(t *testing.T) {
	store := kvstore.Wrap(memdb.New())
	w := New(store)
	unknown := addr(address.Unknown, 0x01)
	src := addr(address.PubKeyHash, 0x02)
	var txid [32]byte
	txid[0] = 1
	w.writeAalData(src, AalRecord{TxID: txid, Vout: 0, Balance: 10})
	require.NoError(t, w.Transfer(src, unknown, 10))

	tx, err := w.CreateCondensingTx()
	require.NoError(t, err)
	assert.True(t, tx.IsEmpty())
}
