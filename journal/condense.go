package journal

import (
	"sort"

	"github.com/inconshreveable/log15"

	"github.com/qtumproject/neutron-core/address"
	"github.com/qtumproject/neutron-core/script"
	"github.com/qtumproject/neutron-core/txmodel"
)

// MaxContractVouts bounds the number of outputs a condensing transaction
// may carry (spec §4.6 step 5's "consensus constant").
const MaxContractVouts = 1000

var condenseLog = log15.New("pkg", "journal")

// CreateCondensingTx deterministically builds the reconciliation
// transaction for every balance change and spent shadow-UTXO accumulated
// so far, then rewrites the AAL shadow records to point at its outputs.
// Grounded on DeltaDBWrapper::createCondensingTx (spec §4.6).
func (w *Wrapper) CreateCondensingTx() (txmodel.Transaction, error) {
	w.CondenseAll()
	base := w.checkpoints[0]

	if len(base.spentVins) == 0 {
		return txmodel.Transaction{}, nil
	}

	sortedVins := make([]txmodel.OutPoint, 0, len(base.spentVins))
	for v := range base.spentVins {
		sortedVins = append(sortedVins, v)
	}
	sort.Slice(sortedVins, func(i, j int) bool { return sortedVins[i].Less(sortedVins[j]) })

	sortedDests := make([]address.Address, 0, len(base.balances))
	for a := range base.balances {
		sortedDests = append(sortedDests, a)
	}
	sort.Slice(sortedDests, func(i, j int) bool { return sortedDests[i].Less(sortedDests[j]) })

	var tx txmodel.Transaction
	for _, v := range sortedVins {
		tx.Vin = append(tx.Vin, txmodel.TxIn{PrevOut: v, ScriptSig: script.SpendInput()})
	}

	n := 0
	for _, dest := range sortedDests {
		balance := base.balances[dest]
		if balance == 0 {
			continue
		}
		outScript, err := outputScriptFor(dest)
		if err != nil {
			return txmodel.Transaction{}, nil
		}
		tx.Vout = append(tx.Vout, txmodel.TxOut{Value: balance, ScriptPubKey: outScript})
		if n+1 > MaxContractVouts {
			condenseLog.Error("AAL transaction has exceeded MAX_CONTRACT_VOUTS")
			return txmodel.Transaction{}, nil
		}
		n++
	}

	if len(tx.Vin) == 0 && len(tx.Vout) > 0 {
		condenseLog.Error("AAL transaction has a vout, but no vins")
		return txmodel.Transaction{}, nil
	}
	if len(tx.Vout) == 0 && len(tx.Vin) > 0 {
		condenseLog.Error("AAL transaction has a vin, but no vouts")
		return txmodel.Transaction{}, nil
	}

	txid := tx.TxID()
	n = 0
	for _, dest := range sortedDests {
		balance := base.balances[dest]
		if balance == 0 {
			w.removeAalData(dest)
			continue
		}
		w.writeAalData(dest, AalRecord{TxID: txid, Vout: uint32(n), Balance: balance})
		n++
	}

	return tx, nil
}

// outputScriptFor builds the output script for a condensing-tx vout
// destination (spec §4.6 step 4). Non-consensus address kinds reject the
// whole transaction rather than gaining UTXO ownership.
func outputScriptFor(dest address.Address) ([]byte, error) {
	switch dest.Version {
	case address.PubKeyHash:
		return script.P2PKH(dest.Data[:]), nil
	case address.ScriptHash:
		return script.P2SH(dest.Data[:]), nil
	case address.Evm, address.X86:
		return script.NoExecContract(script.NoExecVersion2(), dest.Data[:]), nil
	default:
		return nil, errAddressKindUnsupported
	}
}
