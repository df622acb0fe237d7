package journal

import (
	"github.com/qtumproject/neutron-core/address"
	"github.com/qtumproject/neutron-core/txmodel"
)

// balanceFromCheckpoints scans the checkpoint stack top-down for a's
// modified balance, without consulting the AAL shadow record.
func (w *Wrapper) balanceFromCheckpoints(a address.Address) (uint64, bool) {
	for i := len(w.checkpoints) - 1; i >= 0; i-- {
		if bal, ok := w.checkpoints[i].balances[a]; ok {
			return bal, true
		}
	}
	return 0, false
}

func (w *Wrapper) spendShadowIfAny(a address.Address) error {
	rec, found, err := w.readAalData(a)
	if err != nil {
		return err
	}
	if found {
		w.current().spentVins[txmodel.OutPoint{TxID: rec.TxID, N: rec.Vout}] = struct{}{}
	}
	return nil
}

// Transfer debits value from `from` and credits it to `to`, materializing
// either address's prior shadow UTXO into spentVins the first time it is
// touched this execution (spec §4.5; grounded on
// DeltaDBWrapper::transfer).
func (w *Wrapper) Transfer(from, to address.Address, value uint64) error {
	if value == 0 {
		return nil
	}

	fromBalance, foundFrom := w.balanceFromCheckpoints(from)
	if !foundFrom {
		rec, found, err := w.readAalData(from)
		if err != nil {
			return err
		}
		if found {
			fromBalance = rec.Balance
			w.current().spentVins[txmodel.OutPoint{TxID: rec.TxID, N: rec.Vout}] = struct{}{}
		}
	}
	if value > fromBalance {
		return ErrInsufficientFunds
	}
	w.current().balances[from] = fromBalance - value

	if w.hasInitialCoins && w.initialCoinsReceiver.Equal(from) {
		// Initial-coins subsumes any prior shadow outpoint for this
		// address; setInitialCoins already folded it in, so spend only
		// the initial-coins outpoint here (spec §4.5 step 5).
		w.current().spentVins[w.initialCoins] = struct{}{}
	} else if err := w.spendShadowIfAny(from); err != nil {
		return err
	}

	toBalance, foundTo := w.balanceFromCheckpoints(to)
	if !foundTo {
		rec, found, err := w.readAalData(to)
		if err != nil {
			return err
		}
		if found {
			toBalance = rec.Balance
			w.current().spentVins[txmodel.OutPoint{TxID: rec.TxID, N: rec.Vout}] = struct{}{}
		}
	}
	w.current().balances[to] = toBalance + value
	return nil
}

// SetInitialCoins records the native coins delivered to a by the origin
// transaction of an execution. Only effective at journal depth 1 and with
// value > 0; otherwise a no-op (spec §4.5, grounded on
// DeltaDBWrapper::setInitialCoins).
func (w *Wrapper) SetInitialCoins(a address.Address, out txmodel.OutPoint, value uint64) error {
	if value == 0 {
		return nil
	}
	if len(w.checkpoints) != 1 {
		return nil
	}

	rec, found, err := w.readAalData(a)
	if err != nil {
		return err
	}
	if found {
		w.current().balances[a] = rec.Balance + value
		w.current().spentVins[txmodel.OutPoint{TxID: rec.TxID, N: rec.Vout}] = struct{}{}
		w.current().spentVins[out] = struct{}{}
	} else {
		w.current().balances[a] = value
		// If the contract execution causes a spend, this AAL record is
		// overwritten by the eventual condensing tx.
		w.writeAalData(a, AalRecord{TxID: out.TxID, Vout: out.N, Balance: value})
	}
	w.initialCoins = out
	w.initialCoinsReceiver = a
	w.hasInitialCoins = true
	return nil
}
