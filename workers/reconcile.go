package workers

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/sirupsen/logrus"

	"github.com/regtest-workers/btc-trader/entities"
	"github.com/regtest-workers/btc-trader/utils"
)

// Reconciler resolves the confirmed payment into a flat record: where the
// spent input came from (inputs reference prior outputs only by
// txid:index, so the value is looked up transitively), what the payee and
// change outputs received, the implied fee, and the confirmation block
// coordinates.
//
// Missing fields (an output with no address form, a transaction without a
// change output) degrade to empty/zero values with a warning instead of
// failing the run. That best-effort policy fits a demo pipeline; production
// reconciliation should fail loudly on absent fields.
type Reconciler struct {
	StageAbs
}

func NewReconciler(cfg *utils.Config, node NodeClient, logger *logrus.Logger) *Reconciler {
	return &Reconciler{StageAbs{
		Name:   "reconcile",
		Cfg:    cfg,
		Node:   node,
		Logger: utils.StageLogger(logger, "reconcile"),
	}}
}

func (r *Reconciler) Execute(state *State) error {
	result, err := r.Reconcile(state.PaymentTxid, state.ConfirmBlockHash)
	if err != nil {
		return err
	}
	state.Result = result
	return nil
}

// Reconcile fetches the transaction, its first input's originating
// transaction and the confirmation block, and assembles the result. The fee
// is computed in satoshis: input - payee - change, exact to 1 satoshi.
//
// Output convention of a single-recipient wallet send: vout[0] is the payee,
// vout[1], when present, is the change back to the sender.
func (r *Reconciler) Reconcile(txid, blockHash string) (*entities.ReconciliationResult, error) {
	tx, err := r.Node.GetRawTransaction(txid)
	if err != nil {
		return nil, fmt.Errorf("could not fetch tx %s: %v", txid, err)
	}

	result := &entities.ReconciliationResult{Txid: tx.Txid}

	if len(tx.Vin) > 0 && tx.Vin[0].Txid != "" {
		prevTxid := tx.Vin[0].Txid
		prevVout := tx.Vin[0].Vout
		prevTx, err := r.Node.GetRawTransaction(prevTxid)
		if err != nil {
			return nil, fmt.Errorf("could not fetch input tx %s: %v", prevTxid, err)
		}
		if int(prevVout) < len(prevTx.Vout) {
			spent := prevTx.Vout[prevVout]
			result.InputAddress = spent.ScriptPubKey.AddressString()
			result.InputAmount = r.amountFromBTC(spent.Value)
			if result.InputAddress == "" {
				r.Logger.Warnf("spent output %s:%d has no address form", prevTxid, prevVout)
			}
		} else {
			r.Logger.Warnf("input references %s:%d but tx only has %d outputs", prevTxid, prevVout, len(prevTx.Vout))
		}
	} else {
		r.Logger.Warnf("tx %s has no resolvable input, defaulting input fields", txid)
	}

	if len(tx.Vout) > 0 {
		payee := tx.Vout[0]
		result.OutputAddress = payee.ScriptPubKey.AddressString()
		result.OutputAmount = r.amountFromBTC(payee.Value)
	} else {
		r.Logger.Warnf("tx %s has no outputs, defaulting payee fields", txid)
	}

	// No second output means the send consumed the input exactly; change
	// fields stay empty/zero.
	if len(tx.Vout) > 1 {
		change := tx.Vout[1]
		result.ChangeAddress = change.ScriptPubKey.AddressString()
		result.ChangeAmount = r.amountFromBTC(change.Value)
	}

	result.Fee = result.InputAmount - result.OutputAmount - result.ChangeAmount

	block, err := r.Node.GetBlock(blockHash)
	if err != nil {
		return nil, fmt.Errorf("could not fetch block %s: %v", blockHash, err)
	}
	result.BlockHeight = block.Height
	result.BlockHash = block.Hash

	return result, nil
}

// amountFromBTC converts a node-reported BTC value to satoshis, rounding to
// the nearest satoshi. Unrepresentable values (NaN, infinity) default to
// zero under the best-effort policy.
func (r *Reconciler) amountFromBTC(v float64) btcutil.Amount {
	amount, err := btcutil.NewAmount(v)
	if err != nil {
		r.Logger.Warnf("unrepresentable amount %v, defaulting to 0: %v", v, err)
		return 0
	}
	return amount
}
