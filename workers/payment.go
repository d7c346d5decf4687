package workers

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/sirupsen/logrus"

	"github.com/regtest-workers/btc-trader/utils"
)

const paymentLabel = "Payment to Trader"

// Payment sends the configured amount from the miner wallet to the trader
// address, inspects the resulting mempool entry, and mines one block to
// confirm the transaction. Node fee defaults apply; any rejection
// (insufficient funds, invalid address, locked wallet) is fatal with no
// retry.
type Payment struct {
	StageAbs
}

func NewPayment(cfg *utils.Config, node NodeClient, logger *logrus.Logger) *Payment {
	return &Payment{StageAbs{
		Name:   "payment",
		Cfg:    cfg,
		Node:   node,
		Logger: utils.StageLogger(logger, "payment"),
	}}
}

func (p *Payment) Execute(state *State) error {
	amount, err := btcutil.NewAmount(p.Cfg.PaymentAmount)
	if err != nil {
		return fmt.Errorf("invalid payment amount %v: %v", p.Cfg.PaymentAmount, err)
	}

	txid, err := p.Dispatch(state.TraderAddress, amount)
	if err != nil {
		return err
	}
	p.Logger.Infof("transaction sent, txid: %s", txid)
	state.PaymentTxid = txid

	entry, err := p.Node.GetMempoolEntry(txid)
	if err != nil {
		return fmt.Errorf("could not find tx %s in mempool: %v", txid, err)
	}
	p.Logger.Infof("mempool entry: vsize=%d base fee=%.8f BTC", entry.Vsize, entry.Fees.Base)

	hashes, err := p.Node.MineToAddress(1, state.MinerAddress)
	if err != nil {
		return fmt.Errorf("could not mine confirmation block: %v", err)
	}
	p.Logger.Infof("confirmation block mined: %s", hashes[0])
	state.ConfirmBlockHash = hashes[0]
	return nil
}

// Dispatch submits the payment through the RPC selected in the config:
// sendtoaddress carries the payment label, send is the newer primitive only
// reachable through the raw request path.
func (p *Payment) Dispatch(address string, amount btcutil.Amount) (string, error) {
	switch p.Cfg.PaymentRPC {
	case utils.PaymentRPCSend:
		res, err := p.Node.Send(p.Cfg.MinerWallet, address, amount)
		if err != nil {
			return "", fmt.Errorf("send failed: %v", err)
		}
		if !res.Complete {
			return "", fmt.Errorf("send returned incomplete transaction %q", res.Txid)
		}
		return res.Txid, nil
	default:
		txid, err := p.Node.SendToAddress(p.Cfg.MinerWallet, address, amount, paymentLabel)
		if err != nil {
			return "", fmt.Errorf("sendtoaddress failed: %v", err)
		}
		return txid, nil
	}
}
