package entities

import "github.com/btcsuite/btcd/btcutil"

// ReconciliationResult is the flat record produced after a payment confirms:
// the spent input resolved back to its originating output, the payee and
// change outputs, the implied fee, and the confirmation block coordinates.
// Amounts are kept in satoshis so the fee arithmetic is exact.
type ReconciliationResult struct {
	Txid          string         `json:"txid"`
	InputAddress  string         `json:"inputAddress"`
	InputAmount   btcutil.Amount `json:"inputAmount"`
	OutputAddress string         `json:"outputAddress"`
	OutputAmount  btcutil.Amount `json:"outputAmount"`
	ChangeAddress string         `json:"changeAddress"`
	ChangeAmount  btcutil.Amount `json:"changeAmount"`
	Fee           btcutil.Amount `json:"fee"`
	BlockHeight   int64          `json:"blockHeight"`
	BlockHash     string         `json:"blockHash"`
}
