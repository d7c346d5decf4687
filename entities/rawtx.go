package entities

// RawTransaction is the verbose getrawtransaction result. Only the fields
// the reconciliation path reads are mapped.
type RawTransaction struct {
	Txid          string `json:"txid"`
	Hash          string `json:"hash"`
	Size          int    `json:"size"`
	Vsize         int    `json:"vsize"`
	Version       int    `json:"version"`
	Locktime      uint32 `json:"locktime"`
	Vin           []Vin  `json:"vin"`
	Vout          []Vout `json:"vout"`
	BlockHash     string `json:"blockhash"`
	Confirmations uint64 `json:"confirmations"`
	Time          int64  `json:"time"`
	BlockTime     int64  `json:"blocktime"`
}

type Vin struct {
	Txid     string `json:"txid"`
	Vout     uint32 `json:"vout"`
	Coinbase string `json:"coinbase"`
	Sequence uint32 `json:"sequence"`
}

type Vout struct {
	// Value is in BTC, as the node reports it.
	Value        float64      `json:"value"`
	N            uint32       `json:"n"`
	ScriptPubKey ScriptPubKey `json:"scriptPubKey"`
}

type ScriptPubKey struct {
	Asm  string `json:"asm"`
	Hex  string `json:"hex"`
	Type string `json:"type"`
	// Address is absent on non-standard outputs (e.g. OP_RETURN).
	Address   string   `json:"address"`
	Addresses []string `json:"addresses"`
}

// AddressString returns the output address, falling back to the legacy
// plural field still emitted by older nodes. Empty when the output has no
// address form.
func (s ScriptPubKey) AddressString() string {
	if s.Address != "" {
		return s.Address
	}
	if len(s.Addresses) > 0 {
		return s.Addresses[0]
	}
	return ""
}
