package entities

// SendResult is the response of the `send` wallet RPC, which has no typed
// binding in rpcclient.
type SendResult struct {
	Complete bool   `json:"complete"`
	Txid     string `json:"txid"`
}
