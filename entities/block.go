package entities

// Block is the getblock result at verbosity 1 (tx ids only).
type Block struct {
	Hash              string   `json:"hash"`
	Confirmations     int64    `json:"confirmations"`
	Height            int64    `json:"height"`
	Version           int32    `json:"version"`
	MerkleRoot        string   `json:"merkleroot"`
	Time              int64    `json:"time"`
	MedianTime        int64    `json:"mediantime"`
	Nonce             uint32   `json:"nonce"`
	Bits              string   `json:"bits"`
	Difficulty        float64  `json:"difficulty"`
	NTx               int      `json:"nTx"`
	PreviousBlockHash string   `json:"previousblockhash"`
	Tx                []string `json:"tx"`
}
