package entities

// MempoolEntry is the getmempoolentry result for an unconfirmed transaction.
type MempoolEntry struct {
	Vsize           int         `json:"vsize"`
	Weight          int         `json:"weight"`
	Time            int64       `json:"time"`
	Height          int64       `json:"height"`
	DescendantCount int         `json:"descendantcount"`
	AncestorCount   int         `json:"ancestorcount"`
	Wtxid           string      `json:"wtxid"`
	Fees            MempoolFees `json:"fees"`
	Bip125Replace   bool        `json:"bip125-replaceable"`
	Unbroadcast     bool        `json:"unbroadcast"`
}

// MempoolFees are in BTC.
type MempoolFees struct {
	Base       float64 `json:"base"`
	Modified   float64 `json:"modified"`
	Ancestor   float64 `json:"ancestor"`
	Descendant float64 `json:"descendant"`
}
