package workers

import (
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"

	"github.com/regtest-workers/btc-trader/entities"
)

// fakeNode is an in-memory NodeClient with just enough wallet and chain
// behavior for the stages: wallet registry with load state, coinbase
// maturity on mined blocks, and canned transaction/block/mempool fixtures.
type fakeNode struct {
	// maturity is the number of confirmations a coinbase output needs
	// before it counts towards the balance.
	maturity int
	subsidy  btcutil.Amount

	chainHeight int64
	wallets     map[string]*fakeWallet
	// addrOwner maps generated addresses back to their wallet;
	// coinbaseHeights records at which height each address was paid.
	addrOwner       map[string]string
	coinbaseHeights map[string][]int64
	addrSeq         int

	// failLoads forces the next n LoadWallet calls to fail, to drive the
	// provisioner down its fallback chain.
	failLoads int
	createErr error

	sendToAddressErr error
	sendResult       *entities.SendResult
	sendErr          error
	lastSendWallet   string
	lastSendAddress  string
	lastSendAmount   btcutil.Amount
	lastSendLabel    string
	sentTxid         string

	txs     map[string]*entities.RawTransaction
	mempool map[string]*entities.MempoolEntry
	blocks  map[string]*entities.Block
}

type fakeWallet struct {
	exists bool
	loaded bool
}

func newFakeNode() *fakeNode {
	subsidy, _ := btcutil.NewAmount(50)
	return &fakeNode{
		maturity:        100,
		subsidy:         subsidy,
		wallets:         make(map[string]*fakeWallet),
		addrOwner:       make(map[string]string),
		coinbaseHeights: make(map[string][]int64),
		txs:             make(map[string]*entities.RawTransaction),
		mempool:         make(map[string]*entities.MempoolEntry),
		blocks:          make(map[string]*entities.Block),
	}
}

func (f *fakeNode) GetBlockChainInfo() (*btcjson.GetBlockChainInfoResult, error) {
	return &btcjson.GetBlockChainInfoResult{
		Chain:  "regtest",
		Blocks: int32(f.chainHeight),
	}, nil
}

func (f *fakeNode) CreateWallet(name string) error {
	if f.createErr != nil {
		return f.createErr
	}
	w := f.wallet(name)
	if w.exists {
		return fmt.Errorf("wallet %s already exists", name)
	}
	w.exists = true
	w.loaded = true
	return nil
}

func (f *fakeNode) LoadWallet(name string) error {
	if f.failLoads > 0 {
		f.failLoads--
		return fmt.Errorf("wallet %s temporarily unavailable", name)
	}
	w := f.wallet(name)
	if !w.exists {
		return fmt.Errorf("wallet %s not found", name)
	}
	if w.loaded {
		return fmt.Errorf("wallet %s is already loaded", name)
	}
	w.loaded = true
	return nil
}

func (f *fakeNode) UnloadWallet(name string) error {
	w := f.wallet(name)
	if !w.loaded {
		return fmt.Errorf("wallet %s not loaded", name)
	}
	w.loaded = false
	return nil
}

func (f *fakeNode) NewAddress(wallet, label string) (string, error) {
	w := f.wallet(wallet)
	if !w.loaded {
		return "", fmt.Errorf("wallet %s not loaded", wallet)
	}
	f.addrSeq++
	addr := fmt.Sprintf("bcrt1qfake%s%d", wallet, f.addrSeq)
	f.addrOwner[addr] = wallet
	return addr, nil
}

func (f *fakeNode) Balance(wallet string) (btcutil.Amount, error) {
	w := f.wallet(wallet)
	if !w.loaded {
		return 0, fmt.Errorf("wallet %s not loaded", wallet)
	}
	var total btcutil.Amount
	for addr, owner := range f.addrOwner {
		if owner != wallet {
			continue
		}
		for _, h := range f.coinbaseHeights[addr] {
			if f.chainHeight-h >= int64(f.maturity) {
				total += f.subsidy
			}
		}
	}
	return total, nil
}

func (f *fakeNode) MineToAddress(numBlocks int64, address string) ([]string, error) {
	hashes := make([]string, 0, numBlocks)
	for i := int64(0); i < numBlocks; i++ {
		f.chainHeight++
		f.coinbaseHeights[address] = append(f.coinbaseHeights[address], f.chainHeight)
		hashes = append(hashes, fmt.Sprintf("%064d", f.chainHeight))
	}
	return hashes, nil
}

func (f *fakeNode) SendToAddress(wallet, address string, amount btcutil.Amount, label string) (string, error) {
	if f.sendToAddressErr != nil {
		return "", f.sendToAddressErr
	}
	f.lastSendWallet = wallet
	f.lastSendAddress = address
	f.lastSendAmount = amount
	f.lastSendLabel = label
	return f.sentTxid, nil
}

func (f *fakeNode) Send(wallet, address string, amount btcutil.Amount) (*entities.SendResult, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.lastSendWallet = wallet
	f.lastSendAddress = address
	f.lastSendAmount = amount
	return f.sendResult, nil
}

func (f *fakeNode) GetRawTransaction(txid string) (*entities.RawTransaction, error) {
	tx, ok := f.txs[txid]
	if !ok {
		return nil, fmt.Errorf("no such mempool or blockchain transaction: %s", txid)
	}
	return tx, nil
}

func (f *fakeNode) GetMempoolEntry(txid string) (*entities.MempoolEntry, error) {
	entry, ok := f.mempool[txid]
	if !ok {
		return nil, fmt.Errorf("transaction not in mempool: %s", txid)
	}
	return entry, nil
}

func (f *fakeNode) GetBlock(hash string) (*entities.Block, error) {
	block, ok := f.blocks[hash]
	if !ok {
		return nil, fmt.Errorf("block not found: %s", hash)
	}
	return block, nil
}

func (f *fakeNode) wallet(name string) *fakeWallet {
	w, ok := f.wallets[name]
	if !ok {
		w = &fakeWallet{}
		f.wallets[name] = w
	}
	return w
}
