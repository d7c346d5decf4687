package btcrpc

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/rpcclient"

	"github.com/regtest-workers/btc-trader/entities"
)

// Config holds the node endpoint and credentials. Wallet-scoped endpoints
// are derived from it by appending /wallet/<name> to the host.
type Config struct {
	Host string
	Port string
	User string
	Pass string
}

// Client wraps rpcclient with the two call styles the pipeline needs: the
// typed method set for blockchain and wallet operations, and a raw
// json.RawMessage path for RPCs that rpcclient does not expose (send) or
// whose typed result shapes drift across node versions (getrawtransaction,
// getmempoolentry, getblock). Both styles share the same transport, auth and
// error handling.
//
// Bitcoin Core scopes wallet RPCs by URL path, so the client keeps one base
// connection plus one lazily-built connection per wallet.
type Client struct {
	cfg  Config
	base *rpcclient.Client

	mu      sync.Mutex
	wallets map[string]*rpcclient.Client
}

// New connects to the node. Bitcoin Core only supports HTTP POST mode and
// does not serve TLS by default.
func New(cfg Config) (*Client, error) {
	base, err := rpcclient.New(connConfig(cfg, ""), nil)
	if err != nil {
		return nil, fmt.Errorf("could not create btc rpc client: %v", err)
	}
	return &Client{
		cfg:     cfg,
		base:    base,
		wallets: make(map[string]*rpcclient.Client),
	}, nil
}

func connConfig(cfg Config, wallet string) *rpcclient.ConnConfig {
	host := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	if wallet != "" {
		host = fmt.Sprintf("%s/wallet/%s", host, wallet)
	}
	return &rpcclient.ConnConfig{
		Host:         host,
		User:         cfg.User,
		Pass:         cfg.Pass,
		Params:       chaincfg.RegressionNetParams.Name,
		HTTPPostMode: true,
		DisableTLS:   true,
	}
}

func (c *Client) walletClient(wallet string) (*rpcclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if wc, ok := c.wallets[wallet]; ok {
		return wc, nil
	}
	wc, err := rpcclient.New(connConfig(c.cfg, wallet), nil)
	if err != nil {
		return nil, fmt.Errorf("could not create rpc client for wallet %s: %v", wallet, err)
	}
	c.wallets[wallet] = wc
	return wc, nil
}

// Shutdown releases all underlying connections.
func (c *Client) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.base.Shutdown()
	for _, wc := range c.wallets {
		wc.Shutdown()
	}
}

// GetBlockChainInfo doubles as the connectivity/auth check: it is the first
// call the pipeline makes.
func (c *Client) GetBlockChainInfo() (*btcjson.GetBlockChainInfoResult, error) {
	return c.base.GetBlockChainInfo()
}

func (c *Client) CreateWallet(name string) error {
	_, err := c.base.CreateWallet(name)
	return err
}

func (c *Client) LoadWallet(name string) error {
	_, err := c.base.LoadWallet(name)
	return err
}

func (c *Client) UnloadWallet(name string) error {
	return c.base.UnloadWallet(&name)
}

// NewAddress generates a fresh address in the wallet under the given label.
// The address is returned as an opaque string; nothing downstream ever
// parses it.
func (c *Client) NewAddress(wallet, label string) (string, error) {
	wc, err := c.walletClient(wallet)
	if err != nil {
		return "", err
	}
	addr, err := wc.GetNewAddress(label)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

// Balance returns the wallet's total spendable balance in satoshis. Only
// matured coinbase outputs count, which is what the mining convergence loop
// relies on.
func (c *Client) Balance(wallet string) (btcutil.Amount, error) {
	wc, err := c.walletClient(wallet)
	if err != nil {
		return 0, err
	}
	return wc.GetBalance("*")
}

// MineToAddress mines numBlocks blocks paying the coinbase to address and
// returns their hashes.
func (c *Client) MineToAddress(numBlocks int64, address string) ([]string, error) {
	addr, err := btcutil.DecodeAddress(address, &chaincfg.RegressionNetParams)
	if err != nil {
		return nil, fmt.Errorf("could not decode mining address %s: %v", address, err)
	}
	hashes, err := c.base.GenerateToAddress(numBlocks, addr, nil)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(hashes))
	for _, h := range hashes {
		out = append(out, h.String())
	}
	return out, nil
}

// SendToAddress pays amount to address from the wallet via the classic
// sendtoaddress RPC, with label as the transaction comment. Fee rate and
// confirmation target are left to node defaults.
func (c *Client) SendToAddress(wallet, address string, amount btcutil.Amount, label string) (string, error) {
	wc, err := c.walletClient(wallet)
	if err != nil {
		return "", err
	}
	addr, err := btcutil.DecodeAddress(address, &chaincfg.RegressionNetParams)
	if err != nil {
		return "", fmt.Errorf("could not decode destination address %s: %v", address, err)
	}
	txHash, err := wc.SendToAddressComment(addr, amount, label, "")
	if err != nil {
		return "", err
	}
	return txHash.String(), nil
}

// Send pays amount to address via the `send` wallet RPC, which has no typed
// binding, using the raw request escape hatch. Conf target, estimate mode,
// fee rate and the options object are all left null so node defaults apply,
// mirroring sendtoaddress.
func (c *Client) Send(wallet, address string, amount btcutil.Amount) (*entities.SendResult, error) {
	wc, err := c.walletClient(wallet)
	if err != nil {
		return nil, err
	}
	var result entities.SendResult
	err = rawCall(wc, "send", []interface{}{
		map[string]float64{address: amount.ToBTC()},
		nil, // conf target
		nil, // estimate mode
		nil, // fee rate in sats/vb
		nil, // options
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetRawTransaction fetches the verbose form of a transaction.
func (c *Client) GetRawTransaction(txid string) (*entities.RawTransaction, error) {
	var tx entities.RawTransaction
	if err := rawCall(c.base, "getrawtransaction", []interface{}{txid, true}, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetMempoolEntry fetches the mempool entry of an unconfirmed transaction.
func (c *Client) GetMempoolEntry(txid string) (*entities.MempoolEntry, error) {
	var entry entities.MempoolEntry
	if err := rawCall(c.base, "getmempoolentry", []interface{}{txid}, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetBlock fetches block metadata (verbosity 1).
func (c *Client) GetBlock(hash string) (*entities.Block, error) {
	var block entities.Block
	if err := rawCall(c.base, "getblock", []interface{}{hash}, &block); err != nil {
		return nil, err
	}
	return &block, nil
}

// rawCall marshals params, performs a raw JSON-RPC request on the given
// connection and decodes the result into out.
func rawCall(rc *rpcclient.Client, method string, params []interface{}, out interface{}) error {
	rawParams := make([]json.RawMessage, 0, len(params))
	for _, p := range params {
		b, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("could not marshal %s param: %v", method, err)
		}
		rawParams = append(rawParams, b)
	}
	res, err := rc.RawRequest(method, rawParams)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(res, out); err != nil {
		return fmt.Errorf("could not decode %s response: %v", method, err)
	}
	return nil
}
