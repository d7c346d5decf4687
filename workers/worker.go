package workers

import (
	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/sirupsen/logrus"

	"github.com/regtest-workers/btc-trader/entities"
	"github.com/regtest-workers/btc-trader/utils"
)

// NodeClient is the set of node operations the pipeline stages need. It is
// implemented by btcrpc.Client; tests substitute an in-memory fake.
type NodeClient interface {
	GetBlockChainInfo() (*btcjson.GetBlockChainInfoResult, error)

	CreateWallet(name string) error
	LoadWallet(name string) error
	UnloadWallet(name string) error
	NewAddress(wallet, label string) (string, error)
	Balance(wallet string) (btcutil.Amount, error)

	MineToAddress(numBlocks int64, address string) ([]string, error)
	SendToAddress(wallet, address string, amount btcutil.Amount, label string) (string, error)
	Send(wallet, address string, amount btcutil.Amount) (*entities.SendResult, error)

	GetRawTransaction(txid string) (*entities.RawTransaction, error)
	GetMempoolEntry(txid string) (*entities.MempoolEntry, error)
	GetBlock(hash string) (*entities.Block, error)
}

// Stage is one step of the pipeline. Stages run strictly in order and
// communicate through the shared State; the first error aborts the run.
type Stage interface {
	Execute(state *State) error
	GetName() string
}

// StageAbs carries what every stage needs: the config, the node client and
// a logger entry tagged with the stage name.
type StageAbs struct {
	Name   string
	Cfg    *utils.Config
	Node   NodeClient
	Logger *logrus.Entry
}

func (s *StageAbs) GetName() string {
	return s.Name
}

// State is the data flowing between stages over one run.
type State struct {
	MinerAddress  string
	TraderAddress string

	BlocksMined  int
	MinerBalance btcutil.Amount

	PaymentTxid      string
	ConfirmBlockHash string

	Result *entities.ReconciliationResult
}
