package workers

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/sirupsen/logrus"

	"github.com/regtest-workers/btc-trader/utils"
)

// Miner mines one block at a time to the miner address until the miner
// wallet reports a positive spendable balance. Coinbase rewards only mature
// after 100 further blocks, so on a fresh regtest chain the loop is expected
// to run 101 times; that is a property of the network, not handled
// specially. No iteration cap: the target network mines instantly and is
// fully under the caller's control.
type Miner struct {
	StageAbs
}

func NewMiner(cfg *utils.Config, node NodeClient, logger *logrus.Logger) *Miner {
	return &Miner{StageAbs{
		Name:   "mining",
		Cfg:    cfg,
		Node:   node,
		Logger: utils.StageLogger(logger, "mining"),
	}}
}

func (m *Miner) Execute(state *State) error {
	blocksMined, balance, err := m.MineUntilPositiveBalance(state.MinerAddress)
	if err != nil {
		return err
	}

	m.Logger.Infof("it took %d blocks to reach a positive spendable balance: "+
		"block rewards need 100 confirmations to mature", blocksMined)
	m.Logger.Infof("miner wallet balance: %s", balance)

	state.BlocksMined = blocksMined
	state.MinerBalance = balance
	return nil
}

// MineUntilPositiveBalance returns the number of blocks mined and the final
// balance. Balance comparisons are in satoshis, so there is no floating
// point boundary artifact at zero.
func (m *Miner) MineUntilPositiveBalance(address string) (int, btcutil.Amount, error) {
	blocksMined := 0
	for {
		blocksMined++
		hashes, err := m.Node.MineToAddress(1, address)
		if err != nil {
			return blocksMined, 0, fmt.Errorf("could not mine block %d: %v", blocksMined, err)
		}
		m.Logger.Debugf("mined block %d: %s", blocksMined, hashes[0])

		balance, err := m.Node.Balance(m.Cfg.MinerWallet)
		if err != nil {
			return blocksMined, 0, fmt.Errorf("could not query wallet %s balance: %v", m.Cfg.MinerWallet, err)
		}
		m.Logger.Debugf("balance after %d blocks: %s", blocksMined, balance)

		if balance > 0 {
			return blocksMined, balance, nil
		}
	}
}
