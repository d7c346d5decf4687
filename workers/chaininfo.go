package workers

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/regtest-workers/btc-trader/utils"
)

// ChainInfo queries the node's blockchain state. Being the first RPC of the
// run it is also the connectivity and auth check: a wrong endpoint or bad
// credentials fails here, before any wallet is touched.
type ChainInfo struct {
	StageAbs
}

func NewChainInfo(cfg *utils.Config, node NodeClient, logger *logrus.Logger) *ChainInfo {
	return &ChainInfo{StageAbs{
		Name:   "chain-info",
		Cfg:    cfg,
		Node:   node,
		Logger: utils.StageLogger(logger, "chain-info"),
	}}
}

func (c *ChainInfo) Execute(state *State) error {
	info, err := c.Node.GetBlockChainInfo()
	if err != nil {
		return fmt.Errorf("could not reach node at %s:%s: %v", c.Cfg.BTCNodeHost, c.Cfg.BTCNodePort, err)
	}

	if info.Chain != "regtest" {
		c.Logger.Warnf("node is on chain %q, expected regtest", info.Chain)
	}
	c.Logger.Infof("connected: chain=%s blocks=%d bestblockhash=%s", info.Chain, info.Blocks, info.BestBlockHash)
	return nil
}
