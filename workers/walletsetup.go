package workers

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/regtest-workers/btc-trader/utils"
)

const (
	minerAddressLabel  = "Mining Reward"
	traderAddressLabel = "Received"
)

// Shortened by tests; the node needs a moment to release wallet locks after
// an unload.
var (
	walletLockDelay  = 1 * time.Second
	walletSetupPause = 500 * time.Millisecond
)

// WalletSetup provisions the miner and trader wallets and derives one
// address in each. Provisioning is idempotent: re-running it against wallets
// that already exist or are already loaded is safe.
type WalletSetup struct {
	StageAbs
}

func NewWalletSetup(cfg *utils.Config, node NodeClient, logger *logrus.Logger) *WalletSetup {
	return &WalletSetup{StageAbs{
		Name:   "wallet-setup",
		Cfg:    cfg,
		Node:   node,
		Logger: utils.StageLogger(logger, "wallet-setup"),
	}}
}

func (w *WalletSetup) Execute(state *State) error {
	if err := w.EnsureWallet(w.Cfg.MinerWallet); err != nil {
		return err
	}
	time.Sleep(walletSetupPause)
	if err := w.EnsureWallet(w.Cfg.TraderWallet); err != nil {
		return err
	}

	minerAddr, err := w.Node.NewAddress(w.Cfg.MinerWallet, minerAddressLabel)
	if err != nil {
		return fmt.Errorf("could not generate address in wallet %s: %v", w.Cfg.MinerWallet, err)
	}
	w.Logger.Infof("generated miner address: %s", minerAddr)

	traderAddr, err := w.Node.NewAddress(w.Cfg.TraderWallet, traderAddressLabel)
	if err != nil {
		return fmt.Errorf("could not generate address in wallet %s: %v", w.Cfg.TraderWallet, err)
	}
	w.Logger.Infof("generated trader address: %s", traderAddr)

	state.MinerAddress = minerAddr
	state.TraderAddress = traderAddr
	return nil
}

// EnsureWallet leaves the named wallet loaded on the node. The sequence is a
// three-step fallback chain, not a retry loop: unload (the wallet may not be
// loaded, failure is ignored), load, create if loading failed, and one final
// load in case another process created the wallet first. Only the last
// failure propagates.
func (w *WalletSetup) EnsureWallet(name string) error {
	if err := w.Node.UnloadWallet(name); err != nil {
		w.Logger.Debugf("unload wallet %s: %v", name, err)
	}
	time.Sleep(walletLockDelay)

	if err := w.Node.LoadWallet(name); err == nil {
		w.Logger.Infof("wallet %s loaded", name)
		return nil
	}

	w.Logger.Infof("creating new wallet %s", name)
	err := w.Node.CreateWallet(name)
	if err == nil {
		w.Logger.Infof("wallet %s created", name)
		return nil
	}
	w.Logger.Warnf("wallet %s creation failed, trying to load again: %v", name, err)

	if err := w.Node.LoadWallet(name); err != nil {
		return fmt.Errorf("could not provision wallet %s: %v", name, err)
	}
	w.Logger.Infof("wallet %s loaded after retry", name)
	return nil
}
