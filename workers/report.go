package workers

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/sirupsen/logrus"

	"github.com/regtest-workers/btc-trader/entities"
	"github.com/regtest-workers/btc-trader/utils"
)

// Reporter writes the reconciliation result to the report file and logs the
// run summary.
type Reporter struct {
	StageAbs
}

func NewReporter(cfg *utils.Config, node NodeClient, logger *logrus.Logger) *Reporter {
	return &Reporter{StageAbs{
		Name:   "report",
		Cfg:    cfg,
		Node:   node,
		Logger: utils.StageLogger(logger, "report"),
	}}
}

func (r *Reporter) Execute(state *State) error {
	if state.Result == nil {
		return fmt.Errorf("no reconciliation result to report")
	}
	if err := WriteReport(r.Cfg.ReportPath, state.Result); err != nil {
		return fmt.Errorf("could not write report to %s: %v", r.Cfg.ReportPath, err)
	}
	r.Logger.Infof("report written to %s", r.Cfg.ReportPath)

	res := state.Result
	r.Logger.Infof("txid: %s", res.Txid)
	r.Logger.Infof("miner input: %s %s BTC", res.InputAddress, FormatAmount(res.InputAmount))
	r.Logger.Infof("trader output: %s %s BTC", res.OutputAddress, FormatAmount(res.OutputAmount))
	r.Logger.Infof("miner change: %s %s BTC", res.ChangeAddress, FormatAmount(res.ChangeAmount))
	r.Logger.Infof("fee: %s BTC", FormatAmount(res.Fee))
	r.Logger.Infof("confirmed in block %d (%s)", res.BlockHeight, res.BlockHash)
	return nil
}

// WriteReport serializes the result as exactly ten newline-terminated lines
// in fixed order: txid, input address, input amount, output address, output
// amount, change address, change amount, fee, block height, block hash.
// Consumers parse by line number; there are no labels. An existing file at
// path is overwritten.
func WriteReport(path string, res *entities.ReconciliationResult) error {
	lines := []string{
		res.Txid,
		res.InputAddress,
		FormatAmount(res.InputAmount),
		res.OutputAddress,
		FormatAmount(res.OutputAmount),
		res.ChangeAddress,
		FormatAmount(res.ChangeAmount),
		FormatAmount(res.Fee),
		strconv.FormatInt(res.BlockHeight, 10),
		res.BlockHash,
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}

// FormatAmount renders satoshis as a decimal BTC string with trailing zeros
// trimmed: 50 BTC -> "50", 29.9999 BTC -> "29.9999".
func FormatAmount(a btcutil.Amount) string {
	return strconv.FormatFloat(a.ToBTC(), 'f', -1, 64)
}
