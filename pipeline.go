package main

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/regtest-workers/btc-trader/utils"
	"github.com/regtest-workers/btc-trader/workers"
)

// Pipeline runs the stages strictly in order: chain info, wallet setup,
// mining until spendable balance, payment, reconciliation, report. The
// whole run is single-threaded; every RPC blocks until the node answers.
type Pipeline struct {
	cfg    *utils.Config
	logger *logrus.Logger
	stages []workers.Stage
	state  *workers.State
}

func NewPipeline(cfg *utils.Config, node workers.NodeClient, logger *logrus.Logger) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		logger: logger,
		stages: []workers.Stage{
			workers.NewChainInfo(cfg, node, logger),
			workers.NewWalletSetup(cfg, node, logger),
			workers.NewMiner(cfg, node, logger),
			workers.NewPayment(cfg, node, logger),
			workers.NewReconciler(cfg, node, logger),
			workers.NewReporter(cfg, node, logger),
		},
	}
}

// Run executes the stages and keeps the final state for the caller. The
// first stage error aborts the run.
func (p *Pipeline) Run() error {
	state := &workers.State{}
	for _, stage := range p.stages {
		p.logger.Infof("=== %s ===", stage.GetName())
		start := time.Now()
		if err := stage.Execute(state); err != nil {
			return fmt.Errorf("%s stage failed: %v", stage.GetName(), err)
		}
		p.logger.Infof("%s done in %v", stage.GetName(), time.Since(start).Round(time.Millisecond))
	}
	p.state = state
	return nil
}

// State returns the state of the last successful run, nil before that.
func (p *Pipeline) State() *workers.State {
	return p.state
}
