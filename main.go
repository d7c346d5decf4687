package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/regtest-workers/btc-trader/btcrpc"
	"github.com/regtest-workers/btc-trader/ledger"
	"github.com/regtest-workers/btc-trader/utils"
)

func main() {
	// Optional; every setting has a regtest default.
	_ = godotenv.Load()

	cfg, err := utils.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger := utils.NewLogger(cfg.LogLevel)

	node, err := btcrpc.New(btcrpc.Config{
		Host: cfg.BTCNodeHost,
		Port: cfg.BTCNodePort,
		User: cfg.BTCNodeUser,
		Pass: cfg.BTCNodePassword,
	})
	if err != nil {
		logger.Fatalf("could not create node client: %v", err)
	}
	defer node.Shutdown()

	var led *ledger.Ledger
	if cfg.LedgerPath != "" {
		led, err = ledger.Open(cfg.LedgerPath)
		if err != nil {
			logger.Fatalf("could not open run ledger: %v", err)
		}
		defer led.Close()

		if last, err := led.LastTxid(); err != nil {
			logger.Warnf("could not read run ledger: %v", err)
		} else if last != "" {
			logger.Infof("previous run recorded txid %s", last)
		}
	}

	pipeline := NewPipeline(cfg, node, logger)
	if err := pipeline.Run(); err != nil {
		msg := fmt.Sprintf("regtest trader run failed: %v", err)
		if slackErr := utils.SendSlackNotification(cfg.AlertWebhookURL, msg); slackErr != nil {
			logger.Warnf("could not send alert: %v", slackErr)
		}
		logger.Fatal(msg)
	}

	if led != nil {
		if err := led.Record(pipeline.State().Result); err != nil {
			logger.Warnf("could not record run in ledger: %v", err)
		}
	}

	logger.Info("run finished")
}
