package utils

import (
	"fmt"
	"os"
	"strconv"
)

// Payment RPC selection. Both are node send primitives with default fee
// policy; `send` is only reachable through the raw request path.
const (
	PaymentRPCSendToAddress = "sendtoaddress"
	PaymentRPCSend          = "send"
)

// Config carries everything the pipeline needs: node endpoint and
// credentials, wallet names, the payment to perform, and output locations.
// It is loaded once in main and passed down explicitly so tests can build
// their own.
type Config struct {
	BTCNodeHost     string
	BTCNodePort     string
	BTCNodeUser     string
	BTCNodePassword string

	MinerWallet  string
	TraderWallet string

	// PaymentAmount is in BTC.
	PaymentAmount float64
	PaymentRPC    string

	ReportPath string
	// LedgerPath enables the run ledger when non-empty.
	LedgerPath string

	AlertWebhookURL string
	LogLevel        string
}

// LoadConfig reads the configuration from environment variables. Every field
// has a regtest default so the binary runs against a stock local node with
// an empty environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		BTCNodeHost:     getEnvOrDefault("BTC_NODE_HOST", "127.0.0.1"),
		BTCNodePort:     getEnvOrDefault("BTC_NODE_PORT", "18443"),
		BTCNodeUser:     getEnvOrDefault("BTC_NODE_USERNAME", "alice"),
		BTCNodePassword: getEnvOrDefault("BTC_NODE_PASSWORD", "password"),
		MinerWallet:     getEnvOrDefault("MINER_WALLET", "Miner"),
		TraderWallet:    getEnvOrDefault("TRADER_WALLET", "Trader"),
		PaymentRPC:      getEnvOrDefault("PAYMENT_RPC", PaymentRPCSendToAddress),
		ReportPath:      getEnvOrDefault("REPORT_PATH", "out.txt"),
		LedgerPath:      os.Getenv("LEDGER_PATH"),
		AlertWebhookURL: os.Getenv("ALERT_WEBHOOK_URL"),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
	}

	amountStr := getEnvOrDefault("PAYMENT_AMOUNT", "20")
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return nil, fmt.Errorf("PAYMENT_AMOUNT %q is not a number: %v", amountStr, err)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("PAYMENT_AMOUNT must be positive, got %v", amount)
	}
	cfg.PaymentAmount = amount

	if cfg.PaymentRPC != PaymentRPCSendToAddress && cfg.PaymentRPC != PaymentRPCSend {
		return nil, fmt.Errorf("PAYMENT_RPC must be %q or %q, got %q",
			PaymentRPCSendToAddress, PaymentRPCSend, cfg.PaymentRPC)
	}
	if cfg.MinerWallet == cfg.TraderWallet {
		return nil, fmt.Errorf("MINER_WALLET and TRADER_WALLET must differ, both are %q", cfg.MinerWallet)
	}

	return cfg, nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
