// Package ledger persists reconciliation results across runs in a local
// leveldb store, so a re-run against the same node can report what the
// previous run produced.
package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/regtest-workers/btc-trader/entities"
)

const lastTxidKey = "last-txid"

func runKey(txid string) []byte {
	return []byte("run-" + txid)
}

type Ledger struct {
	db *leveldb.DB
}

func Open(path string) (*Ledger, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("could not open ledger at %s: %v", path, err)
	}
	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record stores the result under its txid and marks it as the latest run.
func (l *Ledger) Record(res *entities.ReconciliationResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("could not marshal result for tx %s: %v", res.Txid, err)
	}
	if err := l.db.Put(runKey(res.Txid), data, nil); err != nil {
		return err
	}
	return l.db.Put([]byte(lastTxidKey), []byte(res.Txid), nil)
}

// LastTxid returns the txid of the most recent recorded run, or "" when the
// ledger is empty.
func (l *Ledger) LastTxid() (string, error) {
	data, err := l.db.Get([]byte(lastTxidKey), nil)
	if err == leveldb.ErrNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Get returns the recorded result for a txid, or nil when the txid was never
// recorded.
func (l *Ledger) Get(txid string) (*entities.ReconciliationResult, error) {
	data, err := l.db.Get(runKey(txid), nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var res entities.ReconciliationResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("could not decode recorded run %s: %v", txid, err)
	}
	return &res, nil
}
