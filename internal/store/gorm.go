package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/utxo-ledger/indexer/internal/models"
)

// gormReader implements Reader against whatever *gorm.DB it is handed,
// whether that is a pool connection or one already inside a transaction.
// This mirrors the resolveDB pattern the store contract was grounded on:
// one code path serves both the Pool and the Tx case.
type gormReader struct {
	db *gorm.DB
}

func (r *gormReader) MaxBlockHeight(ctx context.Context) (uint64, error) {
	var height uint64
	row := r.db.WithContext(ctx).Model(&models.Block{}).Select("COALESCE(MAX(height), 0)").Row()
	if err := row.Scan(&height); err != nil {
		return 0, err
	}
	return height, nil
}

func (r *gormReader) GetOutput(ctx context.Context, txID string, index uint32) (*OutputView, error) {
	var out models.Output
	err := r.db.WithContext(ctx).
		First(&out, "transaction_id = ? AND output_index = ?", txID, index).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &OutputView{Address: out.Address, Value: out.Value, Spent: out.Spent}, nil
}

func (r *gormReader) SumUnspentByAddress(ctx context.Context, address string) (int64, error) {
	var total int64
	row := r.db.WithContext(ctx).Model(&models.Output{}).
		Where("address = ? AND spent = false", address).
		Select("COALESCE(SUM(value), 0)").Row()
	if err := row.Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *gormReader) GetAddressBalance(ctx context.Context, address string) (int64, bool, error) {
	var bal models.AddressBalance
	err := r.db.WithContext(ctx).First(&bal, "address = ?", address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return bal.Balance, true, nil
}

// gormTx implements Tx against a *gorm.DB already inside a transaction.
type gormTx struct {
	gormReader
}

func (t *gormTx) InsertBlock(ctx context.Context, id string, height uint64) error {
	return t.db.WithContext(ctx).Create(&models.Block{
		ID:        id,
		Height:    height,
		CreatedAt: time.Now().UTC(),
	}).Error
}

func (t *gormTx) InsertTransaction(ctx context.Context, id, blockID string) error {
	return t.db.WithContext(ctx).Create(&models.Transaction{
		ID:        id,
		BlockID:   blockID,
		CreatedAt: time.Now().UTC(),
	}).Error
}

func (t *gormTx) InsertOutput(ctx context.Context, txID string, index uint32, address string, value int64) error {
	return t.db.WithContext(ctx).Create(&models.Output{
		TransactionID: txID,
		OutputIndex:   index,
		Address:       address,
		Value:         value,
		Spent:         false,
	}).Error
}

func (t *gormTx) InsertInput(ctx context.Context, txID, spentTxID string, spentIndex uint32) error {
	return t.db.WithContext(ctx).Create(&models.Input{
		TransactionID:      txID,
		SpentTransactionID: spentTxID,
		SpentOutputIndex:   spentIndex,
	}).Error
}

func (t *gormTx) MarkOutputSpent(ctx context.Context, txID string, index uint32) error {
	return t.db.WithContext(ctx).Model(&models.Output{}).
		Where("transaction_id = ? AND output_index = ?", txID, index).
		Update("spent", true).Error
}

func (t *gormTx) DeleteBlocksAbove(ctx context.Context, targetHeight uint64) error {
	return t.db.WithContext(ctx).
		Where("height > ?", targetHeight).
		Delete(&models.Block{}).Error
}

func (t *gormTx) UnspendOrphanedOutputs(ctx context.Context) error {
	return t.db.WithContext(ctx).Exec(`
		UPDATE ledger_outputs o SET spent = false
		WHERE o.spent = true
		AND NOT EXISTS (
			SELECT 1 FROM ledger_inputs i
			WHERE i.spent_transaction_id = o.transaction_id
			AND i.spent_output_index = o.output_index
		)
	`).Error
}

func (t *gormTx) RebuildAddressBalances(ctx context.Context) error {
	if err := t.db.WithContext(ctx).Exec("DELETE FROM ledger_address_balances").Error; err != nil {
		return err
	}
	return t.db.WithContext(ctx).Exec(`
		INSERT INTO ledger_address_balances (address, balance)
		SELECT address, SUM(value) FROM ledger_outputs
		WHERE spent = false
		GROUP BY address
	`).Error
}

func (t *gormTx) UpsertBalanceDelta(ctx context.Context, address string, delta int64) error {
	return t.db.WithContext(ctx).Exec(`
		INSERT INTO ledger_address_balances (address, balance)
		VALUES (?, ?)
		ON CONFLICT (address) DO UPDATE SET balance = ledger_address_balances.balance + excluded.balance
	`, address, delta).Error
}

// Pool is the Store implementation backed by a *gorm.DB connection pool;
// every call through Reader auto-commits.
type Pool struct {
	gormReader
}

// NewPool wraps db as a Store.
func NewPool(db *gorm.DB) *Pool {
	return &Pool{gormReader{db: db}}
}

// WithinTx opens a GORM transaction, runs fn against a Tx bound to it, and
// commits on success or rolls back on any error (including a panic, which
// is re-raised after rollback).
func (p *Pool) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	return p.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&gormTx{gormReader{db: db}})
	})
}
