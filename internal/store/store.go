// Package store is the transactional persistence abstraction the ledger
// engine depends on. It is modeled after the Pool/Transaction duality used
// by the metadata store plugins it was grounded on: callers that hold a
// Store may open a Tx for the lifetime of one mutating operation; both Store
// and Tx satisfy Reader for the lookups that are safe to run either way.
package store

import "context"

// OutputView is a read projection of an Output row.
type OutputView struct {
	Address string
	Value   int64
	Spent   bool
}

// Reader is the set of lookups that can run against either a Pool (its own
// auto-committing connection) or a Tx (participating in an outer unit of
// work).
type Reader interface {
	// MaxBlockHeight returns the current chain height, or 0 if no blocks
	// have been committed yet.
	MaxBlockHeight(ctx context.Context) (uint64, error)

	// GetOutput returns the output at (txID, index), or nil if it does not
	// exist.
	GetOutput(ctx context.Context, txID string, index uint32) (*OutputView, error)

	// SumUnspentByAddress computes the balance for address directly from
	// unspent outputs (the audit path, invariant I5).
	SumUnspentByAddress(ctx context.Context, address string) (int64, error)

	// GetAddressBalance reads the cached balance for address. ok is false
	// when the address has no cached row; callers read that as a zero
	// balance.
	GetAddressBalance(ctx context.Context, address string) (balance int64, ok bool, err error)
}

// Tx is the set of mutations available within a single transaction.
type Tx interface {
	Reader

	InsertBlock(ctx context.Context, id string, height uint64) error
	InsertTransaction(ctx context.Context, id, blockID string) error
	InsertOutput(ctx context.Context, txID string, index uint32, address string, value int64) error
	InsertInput(ctx context.Context, txID, spentTxID string, spentIndex uint32) error
	MarkOutputSpent(ctx context.Context, txID string, index uint32) error

	// DeleteBlocksAbove removes every block with height > targetHeight.
	// The store's schema cascades the delete to their transactions,
	// outputs, and inputs.
	DeleteBlocksAbove(ctx context.Context, targetHeight uint64) error

	// UnspendOrphanedOutputs clears the spent flag on every surviving
	// output no longer referenced by any surviving input.
	UnspendOrphanedOutputs(ctx context.Context) error

	// RebuildAddressBalances clears and repopulates the AddressBalance
	// relation from the surviving unspent outputs.
	RebuildAddressBalances(ctx context.Context) error

	// UpsertBalanceDelta adds delta to address's cached balance, inserting
	// a new row with delta as the initial balance if none exists.
	UpsertBalanceDelta(ctx context.Context, address string, delta int64) error
}

// Store is the top-level handle the engine is constructed with.
type Store interface {
	Reader

	// WithinTx runs fn inside a single transaction, committing on a nil
	// return and rolling back otherwise. Nested calls are not supported.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}
