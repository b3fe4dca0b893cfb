package ledger

import (
	"context"

	"github.com/utxo-ledger/indexer/internal/store"
)

// RollbackEngine restores state to the snapshot immediately after applying
// the block at a target height.
type RollbackEngine struct{}

// NewRollbackEngine constructs a RollbackEngine.
func NewRollbackEngine() *RollbackEngine {
	return &RollbackEngine{}
}

// RollbackTo deletes every block above targetHeight in one transaction,
// un-spends outputs no longer referenced by any surviving input, and
// rebuilds the balance view. It is a no-op when the chain is already at or
// below targetHeight (idempotent rollback, P6).
func (r *RollbackEngine) RollbackTo(ctx context.Context, s store.Store, targetHeight int64) error {
	if targetHeight < 0 {
		return NewError(CodeInvalidTarget, "target height must be non-negative, got %d", targetHeight)
	}

	height, err := s.MaxBlockHeight(ctx)
	if err != nil {
		return Internal(err)
	}
	if height == 0 || uint64(targetHeight) >= height {
		return nil
	}

	err = s.WithinTx(ctx, func(tx store.Tx) error {
		if err := tx.DeleteBlocksAbove(ctx, uint64(targetHeight)); err != nil {
			return err
		}
		if err := tx.UnspendOrphanedOutputs(ctx); err != nil {
			return err
		}
		return tx.RebuildAddressBalances(ctx)
	})
	if err != nil {
		return Internal(err)
	}
	return nil
}
