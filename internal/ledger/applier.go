package ledger

import (
	"context"

	"github.com/utxo-ledger/indexer/internal/store"
)

// Applier mutates the store within a single transaction to apply an
// already-validated block. It assumes its input was produced by Validator;
// it does not re-check economic or hash invariants.
type Applier struct{}

// NewApplier constructs an Applier.
func NewApplier() *Applier {
	return &Applier{}
}

// Apply inserts the block, its transactions, marks spent outputs, inserts
// new outputs, and adjusts cached balances by delta, in submission order.
func (a *Applier) Apply(ctx context.Context, tx store.Tx, block BlockInput) error {
	if err := tx.InsertBlock(ctx, block.ID, block.Height); err != nil {
		return err
	}

	for _, t := range block.Transactions {
		if err := tx.InsertTransaction(ctx, t.ID, block.ID); err != nil {
			return err
		}

		for _, ref := range t.Inputs {
			spent, err := tx.GetOutput(ctx, ref.TxID, ref.Index)
			if err != nil {
				return err
			}
			if spent == nil {
				return NewError(CodeNonexistentOutput, "output %s does not exist", outputKey(ref.TxID, ref.Index))
			}

			if err := tx.MarkOutputSpent(ctx, ref.TxID, ref.Index); err != nil {
				return err
			}
			if err := tx.InsertInput(ctx, t.ID, ref.TxID, ref.Index); err != nil {
				return err
			}
			if err := tx.UpsertBalanceDelta(ctx, spent.Address, -spent.Value); err != nil {
				return err
			}
		}

		for i, o := range t.Outputs {
			if err := tx.InsertOutput(ctx, t.ID, uint32(i), o.Address, o.Value); err != nil {
				return err
			}
			if err := tx.UpsertBalanceDelta(ctx, o.Address, o.Value); err != nil {
				return err
			}
		}
	}

	return nil
}
