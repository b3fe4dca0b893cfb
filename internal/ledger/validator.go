package ledger

import (
	"context"
	"fmt"

	"github.com/utxo-ledger/indexer/internal/store"
)

// Validator is a pure function over a candidate block and a read view of
// the store. It never mutates the store.
type Validator struct{}

// NewValidator constructs a Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate runs the height, economic, and hash checks in that order,
// returning the first failure. A nil return means the block is accepted.
func (v *Validator) Validate(ctx context.Context, reader store.Reader, block BlockInput) error {
	if err := v.checkHeight(ctx, reader, block); err != nil {
		return err
	}
	if err := v.checkEconomics(ctx, reader, block); err != nil {
		return err
	}
	return v.checkHash(block)
}

func (v *Validator) checkHeight(ctx context.Context, reader store.Reader, block BlockInput) error {
	maxHeight, err := reader.MaxBlockHeight(ctx)
	if err != nil {
		return Internal(err)
	}
	expected := maxHeight + 1
	if block.Height != expected {
		return NewError(CodeInvalidHeight, "Expected %d, got %d", expected, block.Height)
	}
	return nil
}

func (v *Validator) checkEconomics(ctx context.Context, reader store.Reader, block BlockInput) error {
	spentInBlock := make(map[string]bool)

	for _, tx := range block.Transactions {
		var inputSum int64

		for _, ref := range tx.Inputs {
			key := outputKey(ref.TxID, ref.Index)
			if spentInBlock[key] {
				return NewError(CodeDoubleSpend, "output %s is spent twice within this block", key)
			}

			out, err := reader.GetOutput(ctx, ref.TxID, ref.Index)
			if err != nil {
				return Internal(err)
			}
			if out == nil {
				return NewError(CodeNonexistentOutput, "output %s does not exist", key)
			}
			if out.Spent {
				return NewError(CodeAlreadySpent, "output %s is already spent", key)
			}

			spentInBlock[key] = true
			inputSum += out.Value
		}

		var outputSum int64
		for _, o := range tx.Outputs {
			outputSum += o.Value
		}

		if len(tx.Inputs) > 0 && inputSum != outputSum {
			return NewError(CodeSumMismatch, "Inputs: %d, Outputs: %d", inputSum, outputSum)
		}
	}

	return nil
}

func (v *Validator) checkHash(block BlockInput) error {
	txIDs := make([]string, len(block.Transactions))
	for i, tx := range block.Transactions {
		txIDs[i] = tx.ID
	}

	expected := ComputeBlockID(block.Height, txIDs)
	if expected != block.ID {
		return NewError(CodeInvalidBlockID, "expected block id %s, got %s", expected, block.ID)
	}
	return nil
}

func outputKey(txID string, index uint32) string {
	return fmt.Sprintf("%s:%d", txID, index)
}
