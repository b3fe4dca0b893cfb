package store

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/utxo-ledger/indexer/internal/models"
)

// Bootstrap idempotently ensures the store's relations and indexes exist.
// It is safe to call on every process start: AutoMigrate only adds what is
// missing, the index statement below uses IF NOT EXISTS, and each foreign
// key is dropped if present and then added again.
func Bootstrap(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Block{},
		&models.Transaction{},
		&models.Output{},
		&models.Input{},
		&models.AddressBalance{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	statements := []string{
		`CREATE INDEX IF NOT EXISTS ledger_inputs_spent_output_ix
			ON ledger_inputs (spent_transaction_id, spent_output_index)`,
		`ALTER TABLE ledger_transactions
			DROP CONSTRAINT IF EXISTS ledger_transactions_block_fk`,
		`ALTER TABLE ledger_transactions
			ADD CONSTRAINT ledger_transactions_block_fk
			FOREIGN KEY (block_id) REFERENCES ledger_blocks(id) ON DELETE CASCADE`,
		`ALTER TABLE ledger_outputs
			DROP CONSTRAINT IF EXISTS ledger_outputs_transaction_fk`,
		`ALTER TABLE ledger_outputs
			ADD CONSTRAINT ledger_outputs_transaction_fk
			FOREIGN KEY (transaction_id) REFERENCES ledger_transactions(id) ON DELETE CASCADE`,
		`ALTER TABLE ledger_inputs
			DROP CONSTRAINT IF EXISTS ledger_inputs_transaction_fk`,
		`ALTER TABLE ledger_inputs
			ADD CONSTRAINT ledger_inputs_transaction_fk
			FOREIGN KEY (transaction_id) REFERENCES ledger_transactions(id) ON DELETE CASCADE`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("schema bootstrap: %w", err)
		}
	}

	return nil
}
