package models

import "time"

// Transaction belongs to exactly one block.
type Transaction struct {
	ID        string    `gorm:"primaryKey;type:varchar(128);column:id"`
	BlockID   string    `gorm:"not null;index:ledger_transactions_block_ix;column:block_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Transaction.
func (Transaction) TableName() string {
	return "ledger_transactions"
}
