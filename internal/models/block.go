// Package models defines the GORM-backed relations of the ledger store.
package models

import "time"

// Block represents a committed block of the UTXO chain.
//
// The id is the canonical hash computed by ledger.ComputeBlockID; height is
// globally unique and forms a contiguous prefix of the positive integers
// (invariant I1).
type Block struct {
	ID        string    `gorm:"primaryKey;type:varchar(64);column:id"`
	Height    uint64    `gorm:"not null;uniqueIndex:ledger_blocks_height_ux;column:height"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Block.
func (Block) TableName() string {
	return "ledger_blocks"
}
