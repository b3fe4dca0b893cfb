package models

// Output is a transaction output, unspent until some Input references it.
//
// Value is stored as a signed 64-bit integer per the numeric width design
// note; it is never negative for a committed Output row.
type Output struct {
	TransactionID string `gorm:"primaryKey;type:varchar(128);column:transaction_id"`
	OutputIndex   uint32 `gorm:"primaryKey;column:output_index"`
	Address       string `gorm:"not null;index:ledger_outputs_address_ix;column:address"`
	Value         int64  `gorm:"not null;column:value"`
	Spent         bool   `gorm:"not null;default:false;index:ledger_outputs_spent_ix;column:spent"`
}

// TableName specifies the table name for Output.
func (Output) TableName() string {
	return "ledger_outputs"
}

// Input references the Output it consumes. It does not own the Output.
type Input struct {
	ID                 uint64 `gorm:"primaryKey;autoIncrement;column:id"`
	TransactionID      string `gorm:"not null;index:ledger_inputs_tx_ix;column:transaction_id"`
	SpentTransactionID string `gorm:"not null;column:spent_transaction_id"`
	SpentOutputIndex   uint32 `gorm:"not null;column:spent_output_index"`
}

// TableName specifies the table name for Input.
func (Input) TableName() string {
	return "ledger_inputs"
}

// AddressBalance is the cached per-address aggregate required to agree with
// the sum of unspent outputs for that address (invariant I5). Absence of a
// row is read as a zero balance.
type AddressBalance struct {
	Address string `gorm:"primaryKey;type:varchar(128);column:address"`
	Balance int64  `gorm:"not null;default:0;column:balance"`
}

// TableName specifies the table name for AddressBalance.
func (AddressBalance) TableName() string {
	return "ledger_address_balances"
}
