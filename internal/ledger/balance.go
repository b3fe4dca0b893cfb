package ledger

import (
	"context"

	"github.com/utxo-ledger/indexer/internal/store"
)

// BalanceService answers point balance queries. Both operations are
// read-only.
type BalanceService struct{}

// NewBalanceService constructs a BalanceService.
func NewBalanceService() *BalanceService {
	return &BalanceService{}
}

// GetBalance reads the cached AddressBalance relation, returning 0 when the
// address has no row (absence is read as zero).
func (b *BalanceService) GetBalance(ctx context.Context, reader store.Reader, address string) (int64, error) {
	balance, ok, err := reader.GetAddressBalance(ctx, address)
	if err != nil {
		return 0, Internal(err)
	}
	if !ok {
		return 0, nil
	}
	return balance, nil
}

// ComputeBalance sums unspent-output values for address directly, for
// auditing against invariant I5.
func (b *BalanceService) ComputeBalance(ctx context.Context, reader store.Reader, address string) (int64, error) {
	sum, err := reader.SumUnspentByAddress(ctx, address)
	if err != nil {
		return 0, Internal(err)
	}
	return sum, nil
}
