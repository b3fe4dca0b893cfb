package ledger

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func newTestEngine() (*Engine, *memStore) {
	s := newMemStore()
	return NewEngine(s, zap.NewNop()), s
}

// TestEngine_Scenario_S1Genesis exercises S1: genesis block then balance
// query.
func TestEngine_Scenario_S1Genesis(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine()

	block := BlockInput{
		Height: 1,
		Transactions: []TransactionInput{{
			ID:      "tx1",
			Outputs: []OutputInput{{Address: "addr1", Value: 10}},
		}},
	}
	block.ID = ComputeBlockID(1, []string{"tx1"})

	if err := e.SubmitBlock(ctx, block); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	bal, err := e.GetBalance(ctx, "addr1")
	if err != nil {
		t.Fatalf("get balance failed: %v", err)
	}
	if bal != 10 {
		t.Errorf("expected balance 10, got %d", bal)
	}
}

// TestEngine_Scenario_S2Split exercises S2: splitting tx1:0 into two
// addresses.
func TestEngine_Scenario_S2Split(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine()

	block1 := BlockInput{
		Height:       1,
		Transactions: []TransactionInput{{ID: "tx1", Outputs: []OutputInput{{Address: "addr1", Value: 10}}}},
	}
	block1.ID = ComputeBlockID(1, []string{"tx1"})
	if err := e.SubmitBlock(ctx, block1); err != nil {
		t.Fatalf("submit block1: %v", err)
	}

	block2 := BlockInput{
		Height: 2,
		Transactions: []TransactionInput{{
			ID:      "tx2",
			Inputs:  []InputRef{{TxID: "tx1", Index: 0}},
			Outputs: []OutputInput{{Address: "addr2", Value: 4}, {Address: "addr3", Value: 6}},
		}},
	}
	block2.ID = ComputeBlockID(2, []string{"tx2"})
	if err := e.SubmitBlock(ctx, block2); err != nil {
		t.Fatalf("submit block2: %v", err)
	}

	assertBalance(t, e, "addr1", 0)
	assertBalance(t, e, "addr2", 4)
	assertBalance(t, e, "addr3", 6)
}

// TestEngine_Scenario_S5RollbackRestores exercises S5: apply three blocks,
// roll back to height 2, and check balances match the post-block-2 state.
func TestEngine_Scenario_S5RollbackRestores(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine()

	block1 := BlockInput{
		Height:       1,
		Transactions: []TransactionInput{{ID: "tx1", Outputs: []OutputInput{{Address: "addr1", Value: 10}}}},
	}
	block1.ID = ComputeBlockID(1, []string{"tx1"})
	mustSubmit(t, e, block1)

	block2 := BlockInput{
		Height: 2,
		Transactions: []TransactionInput{{
			ID:      "tx2",
			Inputs:  []InputRef{{TxID: "tx1", Index: 0}},
			Outputs: []OutputInput{{Address: "addr2", Value: 4}, {Address: "addr3", Value: 6}},
		}},
	}
	block2.ID = ComputeBlockID(2, []string{"tx2"})
	mustSubmit(t, e, block2)

	block3 := BlockInput{
		Height: 3,
		Transactions: []TransactionInput{{
			ID:      "tx3",
			Inputs:  []InputRef{{TxID: "tx2", Index: 1}},
			Outputs: []OutputInput{{Address: "addr4", Value: 2}, {Address: "addr5", Value: 2}, {Address: "addr6", Value: 2}},
		}},
	}
	block3.ID = ComputeBlockID(3, []string{"tx3"})
	mustSubmit(t, e, block3)

	if err := e.RollbackTo(ctx, 2); err != nil {
		t.Fatalf("rollback failed: %v", err)
	}

	assertBalance(t, e, "addr1", 0)
	assertBalance(t, e, "addr2", 4)
	assertBalance(t, e, "addr3", 6)
	assertBalance(t, e, "addr4", 0)
	assertBalance(t, e, "addr5", 0)
	assertBalance(t, e, "addr6", 0)

	height, err := e.store.MaxBlockHeight(ctx)
	if err != nil {
		t.Fatalf("max height: %v", err)
	}
	if height != 2 {
		t.Errorf("expected height 2 after rollback, got %d", height)
	}

	// the output spent by the rolled-back tx3 must be unspent again
	out, err := e.store.GetOutput(ctx, "tx2", 1)
	if err != nil || out == nil {
		t.Fatalf("expected output tx2:1 to survive, err=%v out=%v", err, out)
	}
	if out.Spent {
		t.Errorf("expected tx2:1 to be unspent after rollback, got spent")
	}
}

// TestEngine_Scenario_S6HeightGapRejected exercises S6.
func TestEngine_Scenario_S6HeightGapRejected(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine()

	block1 := BlockInput{
		Height:       1,
		Transactions: []TransactionInput{{ID: "tx1", Outputs: []OutputInput{{Address: "addr1", Value: 10}}}},
	}
	block1.ID = ComputeBlockID(1, []string{"tx1"})
	mustSubmit(t, e, block1)

	block3 := BlockInput{Height: 3}
	block3.ID = ComputeBlockID(3, nil)

	err := e.SubmitBlock(ctx, block3)
	ledgerErr, ok := As(err)
	if !ok || ledgerErr.Code != CodeInvalidHeight {
		t.Fatalf("expected %s, got %v", CodeInvalidHeight, err)
	}
	if !contains(ledgerErr.Message, "Expected 2") {
		t.Errorf("message %q missing 'Expected 2'", ledgerErr.Message)
	}
}

// TestEngine_RollbackIdempotent exercises P6: rollback to a height at or
// above the current height is a no-op.
func TestEngine_RollbackIdempotent(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine()

	block1 := BlockInput{
		Height:       1,
		Transactions: []TransactionInput{{ID: "tx1", Outputs: []OutputInput{{Address: "addr1", Value: 10}}}},
	}
	block1.ID = ComputeBlockID(1, []string{"tx1"})
	mustSubmit(t, e, block1)

	if err := e.RollbackTo(ctx, 1); err != nil {
		t.Fatalf("rollback to current height should be a no-op: %v", err)
	}
	if err := e.RollbackTo(ctx, 5); err != nil {
		t.Fatalf("rollback above current height should be a no-op: %v", err)
	}

	assertBalance(t, e, "addr1", 10)
}

// TestEngine_RollbackRejectsNegativeTarget exercises the INVALID_TARGET
// re-check.
func TestEngine_RollbackRejectsNegativeTarget(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine()

	err := e.RollbackTo(ctx, -1)
	ledgerErr, ok := As(err)
	if !ok || ledgerErr.Code != CodeInvalidTarget {
		t.Fatalf("expected %s, got %v", CodeInvalidTarget, err)
	}
}

// TestEngine_CachedBalanceAgreesWithComputed exercises P2.
func TestEngine_CachedBalanceAgreesWithComputed(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine()

	block1 := BlockInput{
		Height: 1,
		Transactions: []TransactionInput{
			{ID: "tx1", Outputs: []OutputInput{{Address: "addr1", Value: 10}}},
			{ID: "tx2", Outputs: []OutputInput{{Address: "addr1", Value: 5}}},
		},
	}
	block1.ID = ComputeBlockID(1, []string{"tx1", "tx2"})
	mustSubmit(t, e, block1)

	cached, err := e.GetBalance(ctx, "addr1")
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	computed, err := e.ComputeBalance(ctx, "addr1")
	if err != nil {
		t.Fatalf("compute balance: %v", err)
	}
	if cached != computed {
		t.Errorf("cached balance %d disagrees with computed balance %d", cached, computed)
	}
}

func mustSubmit(t *testing.T, e *Engine, block BlockInput) {
	t.Helper()
	if err := e.SubmitBlock(context.Background(), block); err != nil {
		t.Fatalf("submit block %d failed: %v", block.Height, err)
	}
}

func assertBalance(t *testing.T, e *Engine, address string, want int64) {
	t.Helper()
	got, err := e.GetBalance(context.Background(), address)
	if err != nil {
		t.Fatalf("get balance for %s: %v", address, err)
	}
	if got != want {
		t.Errorf("balance(%s) = %d, want %d", address, got, want)
	}
}
