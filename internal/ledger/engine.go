package ledger

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/utxo-ledger/indexer/internal/metrics"
	"github.com/utxo-ledger/indexer/internal/store"
	"github.com/utxo-ledger/indexer/pkg/logging"
	"github.com/utxo-ledger/indexer/pkg/telemetry"
)

// Engine is the dependency-injected aggregate the HTTP transport depends
// on. It owns its store handle as an explicit constructor argument — there
// is no process-wide mutable database handle (design note: "Ambient state").
//
// mu serializes SubmitBlock and RollbackTo per the single-writer discipline
// of §5; balance reads take no lock and run directly against the store.
type Engine struct {
	store     store.Store
	validator *Validator
	applier   *Applier
	rollback  *RollbackEngine
	balance   *BalanceService
	logger    *zap.Logger
	mu        sync.Mutex
}

// NewEngine constructs an Engine over s.
func NewEngine(s store.Store, logger *zap.Logger) *Engine {
	return &Engine{
		store:     s,
		validator: NewValidator(),
		applier:   NewApplier(),
		rollback:  NewRollbackEngine(),
		balance:   NewBalanceService(),
		logger:    logger.With(zap.String("component", "ledger-engine")),
	}
}

// SubmitBlock validates block against accumulated history and, if accepted,
// applies it atomically.
func (e *Engine) SubmitBlock(ctx context.Context, block BlockInput) error {
	ctx, span := telemetry.StartBlockSpan(ctx, "ledger.SubmitBlock", block.Height, block.ID)
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	started := time.Now()

	if err := e.validator.Validate(ctx, e.store, block); err != nil {
		code := codeOf(err)
		metrics.ObserveSubmitBlock(string(code), err, started)
		return err
	}

	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		return e.applier.Apply(ctx, tx, block)
	})
	if err != nil {
		wrapped := Internal(err)
		logging.WithBlockHeight(block.Height).Error("failed to apply block",
			zap.String("block_id", block.ID),
			zap.Error(err))
		metrics.ObserveSubmitBlock(string(wrapped.Code), wrapped, started)
		return wrapped
	}

	metrics.ObserveSubmitBlock("", nil, started)
	return nil
}

// RollbackTo restores state to the snapshot immediately after the block at
// targetHeight was applied.
func (e *Engine) RollbackTo(ctx context.Context, targetHeight int64) error {
	ctx, span := telemetry.StartHeightSpan(ctx, "ledger.RollbackTo", targetHeight)
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	started := time.Now()

	before, err := e.store.MaxBlockHeight(ctx)
	if err != nil {
		wrapped := Internal(err)
		metrics.ObserveRollback(0, wrapped, started)
		return wrapped
	}

	if err := e.rollback.RollbackTo(ctx, e.store, targetHeight); err != nil {
		e.logger.Error("rollback failed",
			zap.Int64("target_height", targetHeight),
			zap.Error(err))
		metrics.ObserveRollback(0, err, started)
		return err
	}

	var removed int64
	if targetHeight >= 0 && uint64(targetHeight) < before {
		removed = int64(before) - targetHeight
	}
	metrics.ObserveRollback(removed, nil, started)
	return nil
}

// GetBalance answers the cached-balance fast path.
func (e *Engine) GetBalance(ctx context.Context, address string) (int64, error) {
	ctx, span := telemetry.StartAddressSpan(ctx, "ledger.GetBalance", address)
	defer span.End()

	started := time.Now()
	defer func() { metrics.ObserveBalanceQuery("cached", started) }()
	balance, err := e.balance.GetBalance(ctx, e.store, address)
	if err != nil {
		logging.WithAddress(address).Warn("balance lookup failed", zap.Error(err))
	}
	return balance, err
}

// ComputeBalance answers the audited, recomputed-from-outputs path.
func (e *Engine) ComputeBalance(ctx context.Context, address string) (int64, error) {
	started := time.Now()
	defer func() { metrics.ObserveBalanceQuery("computed", started) }()
	return e.balance.ComputeBalance(ctx, e.store, address)
}

func codeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.Code
	}
	return CodeInternal
}
