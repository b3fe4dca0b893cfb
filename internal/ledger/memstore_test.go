package ledger

import (
	"context"
	"fmt"
	"strconv"

	"github.com/utxo-ledger/indexer/internal/store"
)

// memStore is an in-memory fake satisfying store.Store and store.Tx, used to
// exercise the engine without a live database — the teacher's own indexer
// tests never hit a database either. It tracks the transaction->block
// ownership the real schema enforces with foreign keys, so cascading
// deletes on rollback behave the same way.
type memStore struct {
	blocks       []blockRow
	blockOfTx    map[string]string   // transaction id -> block id
	txsOfBlock   map[string][]string // block id -> transaction ids
	outputs      map[string]*outputRow
	outputsOfTx  map[string][]string // transaction id -> output keys
	inputs       []inputRow
	balances     map[string]int64
}

type blockRow struct {
	id     string
	height uint64
}

type outputRow struct {
	txID    string
	address string
	value   int64
	spent   bool
}

type inputRow struct {
	txID      string
	spentTxID string
	spentIdx  uint32
}

func newMemStore() *memStore {
	return &memStore{
		blockOfTx:   make(map[string]string),
		txsOfBlock:  make(map[string][]string),
		outputs:     make(map[string]*outputRow),
		outputsOfTx: make(map[string][]string),
		balances:    make(map[string]int64),
	}
}

func outputKeyOf(txID string, index uint32) string {
	return txID + ":" + strconv.FormatUint(uint64(index), 10)
}

func (m *memStore) MaxBlockHeight(ctx context.Context) (uint64, error) {
	var max uint64
	for _, b := range m.blocks {
		if b.height > max {
			max = b.height
		}
	}
	return max, nil
}

func (m *memStore) GetOutput(ctx context.Context, txID string, index uint32) (*store.OutputView, error) {
	row, ok := m.outputs[outputKeyOf(txID, index)]
	if !ok {
		return nil, nil
	}
	return &store.OutputView{Address: row.address, Value: row.value, Spent: row.spent}, nil
}

func (m *memStore) SumUnspentByAddress(ctx context.Context, address string) (int64, error) {
	var total int64
	for _, row := range m.outputs {
		if row.address == address && !row.spent {
			total += row.value
		}
	}
	return total, nil
}

func (m *memStore) GetAddressBalance(ctx context.Context, address string) (int64, bool, error) {
	bal, ok := m.balances[address]
	return bal, ok, nil
}

// memSnapshot gives WithinTx commit/rollback semantics without a database.
type memSnapshot struct {
	blocks      []blockRow
	blockOfTx   map[string]string
	txsOfBlock  map[string][]string
	outputs     map[string]*outputRow
	outputsOfTx map[string][]string
	inputs      []inputRow
	balances    map[string]int64
}

func (m *memStore) snapshot() memSnapshot {
	outputs := make(map[string]*outputRow, len(m.outputs))
	for k, v := range m.outputs {
		copied := *v
		outputs[k] = &copied
	}
	balances := make(map[string]int64, len(m.balances))
	for k, v := range m.balances {
		balances[k] = v
	}
	blockOfTx := make(map[string]string, len(m.blockOfTx))
	for k, v := range m.blockOfTx {
		blockOfTx[k] = v
	}
	txsOfBlock := make(map[string][]string, len(m.txsOfBlock))
	for k, v := range m.txsOfBlock {
		txsOfBlock[k] = append([]string{}, v...)
	}
	outputsOfTx := make(map[string][]string, len(m.outputsOfTx))
	for k, v := range m.outputsOfTx {
		outputsOfTx[k] = append([]string{}, v...)
	}
	blocks := make([]blockRow, len(m.blocks))
	copy(blocks, m.blocks)
	inputs := make([]inputRow, len(m.inputs))
	copy(inputs, m.inputs)
	return memSnapshot{
		blocks: blocks, blockOfTx: blockOfTx, txsOfBlock: txsOfBlock,
		outputs: outputs, outputsOfTx: outputsOfTx, inputs: inputs, balances: balances,
	}
}

func (m *memStore) restore(s memSnapshot) {
	m.blocks = s.blocks
	m.blockOfTx = s.blockOfTx
	m.txsOfBlock = s.txsOfBlock
	m.outputs = s.outputs
	m.outputsOfTx = s.outputsOfTx
	m.inputs = s.inputs
	m.balances = s.balances
}

func (m *memStore) WithinTx(ctx context.Context, fn func(tx store.Tx) error) error {
	snap := m.snapshot()
	if err := fn(m); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

func (m *memStore) InsertBlock(ctx context.Context, id string, height uint64) error {
	m.blocks = append(m.blocks, blockRow{id: id, height: height})
	return nil
}

func (m *memStore) InsertTransaction(ctx context.Context, id, blockID string) error {
	m.blockOfTx[id] = blockID
	m.txsOfBlock[blockID] = append(m.txsOfBlock[blockID], id)
	return nil
}

func (m *memStore) InsertOutput(ctx context.Context, txID string, index uint32, address string, value int64) error {
	k := outputKeyOf(txID, index)
	m.outputs[k] = &outputRow{txID: txID, address: address, value: value, spent: false}
	m.outputsOfTx[txID] = append(m.outputsOfTx[txID], k)
	return nil
}

func (m *memStore) InsertInput(ctx context.Context, txID, spentTxID string, spentIndex uint32) error {
	m.inputs = append(m.inputs, inputRow{txID: txID, spentTxID: spentTxID, spentIdx: spentIndex})
	return nil
}

func (m *memStore) MarkOutputSpent(ctx context.Context, txID string, index uint32) error {
	row, ok := m.outputs[outputKeyOf(txID, index)]
	if !ok {
		return fmt.Errorf("output %s not found", outputKeyOf(txID, index))
	}
	row.spent = true
	return nil
}

// DeleteBlocksAbove removes blocks above targetHeight and cascades the
// delete to their transactions, outputs, and inputs, the same way the real
// schema's ON DELETE CASCADE foreign keys do.
func (m *memStore) DeleteBlocksAbove(ctx context.Context, targetHeight uint64) error {
	var survivingBlocks []blockRow
	var removedBlockIDs []string
	for _, b := range m.blocks {
		if b.height > targetHeight {
			removedBlockIDs = append(removedBlockIDs, b.id)
		} else {
			survivingBlocks = append(survivingBlocks, b)
		}
	}
	m.blocks = survivingBlocks

	removedTxIDs := make(map[string]bool)
	for _, blockID := range removedBlockIDs {
		for _, txID := range m.txsOfBlock[blockID] {
			removedTxIDs[txID] = true
		}
		delete(m.txsOfBlock, blockID)
	}
	for txID := range removedTxIDs {
		delete(m.blockOfTx, txID)
		for _, outKey := range m.outputsOfTx[txID] {
			delete(m.outputs, outKey)
		}
		delete(m.outputsOfTx, txID)
	}

	var survivingInputs []inputRow
	for _, in := range m.inputs {
		if !removedTxIDs[in.txID] {
			survivingInputs = append(survivingInputs, in)
		}
	}
	m.inputs = survivingInputs
	return nil
}

func (m *memStore) UnspendOrphanedOutputs(ctx context.Context) error {
	referenced := make(map[string]bool, len(m.inputs))
	for _, in := range m.inputs {
		referenced[outputKeyOf(in.spentTxID, in.spentIdx)] = true
	}
	for k, row := range m.outputs {
		if row.spent && !referenced[k] {
			row.spent = false
		}
	}
	return nil
}

func (m *memStore) RebuildAddressBalances(ctx context.Context) error {
	m.balances = make(map[string]int64)
	for _, row := range m.outputs {
		if !row.spent {
			m.balances[row.address] += row.value
		}
	}
	return nil
}

func (m *memStore) UpsertBalanceDelta(ctx context.Context, address string, delta int64) error {
	m.balances[address] += delta
	return nil
}
