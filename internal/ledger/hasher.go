package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// ComputeBlockID is the canonical block-id wire contract: the lowercase-hex
// SHA-256 digest of the decimal-ASCII height concatenated with the
// lexicographically sorted transaction ids, concatenated without
// separators. Changing this encoding breaks compatibility with already
// submitted block ids.
func ComputeBlockID(height uint64, txIDs []string) string {
	sorted := make([]string, len(txIDs))
	copy(sorted, txIDs)
	sort.Strings(sorted)

	var b strings.Builder
	b.WriteString(strconv.FormatUint(height, 10))
	for _, id := range sorted {
		b.WriteString(id)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
