package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/utxo-ledger/indexer/internal/ledger"
)

// submitBlockHandler handles POST /blocks.
func (r *Router) submitBlockHandler(c *gin.Context) {
	var block ledger.BlockInput
	if err := c.ShouldBindJSON(&block); err != nil {
		wireErr := NewError(ledger.CodeValidationError, err.Error())
		c.JSON(http.StatusBadRequest, wireErr.envelope())
		return
	}

	if err := r.engine.SubmitBlock(c.Request.Context(), block); err != nil {
		wireErr, status := fromLedgerErr(err)
		loggerFromContext(c).Warn("block submission rejected",
			zap.String("block_id", block.ID),
			zap.Uint64("height", block.Height),
			zap.String("code", string(wireErr.Code)))
		c.JSON(status, wireErr.envelope())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Block processed successfully"})
}

// balanceHandler handles GET /balance/:address.
func (r *Router) balanceHandler(c *gin.Context) {
	address := c.Param("address")
	if address == "" {
		wireErr := NewError(ledger.CodeValidationError, "address is required")
		c.JSON(http.StatusBadRequest, wireErr.envelope())
		return
	}

	balance, err := r.engine.GetBalance(c.Request.Context(), address)
	if err != nil {
		wireErr, status := fromLedgerErr(err)
		c.JSON(status, wireErr.envelope())
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// rollbackHandler handles POST /rollback?height=<n>.
func (r *Router) rollbackHandler(c *gin.Context) {
	raw := c.Query("height")
	if raw == "" {
		wireErr := NewError(ledger.CodeValidationError, "height query parameter is required")
		c.JSON(http.StatusBadRequest, wireErr.envelope())
		return
	}

	targetHeight, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		wireErr := NewError(ledger.CodeValidationError, "height query parameter must be an integer")
		c.JSON(http.StatusBadRequest, wireErr.envelope())
		return
	}

	if err := r.engine.RollbackTo(c.Request.Context(), targetHeight); err != nil {
		wireErr, status := fromLedgerErr(err)
		loggerFromContext(c).Warn("rollback rejected",
			zap.Int64("target_height", targetHeight),
			zap.String("code", string(wireErr.Code)))
		c.JSON(status, wireErr.envelope())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Rollback to height %d completed successfully", targetHeight),
	})
}
