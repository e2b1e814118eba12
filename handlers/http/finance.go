package httpHandler

import (
	"net/http"
	"strconv"

	"finance-server/entities"
	"finance-server/usecases"

	"github.com/gin-gonic/gin"
)

type FinanceHandler struct {
	ledger *usecases.LedgerUseCase
}

func NewFinanceHandler(ledger *usecases.LedgerUseCase) *FinanceHandler {
	return &FinanceHandler{ledger: ledger}
}

type addTransactionRequest struct {
	Amount   *float64 `json:"amount"`
	Type     string   `json:"type"`
	Category *string  `json:"category"`
	Date     *string  `json:"date"`
	Month    *string  `json:"month"`
}

type updateTransactionRequest struct {
	Amount   *float64 `json:"amount"`
	Type     *string  `json:"type"`
	Category *string  `json:"category"`
	Date     *string  `json:"date"`
	Month    *string  `json:"month"`
}

// AddTransaction handles POST /api/finance/add
func (h *FinanceHandler) AddTransaction(c *gin.Context) {
	var req addTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request body"})
		return
	}

	tx, err := h.ledger.Add(c.Request.Context(), currentUser(c).ID, usecases.AddInput{
		Amount:   req.Amount,
		Type:     req.Type,
		Category: req.Category,
		Date:     req.Date,
		Month:    req.Month,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"msg": "Transaction added", "transaction": tx.View()})
}

// History handles GET /api/finance/history
func (h *FinanceHandler) History(c *gin.Context) {
	txs, err := h.ledger.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]entities.TransactionView, 0, len(txs))
	for i := range txs {
		views = append(views, txs[i].View())
	}
	c.JSON(http.StatusOK, gin.H{"transactions": views})
}

// UpdateTransaction handles PUT /api/finance/:id
func (h *FinanceHandler) UpdateTransaction(c *gin.Context) {
	id, ok := transactionID(c)
	if !ok {
		return
	}

	var req updateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request body"})
		return
	}

	tx, err := h.ledger.Update(c.Request.Context(), currentUser(c).ID, id, usecases.UpdateInput{
		Amount:   req.Amount,
		Type:     req.Type,
		Category: req.Category,
		Date:     req.Date,
		Month:    req.Month,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Updated", "transaction": tx.View()})
}

// DeleteTransaction handles DELETE /api/finance/:id
func (h *FinanceHandler) DeleteTransaction(c *gin.Context) {
	id, ok := transactionID(c)
	if !ok {
		return
	}

	if err := h.ledger.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Deleted"})
}

// Summary handles GET /api/finance/summary
func (h *FinanceHandler) Summary(c *gin.Context) {
	months, err := h.ledger.Summary(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"months": months})
}

// transactionID parses the :id path parameter. Anything that is not a
// positive integer cannot name a transaction, so it is reported as missing.
func transactionID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Transaction not found"})
		return 0, false
	}
	return uint(id), true
}
