package http_api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// WithdrawRequest is the JSON body for a withdrawal request.
type WithdrawRequest struct {
	Amount        int64  `json:"amount" binding:"required,min=1"`
	WalletAddress string `json:"walletAddress" binding:"required"`
	Method        string `json:"method"`
}

// ProcessWithdrawalRequest is the JSON body for the admin decision on a
// pending withdrawal.
type ProcessWithdrawalRequest struct {
	Status          string `json:"status" binding:"required"`
	TransactionHash string `json:"transactionHash"`
	AdminNotes      string `json:"adminNotes"`
}

func (s *HTTPServer) transactionHistory(c *gin.Context) {
	page, limit := pageQuery(c)
	transactions, pagination, err := s.hunt.TransactionHistory(s.userID(c), c.Query("type"), page, limit)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{
		"transactions": transactions,
		"pagination":   pagination,
	})
}

func (s *HTTPServer) requestWithdrawal(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := s.hunt.RequestWithdrawal(s.userID(c), req.Amount, req.WalletAddress, req.Method)
	if err != nil {
		s.failErr(c, err)
		return
	}

	s.logger.Infow("Withdrawal requested",
		"user", s.userID(c),
		"transaction", result.Transaction.ID,
		"amount", result.Transaction.Amount,
		"fee", result.Transaction.Fee)
	respond(c, http.StatusCreated, "Withdrawal requested", result)
}

func (s *HTTPServer) withdrawalStatus(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	tx, err := s.hunt.WithdrawalStatus(s.userID(c), id)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "", tx)
}

func (s *HTTPServer) cancelWithdrawal(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	result, err := s.hunt.CancelWithdrawal(s.userID(c), id)
	if err != nil {
		s.failErr(c, err)
		return
	}

	s.logger.Infow("Withdrawal cancelled", "user", s.userID(c), "transaction", id)
	respond(c, http.StatusOK, "Withdrawal cancelled", result)
}

func (s *HTTPServer) processWithdrawal(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	var req ProcessWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	tx, err := s.hunt.ProcessWithdrawal(s.userID(c), id, req.Status, req.TransactionHash, req.AdminNotes)
	if err != nil {
		s.failErr(c, err)
		return
	}

	s.logger.Infow("Withdrawal processed",
		"admin", s.userID(c),
		"transaction", tx.ID,
		"status", tx.Status)
	respond(c, http.StatusOK, "Withdrawal "+tx.Status, tx)
}
