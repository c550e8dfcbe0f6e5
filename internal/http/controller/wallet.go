package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"wallet_live/internal/http/middleware"
	"wallet_live/internal/model"
)

// WalletHandler serves canned wallet data so the client has something to
// render next to the live notifications.
type WalletHandler struct {
	log *zap.Logger
}

func NewWalletHandler(logger *zap.Logger) *WalletHandler {
	return &WalletHandler{log: logger}
}

var sampleTransactions = []model.Transaction{
	{ID: "tx-1005", Type: model.TransactionUse, Amount: -4500, Description: "커피", Date: "2024-01-15", Status: model.TransactionCompleted, Balance: 95500},
	{ID: "tx-1004", Type: model.TransactionCharge, Amount: 50000, Description: "계좌 충전", Date: "2024-01-14", Status: model.TransactionCompleted, Balance: 100000},
	{ID: "tx-1003", Type: model.TransactionRefund, Amount: 12000, Description: "주문 취소", Date: "2024-01-12", Status: model.TransactionCompleted, Balance: 50000},
	{ID: "tx-1002", Type: model.TransactionUse, Amount: -32000, Description: "온라인 쇼핑", Date: "2024-01-10", Status: model.TransactionCompleted, Balance: 38000},
	{ID: "tx-1001", Type: model.TransactionCharge, Amount: 70000, Description: "계좌 충전", Date: "2024-01-02", Status: model.TransactionPending, Balance: 70000},
}

var sampleChart = []model.ChartPoint{
	{Name: "8월", Value: 42000},
	{Name: "9월", Value: 38000},
	{Name: "10월", Value: 51000},
	{Name: "11월", Value: 46500},
	{Name: "12월", Value: 60200},
	{Name: "1월", Value: 36500},
}

func (h *WalletHandler) Balance(c *gin.Context) {
	stats := model.WalletStats{TotalBalance: sampleTransactions[0].Balance}
	for _, tx := range sampleTransactions {
		if tx.Status != model.TransactionCompleted {
			continue
		}
		switch tx.Type {
		case model.TransactionCharge:
			stats.MonthlyCharged += tx.Amount
		case model.TransactionUse:
			stats.MonthlySpending += -tx.Amount
		}
	}
	h.log.Debug("wallet balance served", zap.Int64("user_id", middleware.UserID(c)))
	c.JSON(http.StatusOK, stats)
}

func (h *WalletHandler) Transactions(c *gin.Context) {
	c.JSON(http.StatusOK, sampleTransactions)
}

func (h *WalletHandler) Chart(c *gin.Context) {
	c.JSON(http.StatusOK, sampleChart)
}
