package model

type TransactionType string

const (
	TransactionCharge TransactionType = "charge"
	TransactionUse    TransactionType = "use"
	TransactionRefund TransactionType = "refund"
)

type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionPending   TransactionStatus = "pending"
	TransactionFailed    TransactionStatus = "failed"
)

type Transaction struct {
	ID          string            `json:"id"`
	Type        TransactionType   `json:"type"`
	Amount      int64             `json:"amount"`
	Description string            `json:"description"`
	Date        string            `json:"date"`
	Status      TransactionStatus `json:"status"`
	Balance     int64             `json:"balance,omitempty"`
}

type ChartPoint struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type WalletStats struct {
	TotalBalance    int64 `json:"totalBalance"`
	MonthlySpending int64 `json:"monthlySpending"`
	MonthlyCharged  int64 `json:"monthlyCharged"`
}
