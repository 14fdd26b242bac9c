package model

import "encoding/json"

// Payment defaults used when a checkout request leaves them empty.
const (
	DefaultPaymentMethod   = "CARD"
	DefaultTransactionType = "PURCHASE"
	DefaultMerchantName    = "SmartMediShop"
)

// TransactionDraft is submitted to the transaction API, which scores it for fraud.
type TransactionDraft struct {
	Amount          float64 `json:"amount"`
	PaymentMethod   string  `json:"paymentMethod"`
	MerchantName    string  `json:"merchantName"`
	TransactionType string  `json:"transactionType"`
	DeviceType      string  `json:"deviceType,omitempty"`
	LocationCountry string  `json:"locationCountry,omitempty"`
}

// TransactionResult is the authoritative response to a submitted draft.
// The fraud verdict is computed server-side and only relayed.
type TransactionResult struct {
	TransactionID   int64   `json:"transactionId"`
	Amount          float64 `json:"amount"`
	Status          string  `json:"status"`
	FraudScore      float64 `json:"fraudScore"`
	RiskLevel       string  `json:"riskLevel"`
	IsFraud         bool    `json:"isFraud"`
	FraudReasons    string  `json:"fraudReasons,omitempty"`
	TransactionDate string  `json:"transactionDate,omitempty"`
}

// Transaction is a row of the user's transaction history.
type Transaction struct {
	ID              int64   `json:"id"`
	Amount          float64 `json:"amount"`
	PaymentMethod   string  `json:"paymentMethod"`
	MerchantName    string  `json:"merchantName,omitempty"`
	TransactionType string  `json:"transactionType,omitempty"`
	Status          string  `json:"status,omitempty"`
	FraudScore      float64 `json:"fraudScore"`
	RiskLevel       string  `json:"riskLevel,omitempty"`
	IsFraud         bool    `json:"isFraud"`
	TransactionDate string  `json:"transactionDate,omitempty"`
}

// TransactionStatistics summarizes the transactions of one user. Statistics
// is relayed as the API shaped it.
type TransactionStatistics struct {
	TotalTransactions int64           `json:"totalTransactions"`
	TotalAmount       float64         `json:"totalAmount"`
	AverageAmount     float64         `json:"averageAmount"`
	Statistics        json.RawMessage `json:"statistics,omitempty"`
}

// TransactionOverview summarizes every transaction, for analysts.
type TransactionOverview struct {
	TotalTransactions      int64            `json:"totalTransactions"`
	FraudulentTransactions int64            `json:"fraudulentTransactions"`
	HighRiskTransactions   int64            `json:"highRiskTransactions"`
	TotalAmount            float64          `json:"totalAmount"`
	AverageAmount          float64          `json:"averageAmount"`
	AverageFraudScore      float64          `json:"averageFraudScore"`
	RiskLevelDistribution  map[string]int64 `json:"riskLevelDistribution"`
}
