package model

import "time"

// CheckoutRecord is one journaled checkout attempt.
type CheckoutRecord struct {
	ID              string    `json:"id" bson:"_id"`
	SessionID       string    `json:"session_id" bson:"session_id"`
	UserID          int64     `json:"user_id" bson:"user_id"`
	Username        string    `json:"username" bson:"username"`
	State           string    `json:"state" bson:"state"`
	TransactionID   int64     `json:"transaction_id,omitempty" bson:"transaction_id"`
	Amount          float64   `json:"amount" bson:"amount"`
	ItemCount       int       `json:"item_count" bson:"item_count"`
	IsFraud         bool      `json:"is_fraud" bson:"is_fraud"`
	RiskLevel       string    `json:"risk_level,omitempty" bson:"risk_level"`
	FraudScore      float64   `json:"fraud_score" bson:"fraud_score"`
	HistoryRecorded bool      `json:"history_recorded" bson:"history_recorded"`
	ErrorMessage    string    `json:"error_message,omitempty" bson:"error_message"`
	DurationMs      int64     `json:"duration_ms" bson:"duration_ms"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
}

// CheckoutFilter narrows journal listings.
type CheckoutFilter struct {
	State  string
	UserID int64
}

// CheckoutStats summarizes the journal.
type CheckoutStats struct {
	Total          int64            `json:"total"`
	ByState        map[string]int64 `json:"by_state"`
	FraudFlagged   int64            `json:"fraud_flagged"`
	LastCheckoutAt *time.Time       `json:"last_checkout_at,omitempty"`
}
