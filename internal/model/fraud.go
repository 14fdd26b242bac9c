package model

// FraudAlert is an entry of the fraud-review console.
type FraudAlert struct {
	ID                 int64   `json:"id"`
	TransactionID      int64   `json:"transactionId"`
	UserID             int64   `json:"userId,omitempty"`
	Username           string  `json:"username,omitempty"`
	Amount             float64 `json:"amount,omitempty"`
	AlertType          string  `json:"alertType"`
	Severity           string  `json:"severity"`
	Description        string  `json:"description"`
	Status             string  `json:"status"`
	FraudScore         float64 `json:"fraudScore,omitempty"`
	RiskFactors        string  `json:"riskFactors,omitempty"`
	InvestigationNotes string  `json:"investigationNotes,omitempty"`
	ResolvedBy         string  `json:"resolvedBy,omitempty"`
	CreatedAt          string  `json:"createdAt"`
	ResolvedAt         string  `json:"resolvedAt,omitempty"`
}

// FraudAlertResolution is the API's answer to a resolved alert.
type FraudAlertResolution struct {
	ID         int64  `json:"id"`
	Status     string `json:"status"`
	ResolvedBy string `json:"resolvedBy"`
	ResolvedAt string `json:"resolvedAt"`
	Message    string `json:"message,omitempty"`
}

// FraudStatistics counts fraud alerts by status and severity.
type FraudStatistics struct {
	TotalAlerts        int64  `json:"totalAlerts"`
	ActiveAlerts       int64  `json:"activeAlerts"`
	HighSeverityAlerts int64  `json:"highSeverityAlerts"`
	CriticalAlerts     int64  `json:"criticalAlerts"`
	Timestamp          string `json:"timestamp,omitempty"`
}
