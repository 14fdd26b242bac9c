package checkout

// State is a step of one checkout attempt. Steps run strictly in order and
// never go back.
type State string

const (
	StateIdle                  State = "IDLE"
	StateValidating            State = "VALIDATING"
	StateInvalid               State = "INVALID"
	StateSubmittingTransaction State = "SUBMITTING_TRANSACTION"
	StateUpdatingStock         State = "UPDATING_STOCK"
	StateRecordingHistory      State = "RECORDING_HISTORY"
	StateDone                  State = "DONE"
)

// Journal results derived from the final state of an attempt.
const (
	ResultCompleted         = "COMPLETED"
	ResultInvalid           = "INVALID"
	ResultValidationError   = "VALIDATION_ERROR"
	ResultTransactionFailed = "TRANSACTION_FAILED"
	ResultStockUpdateFailed = "STOCK_UPDATE_FAILED"
)

// TransitionFunc observes state changes.
type TransitionFunc func(from, to State)
