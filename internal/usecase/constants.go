package usecase

import "time"

const (
	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)

// Transfer outcomes reported to the metrics recorder.
const (
	OutcomeTransferred         = "transferred"
	OutcomeFailed              = "failed"
	OutcomeInsufficientBalance = "insufficient_balance"
	OutcomeAccountNotFound     = "account_not_found"
	OutcomeInvalid             = "invalid"
)
