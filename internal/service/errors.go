package service

import "errors"

// Taxonomy: validation (caller's fault), not-found (referenced entity absent),
// policy denial (business-rule rejection, audit-logged). All are handled at
// the handler boundary; none are fatal.
var (
	ErrMissingParams = errors.New("missing parameters")
	ErrMissingWallet = errors.New("wallet address required")

	ErrNoRiddles      = errors.New("no riddles in database")
	ErrRiddleNotFound = errors.New("riddle not found")
	ErrRiddleNotAsked = errors.New("riddle has not been asked yet")
	ErrAnswerNotFound = errors.New("no answer found for this riddle")

	ErrDailyCapExceeded = errors.New("daily reward limit exceeded")
	ErrCooldownActive   = errors.New("not eligible for reward")
)
