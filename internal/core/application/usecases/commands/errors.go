package commands

import "errors"

var (
	// ErrPayoutNotDelivered is a soft failure: the payout request was recorded
	// but the payer could not be notified. The caller may retry.
	ErrPayoutNotDelivered = errors.New("payout request was recorded but not delivered")

	// ErrCodeNotDelivered is returned when an explicit code re-delivery fails.
	ErrCodeNotDelivered = errors.New("code was not delivered")
)
