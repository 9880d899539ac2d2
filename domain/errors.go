package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrUnauthorized will throw if the caller is not the required party
	ErrUnauthorized = errors.New("caller is not authorized")
	// ErrInvalidState will throw if the operation conflicts with the current
	// existence or finalization state of the asset key
	ErrInvalidState = errors.New("conflicts with current state")
	// ErrWrongPhase will throw if the operation is attempted outside its
	// valid time window
	ErrWrongPhase = errors.New("outside valid time window")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("Given Param is not valid")

	// validation errors
	ErrInvalidNumberFormat   = errors.New("invalid number format")
	ErrZeroAmount            = errors.New("amount must be greater than zero")
	ErrHashMismatch          = errors.New("revealed bid does not match commitment")
	ErrBidExceedsDeposit     = errors.New("revealed bid exceeds deposit")
	ErrDepositTooLow         = errors.New("deposit must not be lower than previous deposit")
	ErrNothingToWithdraw     = errors.New("no withdrawable refund")
	ErrOperatorNotApproved   = errors.New("marketplace is not an approved operator")
	ErrInsufficientAllowance = errors.New("insufficient token allowance")
	ErrInsufficientBalance   = errors.New("insufficient token balance")
	ErrInvalidNonce          = errors.New("nonce must be 32 bytes")
	ErrAlreadyRevealed       = errors.New("bid already revealed")

	// request error
	ErrInvalidAddress = errors.New("Invalid address")
)
