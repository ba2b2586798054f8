package domain

import "errors"

var (
	// Source errors
	ErrSourceNotFound = errors.New("ledger source not found")
	ErrSourceParse    = errors.New("ledger source could not be parsed")

	// Range errors
	ErrInvalidRange     = errors.New("'desde' must be on or before 'hasta'")
	ErrRangeOutOfBounds = errors.New("date outside ledger bounds")

	// Value errors
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")

	// Export errors
	ErrExportNotFound = errors.New("export not found or expired")
)
