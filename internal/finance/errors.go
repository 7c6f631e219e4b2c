package finance

import "errors"

var (
	ErrInvalidAmount       = errors.New("invalid payment amount")
	ErrUnsupportedInterval = errors.New("unsupported interval")
	ErrInvalidDay          = errors.New("invalid anchor day")
	ErrNilAccount          = errors.New("missing account")
	ErrUnknownSemantic     = errors.New("unknown semantic")
	ErrDateGap             = errors.New("account date did not advance by one day")
	ErrFixedMismatch       = errors.New("fixed transfer could not move the requested amount")
	ErrTransferMismatch    = errors.New("account moved more money than requested")
	ErrUnknownTariff       = errors.New("unknown tariff")
	ErrInvalidProperty     = errors.New("invalid property")
)
