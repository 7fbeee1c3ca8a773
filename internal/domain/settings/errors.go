package settings

import "errors"

var (
	ErrSettingsNotFound    = errors.New("attendance settings not found")
	ErrBankHolidayNotFound = errors.New("bank holiday not found")
)
