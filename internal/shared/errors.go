package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrMissingToken  = fmt.Errorf("missing portal credentials")

	// API and transport errors
	ErrAPIRequest  = fmt.Errorf("API request failed")
	ErrNoResult    = fmt.Errorf("response missing result payload")
	ErrTimeout     = fmt.Errorf("operation timed out")
	ErrRunActive   = fmt.Errorf("migration already running")
	ErrNoSuchGroup = fmt.Errorf("group not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
