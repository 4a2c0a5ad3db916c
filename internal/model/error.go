package model

import "time"

// ErrorCode is the closed set of failure categories surfaced by the gateway.
type ErrorCode string

const (
	CodeQualificationFailed   ErrorCode = "QUALIFICATION_FAILED"
	CodeRuleViolation         ErrorCode = "RULE_VIOLATION"
	CodeChainUnavailable      ErrorCode = "CHAIN_UNAVAILABLE"
	CodeStateConflict         ErrorCode = "STATE_CONFLICT"
	CodeAuthorizationRequired ErrorCode = "AUTHORIZATION_REQUIRED"
	CodePricingStale          ErrorCode = "PRICING_STALE"
	CodeValidationFailed      ErrorCode = "VALIDATION_FAILED"
	CodeNotImplemented        ErrorCode = "NOT_IMPLEMENTED"
	CodeInternalError         ErrorCode = "INTERNAL_ERROR"
)

// ErrorSeverity grades how a ChainError should be treated by callers.
type ErrorSeverity string

const (
	SeverityInfo    ErrorSeverity = "info"
	SeverityWarning ErrorSeverity = "warning"
	SeverityError   ErrorSeverity = "error"
)

// ChainError is the normalized, JSON-serializable failure shape every
// gateway method reports. Policy outcomes (blocked plans, noops) are plain
// results, never ChainErrors; only infrastructure and programmer errors
// surface here.
type ChainError struct {
	Name      string                 `json:"name"`
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Retryable bool                   `json:"retryable"`
	Severity  ErrorSeverity          `json:"severity"`
	Source    string                 `json:"source,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// Error implements the error interface.
func (e *ChainError) Error() string {
	if e.Source != "" {
		return string(e.Code) + " (" + e.Source + "): " + e.Message
	}
	return string(e.Code) + ": " + e.Message
}

// NewChainError builds a ChainError with code-appropriate retryability and
// severity defaults.
func NewChainError(code ErrorCode, message string) *ChainError {
	retryable := false
	severity := SeverityError
	switch code {
	case CodeChainUnavailable:
		retryable = true
	case CodeStateConflict:
		retryable = true
		severity = SeverityWarning
	case CodePricingStale:
		retryable = true
		severity = SeverityWarning
	case CodeQualificationFailed, CodeRuleViolation:
		severity = SeverityWarning
	}
	return &ChainError{
		Name:      "ContestChainError",
		Code:      code,
		Message:   message,
		Retryable: retryable,
		Severity:  severity,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
}

// WithSource tags the error with the originating gateway method.
func (e *ChainError) WithSource(source string) *ChainError {
	e.Source = source
	return e
}

// WithDetail attaches one structured detail field.
func (e *ChainError) WithDetail(key string, value interface{}) *ChainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}
