package gateway

import (
	"context"
	"errors"
	"strings"

	"contestScope/internal/model"
)

// ClientCoder is implemented by external client errors that carry an opaque
// string code.
type ClientCoder interface {
	ErrorCode() string
}

// KeywordRule maps a message substring to an error code. Keyword matching is
// a last-resort compatibility shim behind the typed and coded checks.
type KeywordRule struct {
	Substring string
	Code      model.ErrorCode
}

// ErrorMapping is the configurable normalization table for external client
// failures.
type ErrorMapping struct {
	ClientCodes map[string]model.ErrorCode
	Keywords    []KeywordRule
}

// DefaultErrorMapping covers the external client codes and message shapes
// observed in the wild.
func DefaultErrorMapping() ErrorMapping {
	return ErrorMapping{
		ClientCodes: map[string]model.ErrorCode{
			"NONCE_EXPIRED":           model.CodeStateConflict,
			"REPLACEMENT_UNDERPRICED": model.CodeStateConflict,
			"TRANSACTION_REPLACED":    model.CodeStateConflict,
			"TIMEOUT":                 model.CodeChainUnavailable,
			"NETWORK_ERROR":           model.CodeChainUnavailable,
			"SERVER_ERROR":            model.CodeChainUnavailable,
		},
		Keywords: []KeywordRule{
			{Substring: "allowance", Code: model.CodeAuthorizationRequired},
			{Substring: "not authorized", Code: model.CodeAuthorizationRequired},
			{Substring: "stale price", Code: model.CodePricingStale},
			{Substring: "nonce", Code: model.CodeStateConflict},
			{Substring: "timeout", Code: model.CodeChainUnavailable},
			{Substring: "timed out", Code: model.CodeChainUnavailable},
			{Substring: "connection refused", Code: model.CodeChainUnavailable},
			{Substring: "connection reset", Code: model.CodeChainUnavailable},
			{Substring: "no such host", Code: model.CodeChainUnavailable},
			{Substring: "not implemented", Code: model.CodeNotImplemented},
		},
	}
}

// Normalize folds any error into a ChainError tagged with the originating
// method. Already-typed errors keep their code; external client codes are
// looked up in the table; message keywords are the last resort before
// INTERNAL_ERROR.
func Normalize(mapping ErrorMapping, err error, source string) *model.ChainError {
	if err == nil {
		return nil
	}

	var typed *model.ChainError
	if errors.As(err, &typed) {
		if typed.Source == "" {
			typed.Source = source
		}
		return typed
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return model.NewChainError(model.CodeChainUnavailable, err.Error()).WithSource(source)
	}

	var coded ClientCoder
	if errors.As(err, &coded) {
		if code, ok := mapping.ClientCodes[coded.ErrorCode()]; ok {
			return model.NewChainError(code, err.Error()).WithSource(source).
				WithDetail("client_code", coded.ErrorCode())
		}
	}

	message := strings.ToLower(err.Error())
	for _, rule := range mapping.Keywords {
		if strings.Contains(message, rule.Substring) {
			return model.NewChainError(rule.Code, err.Error()).WithSource(source)
		}
	}

	return model.NewChainError(model.CodeInternalError, err.Error()).WithSource(source)
}
