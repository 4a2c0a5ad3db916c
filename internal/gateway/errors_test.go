package gateway

import (
	"context"
	"fmt"
	"testing"

	"contestScope/internal/model"
)

type codedError struct {
	code    string
	message string
}

func (e codedError) Error() string     { return e.message }
func (e codedError) ErrorCode() string { return e.code }

func TestNormalizeKeepsTypedErrors(t *testing.T) {
	original := model.NewChainError(model.CodePricingStale, "oracle behind")
	got := Normalize(DefaultErrorMapping(), original, "planPortfolioRebalance")

	if got != original {
		t.Fatalf("typed errors should pass through")
	}
	if got.Source != "planPortfolioRebalance" {
		t.Fatalf("source should be tagged, got %q", got.Source)
	}
}

func TestNormalizeTypedErrorKeepsExistingSource(t *testing.T) {
	original := model.NewChainError(model.CodeValidationFailed, "bad address").WithSource("inner")
	got := Normalize(DefaultErrorMapping(), original, "outer")
	if got.Source != "inner" {
		t.Fatalf("existing source must not be overwritten, got %q", got.Source)
	}
}

func TestNormalizeWrappedTypedError(t *testing.T) {
	inner := model.NewChainError(model.CodeStateConflict, "already claimed")
	wrapped := fmt.Errorf("load snapshot: %w", inner)

	got := Normalize(DefaultErrorMapping(), wrapped, "executeRewardClaim")
	if got.Code != model.CodeStateConflict {
		t.Fatalf("wrapped typed error should keep its code, got %s", got.Code)
	}
}

func TestNormalizeClientCodeTable(t *testing.T) {
	got := Normalize(DefaultErrorMapping(), codedError{code: "NONCE_EXPIRED", message: "tx dropped"}, "op")
	if got.Code != model.CodeStateConflict {
		t.Fatalf("NONCE_EXPIRED maps to STATE_CONFLICT, got %s", got.Code)
	}
	if got.Details["client_code"] != "NONCE_EXPIRED" {
		t.Fatalf("client code should be recorded in details")
	}

	got = Normalize(DefaultErrorMapping(), codedError{code: "NETWORK_ERROR", message: "socket closed"}, "op")
	if got.Code != model.CodeChainUnavailable || !got.Retryable {
		t.Fatalf("NETWORK_ERROR maps to retryable CHAIN_UNAVAILABLE, got %+v", got)
	}
}

func TestNormalizeKeywordFallback(t *testing.T) {
	cases := map[string]model.ErrorCode{
		"ERC20: transfer amount exceeds allowance": model.CodeAuthorizationRequired,
		"oracle reports stale price":               model.CodePricingStale,
		"dial tcp: connection refused":             model.CodeChainUnavailable,
		"request timed out":                        model.CodeChainUnavailable,
		"method not implemented":                   model.CodeNotImplemented,
	}
	for message, want := range cases {
		got := Normalize(DefaultErrorMapping(), fmt.Errorf("%s", message), "op")
		if got.Code != want {
			t.Fatalf("%q should map to %s, got %s", message, want, got.Code)
		}
	}
}

func TestNormalizeDefaultsToInternal(t *testing.T) {
	got := Normalize(DefaultErrorMapping(), fmt.Errorf("something odd happened"), "op")
	if got.Code != model.CodeInternalError {
		t.Fatalf("unknown errors default to INTERNAL_ERROR, got %s", got.Code)
	}
	if got.Retryable {
		t.Fatalf("INTERNAL_ERROR is not retryable")
	}
}

func TestNormalizeContextErrors(t *testing.T) {
	got := Normalize(DefaultErrorMapping(), context.DeadlineExceeded, "op")
	if got.Code != model.CodeChainUnavailable {
		t.Fatalf("deadline exceeded maps to CHAIN_UNAVAILABLE, got %s", got.Code)
	}
}

func TestNormalizeNil(t *testing.T) {
	if got := Normalize(DefaultErrorMapping(), nil, "op"); got != nil {
		t.Fatalf("nil error should stay nil")
	}
}
