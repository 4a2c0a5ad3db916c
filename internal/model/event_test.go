package model

import "testing"

func TestEventCursorCompare(t *testing.T) {
	a := EventCursor{BlockNumber: 10, LogIndex: 0}
	b := EventCursor{BlockNumber: 10, LogIndex: 1}
	c := EventCursor{BlockNumber: 11, LogIndex: 0}

	if a.Compare(b) != -1 || b.Compare(a) != 1 {
		t.Fatalf("log index should break ties within a block")
	}
	if b.Compare(c) != -1 {
		t.Fatalf("block number dominates log index")
	}
	if a.Compare(a) != 0 {
		t.Fatalf("cursor should equal itself")
	}
	if !c.After(b) || b.After(c) {
		t.Fatalf("After should follow Compare")
	}
}

func TestChainErrorDefaults(t *testing.T) {
	err := NewChainError(CodeChainUnavailable, "rpc down")
	if !err.Retryable {
		t.Fatalf("CHAIN_UNAVAILABLE should be retryable")
	}
	if err.Name != "ContestChainError" {
		t.Fatalf("unexpected error name: %s", err.Name)
	}
	if err.Timestamp == "" {
		t.Fatalf("timestamp should be set")
	}

	conflict := NewChainError(CodeStateConflict, "already settled")
	if !conflict.Retryable || conflict.Severity != SeverityWarning {
		t.Fatalf("STATE_CONFLICT should be a retryable warning")
	}

	internal := NewChainError(CodeInternalError, "boom").WithSource("executeRewardClaim")
	if internal.Retryable {
		t.Fatalf("INTERNAL_ERROR should not be retryable")
	}
	if internal.Error() != "INTERNAL_ERROR (executeRewardClaim): boom" {
		t.Fatalf("unexpected error string: %s", internal.Error())
	}
}
