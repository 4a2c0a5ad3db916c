package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"contestScope/internal/model"
)

func TestMemoryRegistryPutGet(t *testing.T) {
	reg := NewMemoryRegistry()
	ctx := context.Background()

	record, err := reg.PutComponent(ctx, model.ComponentRecord{
		Organizer: "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		Wallet:    "0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB",
		ChainID:   8453,
		Kind:      model.ComponentVaultImplementation,
		Label:     "vault-v1",
		Address:   "0xCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC",
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if record.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if record.Address != "0xcccccccccccccccccccccccccccccccccccccccc" {
		t.Fatalf("address not normalized: %s", record.Address)
	}

	// Lookup is case-insensitive on the address.
	got, err := reg.GetComponent(ctx, 8453, "0xCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != record.ID || got.Label != "vault-v1" {
		t.Fatalf("unexpected record: %+v", got)
	}

	if _, err := reg.GetComponent(ctx, 1, record.Address); !errors.Is(err, ErrComponentNotFound) {
		t.Fatalf("expected ErrComponentNotFound, got %v", err)
	}
}

func TestMemoryRegistryUpsertKeepsID(t *testing.T) {
	reg := NewMemoryRegistry()
	ctx := context.Background()

	first, err := reg.PutComponent(ctx, model.ComponentRecord{
		Organizer: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		ChainID:   1,
		Kind:      model.ComponentPriceSource,
		Address:   "0xdddddddddddddddddddddddddddddddddddddddd",
		Label:     "oracle-v1",
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	first.Label = "oracle-v2"
	second, err := reg.PutComponent(ctx, first)
	if err != nil {
		t.Fatalf("re-put: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("id changed on upsert: %d vs %d", second.ID, first.ID)
	}

	got, err := reg.GetComponent(ctx, 1, first.Address)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Label != "oracle-v2" {
		t.Fatalf("expected updated label, got %s", got.Label)
	}
}

func TestMemoryRegistryListByOrganizer(t *testing.T) {
	reg := NewMemoryRegistry()
	ctx := context.Background()

	for i, addr := range []string{
		"0x1111111111111111111111111111111111111111",
		"0x2222222222222222222222222222222222222222",
	} {
		if _, err := reg.PutComponent(ctx, model.ComponentRecord{
			Organizer: "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
			ChainID:   uint64(i + 1),
			Kind:      model.ComponentVaultImplementation,
			Address:   addr,
		}); err != nil {
			t.Fatalf("put %d: %v", i, err)
		}
	}
	if _, err := reg.PutComponent(ctx, model.ComponentRecord{
		Organizer: "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee",
		ChainID:   1,
		Kind:      model.ComponentVaultImplementation,
		Address:   "0x3333333333333333333333333333333333333333",
	}); err != nil {
		t.Fatalf("put other: %v", err)
	}

	list, err := reg.ListComponents(ctx, "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 records, got %d", len(list))
	}
}

func TestJsonlJournalAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal", "deployments.jsonl")
	journal := NewJsonlJournal(path)

	artifacts := []model.DeploymentArtifact{
		{RequestID: "0x01", Organizer: "0xaaaa", ChainID: 1, ContestAddress: "0x0100"},
		{RequestID: "0x02", Organizer: "0xaaaa", ChainID: 1, ContestAddress: "0x0200"},
	}
	for _, artifact := range artifacts {
		if err := journal.AppendArtifact(artifact); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var lines int
	for scanner.Scan() {
		var artifact model.DeploymentArtifact
		if err := json.Unmarshal(scanner.Bytes(), &artifact); err != nil {
			t.Fatalf("line %d: %v", lines, err)
		}
		if artifact.RequestID != artifacts[lines].RequestID {
			t.Fatalf("line %d: expected %s, got %s", lines, artifacts[lines].RequestID, artifact.RequestID)
		}
		lines++
	}
	if lines != len(artifacts) {
		t.Fatalf("expected %d lines, got %d", len(artifacts), lines)
	}
}
