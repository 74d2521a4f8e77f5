package middleware

import (
	"context"
	"testing"
)

func TestRequestHashDeterministic(t *testing.T) {
	hash1 := RequestHash([]byte("payload"))
	hash2 := RequestHash([]byte("payload"))
	hash3 := RequestHash([]byte("other"))

	if hash1 != hash2 {
		t.Fatal("expected deterministic hash")
	}
	if hash1 == hash3 {
		t.Fatal("expected different hash for different payload")
	}
}

func TestNilIdempotencyStoreIsNoop(t *testing.T) {
	var store *PGIdempotencyStore
	if _, found, err := store.Check(context.Background(), "user:u1", "quotes.create", "k", "h"); found || err != nil {
		t.Fatalf("expected miss without error, got found=%v err=%v", found, err)
	}
	if err := store.Save(context.Background(), "user:u1", "quotes.create", "k", "h", nil); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
