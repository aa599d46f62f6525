package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestBackend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "stk.db")

	b, err := New(path)
	if err != nil {
		t.Fatalf("failed to open backend: %v", err)
	}
	if _, ok, err := b.Get(ctx, "wallet"); ok || err != nil {
		t.Errorf("Get(missing) = %v, %v, want not found", ok, err)
	}
	if err := b.Put(ctx, "wallet", []byte(`{"balance":1}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := b.Put(ctx, "wallet", []byte(`{"balance":2}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := b.Put(ctx, "portfolio", []byte(`[]`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	b.Close()

	// values survive a reopen.
	b, err = New(path)
	if err != nil {
		t.Fatalf("failed to reopen backend: %v", err)
	}
	defer b.Close()
	data, ok, err := b.Get(ctx, "wallet")
	if err != nil || !ok || string(data) != `{"balance":2}` {
		t.Errorf("Get(wallet) = %s, %v, %v, want the last value", data, ok, err)
	}
	data, ok, err = b.Get(ctx, "portfolio")
	if err != nil || !ok || string(data) != `[]` {
		t.Errorf("Get(portfolio) = %s, %v, %v", data, ok, err)
	}
}

func TestNewUnderAFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if b, err := New(filepath.Join(file, "stk.db")); err == nil {
		b.Close()
		t.Error("New() under a regular file = nil error, want one")
	}
}
